// Package services contains stateless domain services that coordinate
// behavior across aggregates.
//
// DriverMatcher implements the proximity-based driver selection used by both
// the periodic assignment pass and manual dispatch. It is a pure ranking
// function; transactional commitment of an assignment belongs to the
// application layer.
package services
