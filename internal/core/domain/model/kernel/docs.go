// Package kernel contains shared value objects used across the dispatch domain.
//
// The kernel provides:
//   - UUID: validated identifier wrapping github.com/google/uuid
//   - GeoPoint: validated geographic coordinate pair with straight-line
//     distance calculation
//
// All kernel types are immutable value objects that must be created through
// their constructor functions. Zero values fail validation.
package kernel
