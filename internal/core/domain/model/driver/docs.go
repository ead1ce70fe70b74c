// Package driver contains the Driver aggregate root and its availability
// state.
//
// The aggregate owns the relationship between the active-delivery counter and
// the availability state: Available and Busy flip automatically as the
// counter crosses the configured cap (default one), while Offline is an
// explicit state that cannot be entered while deliveries are in flight.
package driver
