package driver

import (
	"dispatch/internal/pkg/errs"
)

// Availability represents a driver's readiness to take deliveries.
//
// Available and Busy are managed automatically by the active-delivery
// counter; Offline is an explicit driver or admin state. A driver carrying
// active deliveries cannot go Offline, so deliveries are never orphaned.
type Availability int

const (
	// AvailabilityUnknown represents an invalid or undefined availability.
	AvailabilityUnknown Availability = iota

	// Available means the driver can take new deliveries.
	Available

	// Busy means the driver is at capacity with active deliveries.
	Busy

	// Offline means the driver is not working. New drivers start Offline.
	Offline
)

// getAvailabilityStrings returns the string representation for every Availability value.
func getAvailabilityStrings() map[Availability]string {
	return map[Availability]string{
		AvailabilityUnknown: "Unknown",
		Available:           "Available",
		Busy:                "Busy",
		Offline:             "Offline",
	}
}

// Validate checks that the Availability is one of the defined states.
func (a Availability) Validate() error {
	if a < Available || a > Offline {
		return errs.NewValueIsInvalidError("availability")
	}
	return nil
}

// String returns the human-readable name of the availability state.
func (a Availability) String() string {
	if str, ok := getAvailabilityStrings()[a]; ok {
		return str
	}
	return "Unknown"
}

// AvailabilityFromString parses an availability name as it appears over the wire.
func AvailabilityFromString(s string) (Availability, error) {
	for availability, name := range getAvailabilityStrings() {
		if name == s && availability != AvailabilityUnknown {
			return availability, nil
		}
	}
	return AvailabilityUnknown, errs.NewValueIsInvalidError("availability")
}
