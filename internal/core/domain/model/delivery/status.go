package delivery

import (
	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery.
// It implements a state machine with a closed transition table so that
// illegal states are unrepresentable.
//
// State transitions:
//
//	Pending ──> Assigned ──> PickedUp ──> InTransit ──> Delivered
//	   │            │            │             │
//	   │ (cancel)   └────────────┴─────────────┴──> Failed
//	   └──> Failed(cancelled)
//
// Delivered and Failed are terminal; no further transitions are permitted.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status when a delivery is created.
	// Pending deliveries are waiting to be assigned to a driver.
	StatusPending

	// StatusAssigned indicates a driver has been assigned to the delivery.
	StatusAssigned

	// StatusPickedUp indicates the driver has collected the order.
	StatusPickedUp

	// StatusInTransit indicates the driver is en route to the customer.
	StatusInTransit

	// StatusDelivered indicates successful delivery. Terminal.
	StatusDelivered

	// StatusFailed indicates the delivery did not complete. Terminal.
	// A Pending delivery can only reach Failed through cancellation.
	StatusFailed
)

// getStatusStrings returns the string representation for every Status value.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "Unknown",
		StatusPending:   "Pending",
		StatusAssigned:  "Assigned",
		StatusPickedUp:  "PickedUp",
		StatusInTransit: "InTransit",
		StatusDelivered: "Delivered",
		StatusFailed:    "Failed",
	}
}

// getTransitionTable returns the allowed target states for each status.
// Terminal states map to an empty set.
func getTransitionTable() map[Status][]Status {
	return map[Status][]Status{
		StatusPending:   {StatusAssigned, StatusFailed},
		StatusAssigned:  {StatusPickedUp, StatusFailed},
		StatusPickedUp:  {StatusInTransit, StatusFailed},
		StatusInTransit: {StatusDelivered, StatusFailed},
		StatusDelivered: {},
		StatusFailed:    {},
	}
}

// Validate checks that the Status is one of the defined lifecycle states.
// StatusUnknown and any out-of-range value are invalid.
func (s Status) Validate() error {
	if _, ok := getTransitionTable()[s]; !ok {
		return errs.NewValueIsInvalidError("status")
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StatusFromString parses a status name as it appears over the wire.
// Returns a validation error for unrecognized names.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidError("status")
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusFailed
}

// IsActive reports whether a delivery in this status occupies a driver.
// Active statuses are Assigned, PickedUp, and InTransit.
func (s Status) IsActive() bool {
	return s == StatusAssigned || s == StatusPickedUp || s == StatusInTransit
}

// CanTransitionTo reports whether the transition table allows moving from
// the current status to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range getTransitionTable()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo moves the state machine to target, returning the new status.
// Rejected transitions produce an InvalidTransitionError naming the current
// and the attempted state.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return StatusUnknown, err
	}

	if !s.CanTransitionTo(target) {
		return StatusUnknown, errs.NewInvalidTransitionError(s.String(), target.String())
	}

	return target, nil
}

// ValidateCanHaveDriver enforces the consistency rule between status and
// driver assignment: a delivery has a driver if and only if it is not Pending.
func (s Status) ValidateCanHaveDriver(hasDriver bool) error {
	if hasDriver && s == StatusPending {
		return errs.NewValueIsInvalidError("pending delivery must not have a driver")
	}

	if !hasDriver && s != StatusPending {
		return errs.NewValueIsInvalidError("non-pending delivery must have a driver")
	}

	return nil
}
