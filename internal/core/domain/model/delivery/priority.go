package delivery

import (
	"dispatch/internal/pkg/errs"
)

// Priority is the business-assigned urgency tier of a delivery.
// It influences assignment order during dispatch and is immutable after
// creation. Priority is independent of scheduling time, which is used only
// as a tie-break.
type Priority int

const (
	// PriorityUnknown represents an invalid or undefined priority.
	PriorityUnknown Priority = iota

	// PriorityLow deliveries are assigned after all other tiers.
	PriorityLow

	// PriorityMedium is the default tier for regular deliveries.
	PriorityMedium

	// PriorityHigh deliveries jump ahead of medium and low tiers.
	PriorityHigh

	// PriorityUrgent deliveries are always assigned first.
	PriorityUrgent
)

// getPriorityStrings returns the string representation for every Priority value.
func getPriorityStrings() map[Priority]string {
	return map[Priority]string{
		PriorityUnknown: "Unknown",
		PriorityLow:     "Low",
		PriorityMedium:  "Medium",
		PriorityHigh:    "High",
		PriorityUrgent:  "Urgent",
	}
}

// Validate checks that the Priority is one of the defined tiers.
func (p Priority) Validate() error {
	if p < PriorityLow || p > PriorityUrgent {
		return errs.NewValueIsInvalidError("priority")
	}
	return nil
}

// String returns the human-readable name of the priority tier.
func (p Priority) String() string {
	if str, ok := getPriorityStrings()[p]; ok {
		return str
	}
	return "Unknown"
}

// PriorityFromString parses a priority name as it appears over the wire.
func PriorityFromString(s string) (Priority, error) {
	for priority, name := range getPriorityStrings() {
		if name == s && priority != PriorityUnknown {
			return priority, nil
		}
	}
	return PriorityUnknown, errs.NewValueIsInvalidError("priority")
}

// Rank returns the sort weight of the priority; higher means assigned first.
// The dispatch ordering is Urgent > High > Medium > Low.
func (p Priority) Rank() int {
	return int(p)
}
