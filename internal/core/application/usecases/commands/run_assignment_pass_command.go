package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/guard"
)

var ErrRunAssignmentPassCommandIsNotConstructed = errors.New(
	"RunAssignmentPassCommand must be created via NewRunAssignmentPassCommand constructor",
)

// RunAssignmentPassCommand triggers one dispatcher sweep over the Pending
// backlog. It carries no parameters; the pass always considers every pending
// delivery in dispatch order.
type RunAssignmentPassCommand struct {
	guard guard.ConstructorGuard
}

// NewRunAssignmentPassCommand creates an assignment pass command.
func NewRunAssignmentPassCommand() (RunAssignmentPassCommand, error) {
	return RunAssignmentPassCommand{guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c RunAssignmentPassCommand) Validate() error {
	return c.guard.Validate(ErrRunAssignmentPassCommandIsNotConstructed)
}

// AssignmentResult records the outcome for one pending delivery considered by
// a pass: the driver it was matched with, or the error that left it Pending.
type AssignmentResult struct {
	DeliveryID kernel.UUID
	DriverID   *kernel.UUID
	Err        error
}

// Assigned reports whether the delivery was matched and committed.
func (r AssignmentResult) Assigned() bool {
	return r.Err == nil && r.DriverID != nil
}

// AssignmentReport summarizes one dispatcher pass.
type AssignmentReport struct {
	Results []AssignmentResult
}

// AssignedCount returns how many deliveries the pass assigned.
func (r AssignmentReport) AssignedCount() int {
	count := 0
	for _, result := range r.Results {
		if result.Assigned() {
			count++
		}
	}
	return count
}

// UnmatchedCount returns how many deliveries stayed Pending for lack of a
// driver.
func (r AssignmentReport) UnmatchedCount() int {
	count := 0
	for _, result := range r.Results {
		if errors.Is(result.Err, services.ErrNoAvailableDriver) {
			count++
		}
	}
	return count
}
