package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrTransitionDeliveryCommandIsNotConstructed = errors.New(
	"TransitionDeliveryCommand must be created via NewTransitionDeliveryCommand constructor",
)

// TransitionDeliveryCommand moves a delivery through its state machine with
// optimistic concurrency control. Callers pass the version they read; a
// stale version is rejected with a VersionConflictError and the caller must
// re-read and retry. This is the single mutation path shared by driver
// progress reports, admin actions, and the dispatcher, which is what makes
// concurrent updates safe.
//
// A driver ID is required when the target is Assigned; a reason is required
// when the target is Failed (CancelReason for cancelling a Pending delivery).
type TransitionDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID      kernel.UUID
	expectedVersion int
	target          delivery.Status
	driverID        *kernel.UUID
	reason          string

	guard guard.ConstructorGuard
}

// NewTransitionDeliveryCommand creates a transition command.
func NewTransitionDeliveryCommand(
	deliveryID kernel.UUID,
	expectedVersion int,
	target delivery.Status,
	driverID *kernel.UUID,
	reason string,
) (TransitionDeliveryCommand, error) {
	cmd := TransitionDeliveryCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setExpectedVersion(expectedVersion),
		cmd.setTarget(target),
		cmd.setDriverID(target, driverID),
	); err != nil {
		return TransitionDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrTransitionDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery being transitioned.
func (c TransitionDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// ExpectedVersion returns the version the caller read before mutating.
func (c TransitionDeliveryCommand) ExpectedVersion() int {
	return c.expectedVersion
}

// Target returns the requested status.
func (c TransitionDeliveryCommand) Target() delivery.Status {
	return c.target
}

// DriverID returns the driver to assign; nil unless the target is Assigned.
func (c TransitionDeliveryCommand) DriverID() *kernel.UUID {
	return c.driverID
}

// Reason returns the failure reason; empty unless the target is Failed.
func (c TransitionDeliveryCommand) Reason() string {
	return c.reason
}

func (c *TransitionDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}
	c.deliveryID = deliveryID
	return nil
}

func (c *TransitionDeliveryCommand) setExpectedVersion(expectedVersion int) error {
	if expectedVersion < 1 {
		return errs.NewValueIsInvalidError("expected version")
	}
	c.expectedVersion = expectedVersion
	return nil
}

func (c *TransitionDeliveryCommand) setTarget(target delivery.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if target == delivery.StatusPending {
		return errs.NewValueIsInvalidError("target status cannot be Pending")
	}
	c.target = target
	return nil
}

func (c *TransitionDeliveryCommand) setDriverID(target delivery.Status, driverID *kernel.UUID) error {
	if target == delivery.StatusAssigned {
		if driverID == nil {
			return errs.NewValueIsRequiredError("driverId")
		}
		if err := driverID.Validate(); err != nil {
			return err
		}
		c.driverID = driverID
		return nil
	}

	if driverID != nil {
		return errs.NewValueIsInvalidError("driverId is only accepted when assigning")
	}
	return nil
}
