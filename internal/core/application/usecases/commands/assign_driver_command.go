package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAssignDriverCommandIsNotConstructed = errors.New(
	"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
)

// AssignDriverCommand is the manual admin override for driver assignment:
// a specific driver for a specific Pending delivery, bypassing proximity
// ranking but not the capacity and availability rules.
type AssignDriverCommand struct { //nolint:recvcheck //using for validation
	deliveryID      kernel.UUID
	driverID        kernel.UUID
	expectedVersion int

	guard guard.ConstructorGuard
}

// NewAssignDriverCommand creates a manual assignment command.
func NewAssignDriverCommand(
	deliveryID kernel.UUID,
	driverID kernel.UUID,
	expectedVersion int,
) (AssignDriverCommand, error) {
	cmd := AssignDriverCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setDriverID(driverID),
		cmd.setExpectedVersion(expectedVersion),
	); err != nil {
		return AssignDriverCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

// DeliveryID returns the delivery to assign.
func (c AssignDriverCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// DriverID returns the driver chosen by the admin.
func (c AssignDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

// ExpectedVersion returns the version the caller read before mutating.
func (c AssignDriverCommand) ExpectedVersion() int {
	return c.expectedVersion
}

func (c *AssignDriverCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}
	c.deliveryID = deliveryID
	return nil
}

func (c *AssignDriverCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	c.driverID = driverID
	return nil
}

func (c *AssignDriverCommand) setExpectedVersion(expectedVersion int) error {
	if expectedVersion < 1 {
		return errs.NewValueIsInvalidError("expected version")
	}
	c.expectedVersion = expectedVersion
	return nil
}
