package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrSetDriverAvailabilityCommandIsNotConstructed = errors.New(
	"SetDriverAvailabilityCommand must be created via NewSetDriverAvailabilityCommand constructor",
)

// SetDriverAvailabilityCommand applies a driver- or admin-initiated
// availability override, such as a driver going off shift. Going Offline is
// rejected while the driver carries active deliveries.
type SetDriverAvailabilityCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	target   driver.Availability

	guard guard.ConstructorGuard
}

// NewSetDriverAvailabilityCommand creates an availability override command.
func NewSetDriverAvailabilityCommand(
	driverID kernel.UUID, target driver.Availability,
) (SetDriverAvailabilityCommand, error) {
	cmd := SetDriverAvailabilityCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setTarget(target),
	); err != nil {
		return SetDriverAvailabilityCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SetDriverAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetDriverAvailabilityCommandIsNotConstructed)
}

// DriverID returns the driver being overridden.
func (c SetDriverAvailabilityCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Target returns the requested availability state.
func (c SetDriverAvailabilityCommand) Target() driver.Availability {
	return c.target
}

func (c *SetDriverAvailabilityCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	c.driverID = driverID
	return nil
}

func (c *SetDriverAvailabilityCommand) setTarget(target driver.Availability) error {
	if err := target.Validate(); err != nil {
		return err
	}
	c.target = target
	return nil
}
