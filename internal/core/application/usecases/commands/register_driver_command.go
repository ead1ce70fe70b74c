package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRegisterDriverCommandIsNotConstructed = errors.New(
	"RegisterDriverCommand must be created via NewRegisterDriverCommand constructor",
)

// RegisterDriverCommand adds a new driver to the registry. Registered
// drivers start Offline and must go Available before they can be dispatched.
type RegisterDriverCommand struct { //nolint:recvcheck //using for validation
	driverID  kernel.UUID
	name      string
	phone     string
	vehicle   string
	maxActive int

	guard guard.ConstructorGuard
}

// NewRegisterDriverCommand creates a command to register a driver.
// maxActive caps the driver's concurrent active deliveries; values below 1
// fall back to the default single-delivery policy.
func NewRegisterDriverCommand(
	driverID kernel.UUID, name, phone, vehicle string, maxActive int,
) (RegisterDriverCommand, error) {
	cmd := RegisterDriverCommand{
		maxActive: maxActive,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setName(name),
		cmd.setPhone(phone),
		cmd.setVehicle(vehicle),
	); err != nil {
		return RegisterDriverCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterDriverCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDriverCommandIsNotConstructed)
}

// DriverID returns the identifier for the new driver.
func (c RegisterDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Name returns the driver's display name.
func (c RegisterDriverCommand) Name() string {
	return c.name
}

// Phone returns the driver's contact phone number.
func (c RegisterDriverCommand) Phone() string {
	return c.phone
}

// Vehicle returns the driver's vehicle descriptor.
func (c RegisterDriverCommand) Vehicle() string {
	return c.vehicle
}

// MaxActive returns the configured concurrent delivery cap.
func (c RegisterDriverCommand) MaxActive() int {
	return c.maxActive
}

func (c *RegisterDriverCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	c.driverID = driverID
	return nil
}

func (c *RegisterDriverCommand) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("driver name")
	}
	c.name = name
	return nil
}

func (c *RegisterDriverCommand) setPhone(phone string) error {
	if phone == "" {
		return errs.NewValueIsRequiredError("driver phone")
	}
	c.phone = phone
	return nil
}

func (c *RegisterDriverCommand) setVehicle(vehicle string) error {
	if vehicle == "" {
		return errs.NewValueIsRequiredError("driver vehicle")
	}
	c.vehicle = vehicle
	return nil
}
