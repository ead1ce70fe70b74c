package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrReportDriverLocationCommandIsNotConstructed = errors.New(
	"ReportDriverLocationCommand must be created via NewReportDriverLocationCommand constructor",
)

// ReportDriverLocationCommand records a driver's last-known position as
// reported by the driver mobile app. Positions feed the proximity ranking
// used during dispatch.
type ReportDriverLocationCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	location kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewReportDriverLocationCommand creates a location report command.
func NewReportDriverLocationCommand(
	driverID kernel.UUID, location kernel.GeoPoint,
) (ReportDriverLocationCommand, error) {
	cmd := ReportDriverLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setLocation(location),
	); err != nil {
		return ReportDriverLocationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportDriverLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportDriverLocationCommandIsNotConstructed)
}

// DriverID returns the reporting driver.
func (c ReportDriverLocationCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Location returns the reported position.
func (c ReportDriverLocationCommand) Location() kernel.GeoPoint {
	return c.location
}

func (c *ReportDriverLocationCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	c.driverID = driverID
	return nil
}

func (c *ReportDriverLocationCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}
