package commands

import (
	"context"
)

// ReportDriverLocationCommandHandler stores driver position updates.
type ReportDriverLocationCommandHandler struct {
	uowFactory DriverUoWFactory
}

// NewReportDriverLocationCommandHandler creates a handler for location reports.
func NewReportDriverLocationCommandHandler(uowFactory DriverUoWFactory) ReportDriverLocationCommandHandler {
	return ReportDriverLocationCommandHandler{uowFactory: uowFactory}
}

// Handle updates the driver's last-known location.
func (h ReportDriverLocationCommandHandler) Handle(ctx context.Context, cmd ReportDriverLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()

	aggregate, err := driverRepo.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	if err = aggregate.ReportLocation(cmd.Location()); err != nil {
		return err
	}

	if err = driverRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
