package commands

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
)

// RegisterDriverCommandHandler handles driver registration for fleet
// management. Duplicate registrations are rejected by the repository with a
// DuplicateDriverError.
type RegisterDriverCommandHandler struct {
	uowFactory DriverUoWFactory
}

// NewRegisterDriverCommandHandler creates a handler for driver registration.
func NewRegisterDriverCommandHandler(uowFactory DriverUoWFactory) RegisterDriverCommandHandler {
	return RegisterDriverCommandHandler{uowFactory: uowFactory}
}

// Handle creates the driver aggregate in Offline state and persists it.
func (h RegisterDriverCommandHandler) Handle(ctx context.Context, cmd RegisterDriverCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := driver.NewDriver(
		cmd.DriverID(), cmd.Name(), cmd.Phone(), cmd.Vehicle(), cmd.MaxActive())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DriverRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
