package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/ports"
)

// SetDriverAvailabilityCommandHandler applies availability overrides and
// publishes DriverAvailabilityChanged when the state actually changed.
type SetDriverAvailabilityCommandHandler struct {
	uowFactory DriverUoWFactory
	publisher  ports.EventPublisher
}

// NewSetDriverAvailabilityCommandHandler creates a handler for availability overrides.
func NewSetDriverAvailabilityCommandHandler(
	uowFactory DriverUoWFactory,
	publisher ports.EventPublisher,
) SetDriverAvailabilityCommandHandler {
	return SetDriverAvailabilityCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle loads the driver, applies the override through the aggregate's own
// rules, and persists the result. Unknown drivers surface an
// ObjectNotFoundError; a Busy driver asked to go Offline surfaces an
// InvalidTransitionError.
func (h SetDriverAvailabilityCommandHandler) Handle(ctx context.Context, cmd SetDriverAvailabilityCommand) error {
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

	oldState := aggregate.Availability()
	if err = aggregate.SetAvailability(cmd.Target()); err != nil {
		return err
	}

	if err = driverRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if oldState != aggregate.Availability() {
		h.publisher.Publish(events.NewDriverAvailabilityChanged(
			aggregate.ID(), oldState, aggregate.Availability(), time.Now().UTC()))
	}
	return nil
}
