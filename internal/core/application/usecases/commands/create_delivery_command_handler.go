package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
)

// CreateDeliveryCommandHandler persists new deliveries submitted by the
// order pipeline and announces them to subscribers.
type CreateDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
	publisher  ports.EventPublisher
}

// NewCreateDeliveryCommandHandler creates a handler for delivery creation.
func NewCreateDeliveryCommandHandler(
	uowFactory DeliveryUoWFactory,
	publisher ports.EventPublisher,
) CreateDeliveryCommandHandler {
	return CreateDeliveryCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle builds the Pending delivery aggregate, persists it transactionally,
// and publishes DeliveryCreated after a successful commit.
func (h CreateDeliveryCommandHandler) Handle(ctx context.Context, cmd CreateDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := delivery.NewDelivery(
		cmd.DeliveryID(),
		cmd.OrderID(),
		cmd.Customer(),
		cmd.Items(),
		cmd.Priority(),
		cmd.ScheduledTime(),
		cmd.EstimatedDelivery(),
		cmd.DistanceMiles(),
		cmd.DeliveryFee(),
		cmd.Notes(),
	)
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

	if err = uow.DeliveryRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(events.NewDeliveryCreated(
		aggregate.ID(), aggregate.OrderID(), aggregate.Priority(), time.Now().UTC()))
	return nil
}
