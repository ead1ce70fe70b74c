package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// ReconcileDriversCommandHandler recomputes every driver's active-delivery
// counter from the delivery store and repairs any drift. Each driver is
// repaired in its own transaction so one failure does not block the rest.
type ReconcileDriversCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewReconcileDriversCommandHandler creates a reconciliation handler.
func NewReconcileDriversCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
) ReconcileDriversCommandHandler {
	return ReconcileDriversCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle runs one reconciliation pass and returns how many drivers were
// repaired.
func (h ReconcileDriversCommandHandler) Handle(ctx context.Context, cmd ReconcileDriversCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	driverIDs, err := h.readDriverIDs(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, id := range driverIDs {
		changed, reconcileErr := h.reconcileOne(ctx, id)
		if reconcileErr != nil {
			return repaired, reconcileErr
		}
		if changed {
			repaired++
		}
	}

	return repaired, nil
}

func (h ReconcileDriversCommandHandler) readDriverIDs(ctx context.Context) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	drivers, err := uow.DriverRepository().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(drivers))
	for _, drv := range drivers {
		ids = append(ids, drv.ID())
	}
	return ids, nil
}

// reconcileOne recounts one driver's active deliveries and persists the
// corrected counter when it drifted. The recount and the repair share a
// transaction so a concurrent assignment cannot slip between them.
func (h ReconcileDriversCommandHandler) reconcileOne(ctx context.Context, id kernel.UUID) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	drv, err := uow.DriverRepository().Get(ctx, id)
	if err != nil {
		return false, err
	}

	active, err := uow.DeliveryRepository().GetAllActiveByDriver(ctx, id)
	if err != nil {
		return false, err
	}

	if drv.ActiveDeliveries() == len(active) {
		return false, nil
	}

	oldAvailability := drv.Availability()

	if err = drv.ResetActiveDeliveries(len(active)); err != nil {
		return false, err
	}

	if err = uow.DriverRepository().Update(ctx, drv); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	if drv.Availability() != oldAvailability {
		h.publisher.Publish(events.NewDriverAvailabilityChanged(
			drv.ID(), oldAvailability, drv.Availability(), time.Now().UTC()))
	}

	return true, nil
}
