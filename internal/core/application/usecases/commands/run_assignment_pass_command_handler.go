package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// RunAssignmentPassCommandHandler is the dispatcher: it sweeps the Pending
// backlog in dispatch order and matches each delivery with the nearest
// capable driver.
//
// Each delivery is processed in its own transaction with a fresh read of the
// delivery and the available drivers. One delivery's failure (no driver,
// concurrent modification, driver snatched between read and commit) is
// recorded in the report and never aborts the rest of the pass.
type RunAssignmentPassCommandHandler struct {
	uowFactory UoWFactory
	matcher    services.DriverMatcher
	publisher  ports.EventPublisher
}

// NewRunAssignmentPassCommandHandler creates a dispatcher pass handler.
func NewRunAssignmentPassCommandHandler(
	uowFactory UoWFactory,
	matcher services.DriverMatcher,
	publisher ports.EventPublisher,
) RunAssignmentPassCommandHandler {
	return RunAssignmentPassCommandHandler{
		uowFactory: uowFactory,
		matcher:    matcher,
		publisher:  publisher,
	}
}

// Handle runs one pass and reports the per-delivery outcomes.
func (h RunAssignmentPassCommandHandler) Handle(
	ctx context.Context,
	cmd RunAssignmentPassCommand,
) (AssignmentReport, error) {
	if err := cmd.Validate(); err != nil {
		return AssignmentReport{}, err
	}

	pending, err := h.readPending(ctx)
	if err != nil {
		return AssignmentReport{}, err
	}

	report := AssignmentReport{Results: make([]AssignmentResult, 0, len(pending))}
	for _, id := range pending {
		drv, assignErr := h.assignOne(ctx, id)

		result := AssignmentResult{DeliveryID: id, Err: assignErr}
		if assignErr == nil && drv != nil {
			driverID := drv.ID()
			result.DriverID = &driverID
		}
		report.Results = append(report.Results, result)
	}

	return report, nil
}

// readPending snapshots the backlog in dispatch order (priority descending,
// then scheduled time ascending). Only the IDs are kept: each delivery is
// re-read inside its own transaction so the snapshot can go stale harmlessly.
func (h RunAssignmentPassCommandHandler) readPending(ctx context.Context) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveries, err := uow.DeliveryRepository().GetAllPending(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(deliveries))
	for _, d := range deliveries {
		ids = append(ids, d.ID())
	}
	return ids, nil
}

// assignOne matches and commits a single delivery. A delivery that is no
// longer Pending on re-read is skipped without error.
func (h RunAssignmentPassCommandHandler) assignOne(
	ctx context.Context,
	id kernel.UUID,
) (*driver.Driver, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.DeliveryRepository().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if aggregate.Status() != delivery.StatusPending {
		return nil, nil
	}

	available, err := uow.DriverRepository().GetAllAvailable(ctx)
	if err != nil {
		return nil, err
	}

	drv, err := h.matcher.Match(aggregate, available)
	if err != nil {
		return nil, err
	}

	expectedVersion := aggregate.Version()
	oldAvailability := drv.Availability()

	if err = drv.TakeDelivery(); err != nil {
		return nil, err
	}

	if err = aggregate.Assign(drv.ID()); err != nil {
		return nil, err
	}

	if err = uow.DeliveryRepository().Update(ctx, aggregate, expectedVersion); err != nil {
		return nil, err
	}

	if err = uow.DriverRepository().Update(ctx, drv); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	h.publisher.Publish(events.NewDeliveryStatusChanged(
		aggregate.ID(), delivery.StatusPending, aggregate.Status(), now))
	h.publisher.Publish(events.NewDeliveryAssigned(aggregate.ID(), drv.ID(), now))

	if drv.Availability() != oldAvailability {
		h.publisher.Publish(events.NewDriverAvailabilityChanged(
			drv.ID(), oldAvailability, drv.Availability(), now))
	}

	return drv, nil
}
