package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// TransitionDeliveryCommandHandler executes a state machine transition under
// optimistic concurrency. The delivery update and any driver counter change
// happen in one transaction, so a crash can never leave a delivery Delivered
// while its driver still counts it as active.
//
// The version guard is applied twice: here against the freshly read aggregate
// (a cheap early rejection for stale admin sessions), and again by the
// repository's guarded UPDATE, which is what actually serializes concurrent
// writers.
type TransitionDeliveryCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewTransitionDeliveryCommandHandler creates a handler for delivery transitions.
func NewTransitionDeliveryCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
) TransitionDeliveryCommandHandler {
	return TransitionDeliveryCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle applies the requested transition and publishes the resulting events
// after commit.
func (h TransitionDeliveryCommandHandler) Handle(ctx context.Context, cmd TransitionDeliveryCommand) error {
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

	aggregate, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if aggregate.Version() != cmd.ExpectedVersion() {
		return errs.NewVersionConflictError("delivery", aggregate.ID(), cmd.ExpectedVersion())
	}

	oldStatus := aggregate.Status()

	var (
		touchedDriver   *driver.Driver
		oldAvailability driver.Availability
	)

	switch cmd.Target() {
	case delivery.StatusAssigned:
		touchedDriver, oldAvailability, err = h.assign(ctx, uow, aggregate, *cmd.DriverID())
	case delivery.StatusPickedUp:
		err = aggregate.MarkPickedUp()
	case delivery.StatusInTransit:
		err = aggregate.MarkInTransit()
	case delivery.StatusDelivered:
		touchedDriver, oldAvailability, err = h.deliver(ctx, uow, aggregate)
	case delivery.StatusFailed:
		touchedDriver, oldAvailability, err = h.fail(ctx, uow, aggregate, cmd.Reason())
	default:
		err = errs.NewInvalidTransitionError(oldStatus.String(), cmd.Target().String())
	}
	if err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, aggregate, cmd.ExpectedVersion()); err != nil {
		return err
	}

	if touchedDriver != nil {
		if err = uow.DriverRepository().Update(ctx, touchedDriver); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	now := time.Now().UTC()
	h.publisher.Publish(events.NewDeliveryStatusChanged(aggregate.ID(), oldStatus, aggregate.Status(), now))

	if aggregate.Status() == delivery.StatusAssigned && touchedDriver != nil {
		h.publisher.Publish(events.NewDeliveryAssigned(aggregate.ID(), touchedDriver.ID(), now))
	}

	if aggregate.Status().IsTerminal() {
		h.publisher.Publish(events.NewDeliveryTerminal(
			aggregate.ID(), aggregate.Status(), aggregate.FailureReason(), now))
	}

	if touchedDriver != nil && touchedDriver.Availability() != oldAvailability {
		h.publisher.Publish(events.NewDriverAvailabilityChanged(
			touchedDriver.ID(), oldAvailability, touchedDriver.Availability(), now))
	}

	return nil
}

// assign claims capacity on the driver and moves the delivery to Assigned.
// The counter increment and the status change commit or roll back together.
func (h TransitionDeliveryCommandHandler) assign(
	ctx context.Context,
	uow UoW,
	aggregate *delivery.Delivery,
	driverID kernel.UUID,
) (*driver.Driver, driver.Availability, error) {
	drv, err := uow.DriverRepository().Get(ctx, driverID)
	if err != nil {
		return nil, driver.Offline, err
	}

	oldAvailability := drv.Availability()

	if err = drv.TakeDelivery(); err != nil {
		return nil, driver.Offline, err
	}

	if err = aggregate.Assign(drv.ID()); err != nil {
		return nil, driver.Offline, err
	}

	return drv, oldAvailability, nil
}

// deliver completes the delivery and releases the driver, accruing the fee
// into the driver's daily stats.
func (h TransitionDeliveryCommandHandler) deliver(
	ctx context.Context,
	uow UoW,
	aggregate *delivery.Delivery,
) (*driver.Driver, driver.Availability, error) {
	if err := aggregate.MarkDelivered(time.Now().UTC()); err != nil {
		return nil, driver.Offline, err
	}

	return h.release(ctx, uow, aggregate, true)
}

// fail terminates the delivery. The driver is released only when the delivery
// was active; cancelling a Pending delivery touches no driver.
func (h TransitionDeliveryCommandHandler) fail(
	ctx context.Context,
	uow UoW,
	aggregate *delivery.Delivery,
	reason string,
) (*driver.Driver, driver.Availability, error) {
	hadDriver := aggregate.Status().IsActive()

	if err := aggregate.MarkFailed(reason); err != nil {
		return nil, driver.Offline, err
	}

	if !hadDriver {
		return nil, driver.Offline, nil
	}

	return h.release(ctx, uow, aggregate, false)
}

func (h TransitionDeliveryCommandHandler) release(
	ctx context.Context,
	uow UoW,
	aggregate *delivery.Delivery,
	completed bool,
) (*driver.Driver, driver.Availability, error) {
	drv, err := uow.DriverRepository().Get(ctx, *aggregate.Driver())
	if err != nil {
		return nil, driver.Offline, err
	}

	oldAvailability := drv.Availability()

	if err = drv.ReleaseDelivery(completed, aggregate.DeliveryFee()); err != nil {
		return nil, driver.Offline, err
	}

	return drv, oldAvailability, nil
}
