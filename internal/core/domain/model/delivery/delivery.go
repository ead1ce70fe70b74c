package delivery

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// CancelReason is the failure reason recorded when a Pending delivery is
// cancelled. Cancellation is the only path from Pending to Failed.
const CancelReason = "cancelled"

// ErrDeliveryIsNotConstructed is returned when a Delivery instance was not
// created through NewDelivery or RestoreDelivery.
var ErrDeliveryIsNotConstructed = errors.New(
	"Delivery must be created via NewDelivery or RestoreDelivery constructor")

// Delivery is the aggregate root tracking one order's physical transport to a
// customer, from creation through driver assignment to delivery or failure.
//
// Invariants maintained by the aggregate:
//   - driverID is non-nil if and only if status is not Pending
//   - actualDelivery is non-nil if and only if status is Delivered
//   - priority, distanceMiles, and deliveryFee are fixed at creation
//   - version increases by one on every successful mutation
//   - Delivered and Failed are terminal; no further mutation is permitted
//
// The version field is the optimistic concurrency token: repositories persist
// updates guarded on the version the caller read, and concurrent writers with
// the same expected version cannot both succeed.
type Delivery struct {
	id       kernel.UUID
	orderID  kernel.UUID
	customer Customer
	items    []Item

	status   Status
	priority Priority
	driverID *kernel.UUID

	scheduledTime     time.Time
	estimatedDelivery time.Time
	actualDelivery    *time.Time

	distanceMiles float64
	deliveryFee   float64
	notes         string
	failureReason string

	version int
	guard   guard.ConstructorGuard
}

// NewDelivery creates a Pending delivery with version 1.
//
// Validation rules:
//   - id and orderID must be valid UUIDs
//   - customer must be a constructed Customer
//   - at least one item is required
//   - priority must be a defined tier
//   - scheduledTime must not be zero
//   - distanceMiles and deliveryFee must not be negative
//
// All violations are joined into a single validation error.
func NewDelivery(
	id kernel.UUID,
	orderID kernel.UUID,
	customer Customer,
	items []Item,
	priority Priority,
	scheduledTime time.Time,
	estimatedDelivery time.Time,
	distanceMiles float64,
	deliveryFee float64,
	notes string,
) (*Delivery, error) {
	d := &Delivery{
		status:  StatusPending,
		notes:   notes,
		version: 1,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setOrderID(orderID),
		d.setCustomer(customer),
		d.setItems(items),
		d.setPriority(priority),
		d.setScheduledTime(scheduledTime),
		d.setEstimatedDelivery(estimatedDelivery),
		d.setDistanceMiles(distanceMiles),
		d.setDeliveryFee(deliveryFee),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDelivery rehydrates a delivery from persistence.
// Beyond field validation it re-checks the cross-field invariants, so a row
// corrupted outside the application cannot enter the domain:
// driver presence must match the status, and actualDelivery must be set
// exactly for Delivered.
func RestoreDelivery(
	id kernel.UUID,
	orderID kernel.UUID,
	customer Customer,
	items []Item,
	status Status,
	priority Priority,
	driverID *kernel.UUID,
	scheduledTime time.Time,
	estimatedDelivery time.Time,
	actualDelivery *time.Time,
	distanceMiles float64,
	deliveryFee float64,
	notes string,
	failureReason string,
	version int,
) (*Delivery, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	if err := status.ValidateCanHaveDriver(driverID != nil); err != nil {
		return nil, err
	}

	if (actualDelivery != nil) != (status == StatusDelivered) {
		return nil, errs.NewValueIsInvalidError("actual delivery time must be set exactly for delivered status")
	}

	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
	}

	if version < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"version", fmt.Errorf("%d is less than 1", version))
	}

	d, err := NewDelivery(id, orderID, customer, items, priority,
		scheduledTime, estimatedDelivery, distanceMiles, deliveryFee, notes)
	if err != nil {
		return nil, err
	}

	d.status = status
	d.driverID = driverID
	d.actualDelivery = actualDelivery
	d.failureReason = failureReason
	d.version = version
	return d, nil
}

// Validate ensures the Delivery was constructed through NewDelivery or
// RestoreDelivery. Called by repositories before persisting.
func (d *Delivery) Validate() error {
	if d == nil {
		return ErrDeliveryIsNotConstructed
	}
	return d.guard.Validate(ErrDeliveryIsNotConstructed)
}

// IsEqual compares two deliveries by identifier.
func (d *Delivery) IsEqual(other *Delivery) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the delivery's unique identifier.
func (d *Delivery) ID() kernel.UUID {
	return d.id
}

// OrderID returns the identifier of the external order being fulfilled.
func (d *Delivery) OrderID() kernel.UUID {
	return d.orderID
}

// Customer returns the delivery recipient.
func (d *Delivery) Customer() Customer {
	return d.customer
}

// Items returns a copy of the order lines.
func (d *Delivery) Items() []Item {
	items := make([]Item, len(d.items))
	copy(items, d.items)
	return items
}

// Status returns the current lifecycle state.
func (d *Delivery) Status() Status {
	return d.status
}

// Priority returns the urgency tier, fixed at creation.
func (d *Delivery) Priority() Priority {
	return d.priority
}

// Driver returns the assigned driver's ID, or nil while Pending.
func (d *Delivery) Driver() *kernel.UUID {
	return d.driverID
}

// ScheduledTime returns when the delivery is due to start.
func (d *Delivery) ScheduledTime() time.Time {
	return d.scheduledTime
}

// EstimatedDelivery returns the projected completion time.
func (d *Delivery) EstimatedDelivery() time.Time {
	return d.estimatedDelivery
}

// ActualDelivery returns the completion timestamp, set once on transition to
// Delivered, or nil otherwise.
func (d *Delivery) ActualDelivery() *time.Time {
	return d.actualDelivery
}

// DistanceMiles returns the delivery distance, fixed at creation.
func (d *Delivery) DistanceMiles() float64 {
	return d.distanceMiles
}

// DeliveryFee returns the fee, fixed at creation.
func (d *Delivery) DeliveryFee() float64 {
	return d.deliveryFee
}

// Notes returns the free-text notes attached at creation.
func (d *Delivery) Notes() string {
	return d.notes
}

// FailureReason returns why the delivery failed, empty unless Failed.
func (d *Delivery) FailureReason() string {
	return d.failureReason
}

// Version returns the optimistic concurrency token.
func (d *Delivery) Version() int {
	return d.version
}

// Location returns the geocoded destination, or nil when the customer's
// address has not been geocoded. Used for driver proximity ranking.
func (d *Delivery) Location() *kernel.GeoPoint {
	return d.customer.Location()
}

// Assign moves the delivery from Pending to Assigned and records the driver.
// The driver ID must be valid; any other starting status is rejected with an
// InvalidTransitionError.
func (d *Delivery) Assign(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	newStatus, err := d.status.TransitionTo(StatusAssigned)
	if err != nil {
		return err
	}

	d.status = newStatus
	d.driverID = &driverID
	d.bumpVersion()
	return nil
}

// MarkPickedUp records that the driver collected the order.
func (d *Delivery) MarkPickedUp() error {
	newStatus, err := d.status.TransitionTo(StatusPickedUp)
	if err != nil {
		return err
	}

	d.status = newStatus
	d.bumpVersion()
	return nil
}

// MarkInTransit records that the driver is en route to the customer.
func (d *Delivery) MarkInTransit() error {
	newStatus, err := d.status.TransitionTo(StatusInTransit)
	if err != nil {
		return err
	}

	d.status = newStatus
	d.bumpVersion()
	return nil
}

// MarkDelivered completes the delivery and sets the actual delivery time.
// Only reachable from InTransit; Delivered is terminal.
func (d *Delivery) MarkDelivered(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("delivery time")
	}

	newStatus, err := d.status.TransitionTo(StatusDelivered)
	if err != nil {
		return err
	}

	d.status = newStatus
	d.actualDelivery = &at
	d.bumpVersion()
	return nil
}

// MarkFailed terminates the delivery with a reason. A Pending delivery can
// only fail through cancellation (reason CancelReason); active deliveries can
// fail for any non-empty reason. Failed is terminal.
func (d *Delivery) MarkFailed(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("failure reason")
	}

	if d.status == StatusPending && reason != CancelReason {
		return errs.NewInvalidTransitionError(d.status.String(), StatusFailed.String())
	}

	newStatus, err := d.status.TransitionTo(StatusFailed)
	if err != nil {
		return err
	}

	d.status = newStatus
	d.failureReason = reason
	d.bumpVersion()
	return nil
}

// Cancel cancels a Pending delivery. Shorthand for MarkFailed(CancelReason).
func (d *Delivery) Cancel() error {
	if d.status != StatusPending {
		return errs.NewInvalidTransitionError(d.status.String(), StatusFailed.String())
	}
	return d.MarkFailed(CancelReason)
}

func (d *Delivery) bumpVersion() {
	d.version++
}

func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Delivery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	d.orderID = orderID
	return nil
}

func (d *Delivery) setCustomer(customer Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	d.customer = customer
	return nil
}

func (d *Delivery) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	d.items = make([]Item, len(items))
	copy(d.items, items)
	return nil
}

func (d *Delivery) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	d.priority = priority
	return nil
}

func (d *Delivery) setScheduledTime(scheduledTime time.Time) error {
	if scheduledTime.IsZero() {
		return errs.NewValueIsRequiredError("scheduled time")
	}
	d.scheduledTime = scheduledTime
	return nil
}

func (d *Delivery) setEstimatedDelivery(estimatedDelivery time.Time) error {
	if estimatedDelivery.IsZero() {
		return errs.NewValueIsRequiredError("estimated delivery time")
	}
	d.estimatedDelivery = estimatedDelivery
	return nil
}

func (d *Delivery) setDistanceMiles(distanceMiles float64) error {
	if distanceMiles < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"distance miles", fmt.Errorf("%g is negative", distanceMiles))
	}
	d.distanceMiles = distanceMiles
	return nil
}

func (d *Delivery) setDeliveryFee(deliveryFee float64) error {
	if deliveryFee < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"delivery fee", fmt.Errorf("%g is negative", deliveryFee))
	}
	d.deliveryFee = deliveryFee
	return nil
}
