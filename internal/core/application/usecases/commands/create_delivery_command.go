package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateDeliveryCommandIsNotConstructed = errors.New(
	"CreateDeliveryCommand must be created via NewCreateDeliveryCommand constructor",
)

// CreateDeliveryCommand represents the order pipeline submitting a new
// delivery after checkout completes. The delivery enters the store in
// Pending status with version 1.
//
// Example:
//
//	cmd, err := NewCreateDeliveryCommand(
//	    kernel.NewUUID(), orderID, customer, items,
//	    delivery.PriorityHigh, scheduled, estimated, 5.2, 7.99, "gate code 4421")
//	if err != nil {
//	    return fmt.Errorf("invalid delivery data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create delivery: %w", err)
//	}
type CreateDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID        kernel.UUID
	orderID           kernel.UUID
	customer          delivery.Customer
	items             []delivery.Item
	priority          delivery.Priority
	scheduledTime     time.Time
	estimatedDelivery time.Time
	distanceMiles     float64
	deliveryFee       float64
	notes             string

	guard guard.ConstructorGuard
}

// NewCreateDeliveryCommand creates a command to register a new delivery.
// Identifier, customer, and priority are validated here; the numeric and
// cross-field rules are enforced by the Delivery aggregate itself.
func NewCreateDeliveryCommand(
	deliveryID kernel.UUID,
	orderID kernel.UUID,
	customer delivery.Customer,
	items []delivery.Item,
	priority delivery.Priority,
	scheduledTime time.Time,
	estimatedDelivery time.Time,
	distanceMiles float64,
	deliveryFee float64,
	notes string,
) (CreateDeliveryCommand, error) {
	cmd := CreateDeliveryCommand{
		items:             items,
		scheduledTime:     scheduledTime,
		estimatedDelivery: estimatedDelivery,
		distanceMiles:     distanceMiles,
		deliveryFee:       deliveryFee,
		notes:             notes,
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setOrderID(orderID),
		cmd.setCustomer(customer),
		cmd.setPriority(priority),
	); err != nil {
		return CreateDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the identifier for the new delivery.
func (c CreateDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// OrderID returns the external order being fulfilled.
func (c CreateDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Customer returns the delivery recipient.
func (c CreateDeliveryCommand) Customer() delivery.Customer {
	return c.customer
}

// Items returns the order lines.
func (c CreateDeliveryCommand) Items() []delivery.Item {
	return c.items
}

// Priority returns the urgency tier derived from business rules upstream.
func (c CreateDeliveryCommand) Priority() delivery.Priority {
	return c.priority
}

// ScheduledTime returns when the delivery is due to start.
func (c CreateDeliveryCommand) ScheduledTime() time.Time {
	return c.scheduledTime
}

// EstimatedDelivery returns the projected completion time.
func (c CreateDeliveryCommand) EstimatedDelivery() time.Time {
	return c.estimatedDelivery
}

// DistanceMiles returns the delivery distance computed upstream.
func (c CreateDeliveryCommand) DistanceMiles() float64 {
	return c.distanceMiles
}

// DeliveryFee returns the fee computed upstream.
func (c CreateDeliveryCommand) DeliveryFee() float64 {
	return c.deliveryFee
}

// Notes returns the free-text notes.
func (c CreateDeliveryCommand) Notes() string {
	return c.notes
}

func (c *CreateDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}
	c.deliveryID = deliveryID
	return nil
}

func (c *CreateDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	c.orderID = orderID
	return nil
}

func (c *CreateDeliveryCommand) setCustomer(customer delivery.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	c.customer = customer
	return nil
}

func (c *CreateDeliveryCommand) setPriority(priority delivery.Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	c.priority = priority
	return nil
}
