// Package events defines the domain events the dispatch core exposes to
// external collaborators (notification and analytics services subscribe to
// them). Events are immutable facts about state changes that already
// happened; publishing is fire-and-forget so a slow subscriber can never
// stall dispatch.
package events

import (
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// Event is implemented by every domain event.
type Event interface {
	// EventName returns the stable name subscribers filter on.
	EventName() string
	// OccurredAt returns when the state change happened.
	OccurredAt() time.Time
}

type base struct {
	at time.Time
}

func (b base) OccurredAt() time.Time { return b.at }

// DeliveryCreated is published when a new delivery enters the store in
// Pending status.
type DeliveryCreated struct {
	base
	DeliveryID kernel.UUID
	OrderID    kernel.UUID
	Priority   delivery.Priority
}

// NewDeliveryCreated creates a DeliveryCreated event.
func NewDeliveryCreated(deliveryID, orderID kernel.UUID, priority delivery.Priority, at time.Time) DeliveryCreated {
	return DeliveryCreated{base: base{at: at}, DeliveryID: deliveryID, OrderID: orderID, Priority: priority}
}

func (DeliveryCreated) EventName() string { return "delivery.created" }

// DeliveryAssigned is published when a delivery is matched with a driver,
// whether by the assignment pass or by manual admin override.
type DeliveryAssigned struct {
	base
	DeliveryID kernel.UUID
	DriverID   kernel.UUID
}

// NewDeliveryAssigned creates a DeliveryAssigned event.
func NewDeliveryAssigned(deliveryID, driverID kernel.UUID, at time.Time) DeliveryAssigned {
	return DeliveryAssigned{base: base{at: at}, DeliveryID: deliveryID, DriverID: driverID}
}

func (DeliveryAssigned) EventName() string { return "delivery.assigned" }

// DeliveryStatusChanged is published on every state machine transition,
// carrying both the old and the new status.
type DeliveryStatusChanged struct {
	base
	DeliveryID kernel.UUID
	OldStatus  delivery.Status
	NewStatus  delivery.Status
}

// NewDeliveryStatusChanged creates a DeliveryStatusChanged event.
func NewDeliveryStatusChanged(deliveryID kernel.UUID, oldStatus, newStatus delivery.Status, at time.Time) DeliveryStatusChanged {
	return DeliveryStatusChanged{base: base{at: at}, DeliveryID: deliveryID, OldStatus: oldStatus, NewStatus: newStatus}
}

func (DeliveryStatusChanged) EventName() string { return "delivery.status_changed" }

// DeliveryTerminal is published when a delivery reaches Delivered or Failed.
type DeliveryTerminal struct {
	base
	DeliveryID kernel.UUID
	Status     delivery.Status
	Reason     string
}

// NewDeliveryTerminal creates a DeliveryTerminal event.
func NewDeliveryTerminal(deliveryID kernel.UUID, status delivery.Status, reason string, at time.Time) DeliveryTerminal {
	return DeliveryTerminal{base: base{at: at}, DeliveryID: deliveryID, Status: status, Reason: reason}
}

func (DeliveryTerminal) EventName() string { return "delivery.terminal" }

// DriverAvailabilityChanged is published when a driver's availability state
// changes, whether by explicit override or by the active-delivery counter.
type DriverAvailabilityChanged struct {
	base
	DriverID kernel.UUID
	Old      driver.Availability
	New      driver.Availability
}

// NewDriverAvailabilityChanged creates a DriverAvailabilityChanged event.
func NewDriverAvailabilityChanged(driverID kernel.UUID, oldState, newState driver.Availability, at time.Time) DriverAvailabilityChanged {
	return DriverAvailabilityChanged{base: base{at: at}, DriverID: driverID, Old: oldState, New: newState}
}

func (DriverAvailabilityChanged) EventName() string { return "driver.availability_changed" }
