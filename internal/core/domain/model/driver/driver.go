package driver

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// DefaultMaxActive is the default cap on concurrent active deliveries per
// driver. The true business rule is unresolved; the cap is configurable and
// defaults to one driver, one in-flight delivery.
const DefaultMaxActive = 1

var (
	// ErrDriverIsNotConstructed is returned when using an improperly initialized Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver constructor")

	// ErrDriverIsOffline is returned when an Offline driver is asked to take a delivery.
	ErrDriverIsOffline = errors.New("driver is offline")

	// ErrDriverAtCapacity is returned when a driver at max active deliveries is asked to take another.
	ErrDriverAtCapacity = errors.New("driver is at max active deliveries")
)

// Driver is the aggregate root for a delivery driver: identity, availability,
// last-known location, and the active-delivery counter.
//
// Invariants:
//   - activeDeliveries is never negative
//   - while not Offline, availability is Busy exactly when activeDeliveries
//     has reached the configured cap
//   - a driver with active deliveries cannot be set Offline
//
// Availability flips between Available and Busy automatically as the counter
// crosses the cap; only the Offline state is set explicitly. The counter is
// owned by the dispatch workflow and must only change through TakeDelivery
// and ReleaseDelivery within the same transaction as the delivery transition.
type Driver struct {
	id      kernel.UUID
	name    string
	phone   string
	vehicle string

	availability     Availability
	location         *kernel.GeoPoint
	activeDeliveries int
	maxActive        int

	completedToday int
	earningsToday  float64

	guard guard.ConstructorGuard
}

// NewDriver creates a driver in the Offline state with no active deliveries.
// Name, phone, and vehicle descriptor are required; maxActive values below 1
// fall back to DefaultMaxActive.
func NewDriver(id kernel.UUID, name, phone, vehicle string, maxActive int) (*Driver, error) {
	if maxActive < 1 {
		maxActive = DefaultMaxActive
	}

	d := &Driver{
		availability: Offline,
		maxActive:    maxActive,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setPhone(phone),
		d.setVehicle(vehicle),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDriver rehydrates a driver from persistence, re-checking the
// counter/availability invariant so corrupted rows cannot enter the domain.
func RestoreDriver(
	id kernel.UUID,
	name, phone, vehicle string,
	availability Availability,
	location *kernel.GeoPoint,
	activeDeliveries int,
	maxActive int,
	completedToday int,
	earningsToday float64,
) (*Driver, error) {
	if err := availability.Validate(); err != nil {
		return nil, err
	}

	if activeDeliveries < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"active deliveries", fmt.Errorf("%d is negative", activeDeliveries))
	}

	if location != nil {
		if err := location.Validate(); err != nil {
			return nil, err
		}
	}

	d, err := NewDriver(id, name, phone, vehicle, maxActive)
	if err != nil {
		return nil, err
	}

	if availability != Offline {
		atCapacity := activeDeliveries >= d.maxActive
		if atCapacity != (availability == Busy) {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"driver availability",
				fmt.Errorf("%s with %d of %d active deliveries", availability, activeDeliveries, d.maxActive))
		}
	}

	d.availability = availability
	d.location = location
	d.activeDeliveries = activeDeliveries
	d.completedToday = completedToday
	d.earningsToday = earningsToday
	return d, nil
}

// Validate ensures the Driver was constructed through NewDriver or RestoreDriver.
func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

// IsEqual compares two drivers by identifier.
func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID {
	return d.id
}

// Name returns the driver's display name.
func (d *Driver) Name() string {
	return d.name
}

// Phone returns the driver's contact phone number.
func (d *Driver) Phone() string {
	return d.phone
}

// Vehicle returns the driver's vehicle descriptor.
func (d *Driver) Vehicle() string {
	return d.vehicle
}

// Availability returns the driver's current availability state.
func (d *Driver) Availability() Availability {
	return d.availability
}

// Location returns the driver's last reported position, or nil if the driver
// has never reported one.
func (d *Driver) Location() *kernel.GeoPoint {
	return d.location
}

// ActiveDeliveries returns the number of deliveries currently assigned to the
// driver and not yet terminal.
func (d *Driver) ActiveDeliveries() int {
	return d.activeDeliveries
}

// MaxActive returns the configured cap on concurrent active deliveries.
func (d *Driver) MaxActive() int {
	return d.maxActive
}

// CompletedToday returns today's completed delivery count. Derived stat.
func (d *Driver) CompletedToday() int {
	return d.completedToday
}

// EarningsToday returns today's accumulated delivery fees. Derived stat.
func (d *Driver) EarningsToday() float64 {
	return d.earningsToday
}

// CanTake reports whether the driver can accept another delivery:
// Available and below the active-delivery cap.
func (d *Driver) CanTake() bool {
	return d.availability == Available && d.activeDeliveries < d.maxActive
}

// SetAvailability applies an explicit driver- or admin-initiated override.
// Going Offline is rejected while the driver carries active deliveries; the
// driver must complete or be reassigned first. Available and Busy must agree
// with the counter, so an override can never misreport capacity.
func (d *Driver) SetAvailability(target Availability) error {
	if err := target.Validate(); err != nil {
		return err
	}

	if target == Offline && d.activeDeliveries > 0 {
		return errs.NewInvalidTransitionError(d.availability.String(), Offline.String())
	}

	if target == Busy && d.activeDeliveries < d.maxActive {
		return errs.NewInvalidTransitionError(d.availability.String(), Busy.String())
	}

	if target == Available && d.activeDeliveries >= d.maxActive {
		return errs.NewInvalidTransitionError(d.availability.String(), Available.String())
	}

	d.availability = target
	return nil
}

// ReportLocation updates the driver's last-known position.
func (d *Driver) ReportLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	d.location = &location
	return nil
}

// TakeDelivery increments the active-delivery counter, flipping the driver
// to Busy when the cap is reached. Offline drivers and drivers at capacity
// are rejected.
func (d *Driver) TakeDelivery() error {
	if d.availability == Offline {
		return ErrDriverIsOffline
	}

	if d.activeDeliveries >= d.maxActive {
		return ErrDriverAtCapacity
	}

	d.activeDeliveries++
	if d.activeDeliveries >= d.maxActive {
		d.availability = Busy
	}
	return nil
}

// ReleaseDelivery decrements the active-delivery counter when an assigned
// delivery reaches a terminal state. The counter never goes below zero, and
// a Busy driver drops back to Available when below the cap. When the
// delivery completed successfully, today's stats accumulate the fee.
func (d *Driver) ReleaseDelivery(completed bool, fee float64) error {
	if d.activeDeliveries == 0 {
		return errs.NewValueIsInvalidError("driver has no active deliveries to release")
	}

	d.activeDeliveries--
	if d.availability == Busy && d.activeDeliveries < d.maxActive {
		d.availability = Available
	}

	if completed {
		d.completedToday++
		d.earningsToday += fee
	}
	return nil
}

// ResetActiveDeliveries forces the counter and availability to match a count
// recomputed from the delivery store. Used only by the reconciliation pass to
// repair inconsistency after a crash between assignment steps.
func (d *Driver) ResetActiveDeliveries(count int) error {
	if count < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"active deliveries", fmt.Errorf("%d is negative", count))
	}

	d.activeDeliveries = count
	if d.availability != Offline {
		if count >= d.maxActive {
			d.availability = Busy
		} else {
			d.availability = Available
		}
	}
	return nil
}

// DistanceMilesTo returns the straight-line distance from the driver's last
// known location to the given point. Drivers with no known location report
// ok=false and are deprioritized, not excluded, by the matcher.
func (d *Driver) DistanceMilesTo(point kernel.GeoPoint) (miles float64, ok bool, err error) {
	if d.location == nil {
		return 0, false, nil
	}

	miles, err = d.location.DistanceMiles(point)
	if err != nil {
		return 0, false, err
	}
	return miles, true, nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("driver name")
	}
	d.name = name
	return nil
}

func (d *Driver) setPhone(phone string) error {
	if phone == "" {
		return errs.NewValueIsRequiredError("driver phone")
	}
	d.phone = phone
	return nil
}

func (d *Driver) setVehicle(vehicle string) error {
	if vehicle == "" {
		return errs.NewValueIsRequiredError("driver vehicle")
	}
	d.vehicle = vehicle
	return nil
}
