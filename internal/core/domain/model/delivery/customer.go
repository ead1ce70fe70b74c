package delivery

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrCustomerIsNotConstructed is returned when using an improperly initialized Customer.
var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")

// Customer is the recipient of a delivery: contact details plus a
// street-level address, optionally geocoded to a GeoPoint by an external
// collaborator. The geocoded location, when present, is what proximity
// ranking uses during dispatch.
type Customer struct {
	name     string
	phone    string
	street   string
	location *kernel.GeoPoint
	guard    guard.ConstructorGuard
}

// NewCustomer creates a validated Customer. Name, phone, and street are
// required; location is optional and may arrive later from geocoding.
func NewCustomer(name, phone, street string, location *kernel.GeoPoint) (Customer, error) {
	customer := Customer{
		location: location,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		customer.setName(name),
		customer.setPhone(phone),
		customer.setStreet(street),
		customer.validateLocation(location),
	); err != nil {
		return Customer{}, err
	}

	return customer, nil
}

// Validate checks that the Customer was created through its constructor.
func (c Customer) Validate() error {
	return c.guard.Validate(ErrCustomerIsNotConstructed)
}

// Name returns the customer's display name.
func (c Customer) Name() string {
	return c.name
}

// Phone returns the customer's contact phone number.
func (c Customer) Phone() string {
	return c.phone
}

// Street returns the street-level delivery address.
func (c Customer) Street() string {
	return c.street
}

// Location returns the geocoded coordinates of the address, or nil when
// the address has not been geocoded.
func (c Customer) Location() *kernel.GeoPoint {
	return c.location
}

func (c *Customer) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("customer name")
	}
	c.name = name
	return nil
}

func (c *Customer) setPhone(phone string) error {
	if phone == "" {
		return errs.NewValueIsRequiredError("customer phone")
	}
	c.phone = phone
	return nil
}

func (c *Customer) setStreet(street string) error {
	if street == "" {
		return errs.NewValueIsRequiredError("customer street")
	}
	c.street = street
	return nil
}

func (c *Customer) validateLocation(location *kernel.GeoPoint) error {
	if location == nil {
		return nil
	}
	return location.Validate()
}

// Item is a line of the delivered order: a name and a quantity.
// Items are opaque to dispatch; they are carried for display only.
type Item struct {
	name     string
	quantity int
}

// NewItem creates a validated order line. Quantity must be at least 1.
func NewItem(name string, quantity int) (Item, error) {
	if name == "" {
		return Item{}, errs.NewValueIsRequiredError("item name")
	}
	if quantity < 1 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause(
			"item quantity", fmt.Errorf("%d is less than 1", quantity))
	}

	return Item{name: name, quantity: quantity}, nil
}

// Name returns the item's display name.
func (i Item) Name() string {
	return i.name
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}
