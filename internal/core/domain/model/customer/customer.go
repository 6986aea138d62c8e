// Package customer contains the Customer value object embedded in orders.
package customer

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrCustomerIsNotConstructed is returned when a Customer instance was not
// created through NewCustomer or RestoreCustomer.
var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")

// Customer identifies the recipient of an order. Identity is keyed by the
// canonical phone number: the name and address may change between orders
// placed from the same phone.
type Customer struct {
	id            uuid.UUID
	name          string
	phone         kernel.Phone
	address       string
	city          string
	isConstructed bool
}

// NewCustomer creates a Customer with a fresh internal identifier.
// Name, phone, and address are required; city may be empty since the
// storefront does not always supply it.
func NewCustomer(name string, phone kernel.Phone, address, city string) (Customer, error) {
	return build(uuid.New(), name, phone, address, city)
}

// RestoreCustomer reconstructs a Customer from persistence.
func RestoreCustomer(id uuid.UUID, name string, phone kernel.Phone, address, city string) (Customer, error) {
	return build(id, name, phone, address, city)
}

func build(id uuid.UUID, name string, phone kernel.Phone, address, city string) (Customer, error) {
	if name == "" {
		return Customer{}, errs.NewValueIsRequiredError("name")
	}
	if err := phone.Validate(); err != nil {
		return Customer{}, err
	}
	if address == "" {
		return Customer{}, errs.NewValueIsRequiredError("address")
	}

	return Customer{
		id:            id,
		name:          name,
		phone:         phone,
		address:       address,
		city:          city,
		isConstructed: true,
	}, nil
}

// Validate ensures the Customer was created through a constructor.
func (c Customer) Validate() error {
	if !c.isConstructed {
		return ErrCustomerIsNotConstructed
	}
	return nil
}

// ID returns the internal customer row identifier.
func (c Customer) ID() uuid.UUID {
	return c.id
}

// Name returns the customer name as it appeared on the latest order.
func (c Customer) Name() string {
	return c.name
}

// Phone returns the canonical phone number, the customer identity key.
func (c Customer) Phone() kernel.Phone {
	return c.phone
}

// Address returns the delivery address.
func (c Customer) Address() string {
	return c.address
}

// City returns the delivery city, possibly empty.
func (c Customer) City() string {
	return c.city
}

// IsSamePerson reports whether two customers share the same phone number.
func (c Customer) IsSamePerson(other Customer) bool {
	return c.phone.IsEqual(other.phone)
}
