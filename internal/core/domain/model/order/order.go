package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder or RestoreOrder factory methods.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the aggregate root for one purchase transaction. It is keyed by
// the storefront order number, which is globally unique and stable across
// re-syncs: re-syncing the same id updates the record in place, never
// duplicates it.
//
// Order follows these invariants:
//   - id is non-empty and never changes
//   - totalAmount is non-negative
//   - status is always a valid storefront status
//   - the courier assignment only moves forward through its lifecycle
type Order struct {
	// id is the external order number assigned by the storefront
	id string

	// date is the order date reported by the storefront
	date time.Time

	// customer is the recipient, keyed by phone number
	customer customer.Customer

	// totalAmount is the order total reported by the storefront
	totalAmount float64

	// lineItems is the ordered sequence of item descriptors
	lineItems []string

	// status mirrors the storefront's order status
	status Status

	// courier is the embedded courier assignment
	courier courier.Assignment

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates an Order on first sight of an external id. The courier
// assignment starts out unassigned.
func NewOrder(
	id string,
	date time.Time,
	cust customer.Customer,
	totalAmount float64,
	lineItems []string,
	status Status,
) (*Order, error) {
	o := &Order{
		courier:       courier.NewUnassigned(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setStorefrontFields(date, cust, totalAmount, lineItems, status),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order from persistence with its full courier
// assignment state.
func RestoreOrder(
	id string,
	date time.Time,
	cust customer.Customer,
	totalAmount float64,
	lineItems []string,
	status Status,
	assignment courier.Assignment,
) (*Order, error) {
	o, err := NewOrder(id, date, cust, totalAmount, lineItems, status)
	if err != nil {
		return nil, err
	}
	o.courier = assignment
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their external id.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id == other.id
}

// ID returns the external order number.
func (o *Order) ID() string { return o.id }

// Date returns the order date.
func (o *Order) Date() time.Time { return o.date }

// Customer returns the order recipient.
func (o *Order) Customer() customer.Customer { return o.customer }

// TotalAmount returns the storefront order total.
func (o *Order) TotalAmount() float64 { return o.totalAmount }

// LineItems returns a copy of the ordered item descriptors.
func (o *Order) LineItems() []string {
	items := make([]string, len(o.lineItems))
	copy(items, o.lineItems)
	return items
}

// Status returns the storefront order status.
func (o *Order) Status() Status { return o.status }

// Courier returns the embedded courier assignment.
func (o *Order) Courier() courier.Assignment { return o.courier }

// MergeStorefront refreshes the storefront-owned fields from a re-synced
// snapshot. Courier-owned fields are left untouched, so a sync can never
// clobber an in-flight delivery. When the incoming snapshot carries the
// same phone, the stored customer id survives the merge, so re-syncing an
// unchanged batch is a no-op.
func (o *Order) MergeStorefront(
	date time.Time,
	cust customer.Customer,
	totalAmount float64,
	lineItems []string,
	status Status,
) error {
	if o.customer.IsSamePerson(cust) {
		kept, err := customer.RestoreCustomer(
			o.customer.ID(), cust.Name(), cust.Phone(), cust.Address(), cust.City())
		if err != nil {
			return err
		}
		cust = kept
	}
	return o.setStorefrontFields(date, cust, totalAmount, lineItems, status)
}

// AssignCourier commits a confirmed booking. The adapter call to the courier
// network must already have succeeded; this only records its result.
//
// Returns courier.ErrAlreadyAssigned when the order already has a courier.
func (o *Order) AssignCourier(provider courier.Provider, trackingID string) error {
	booked, err := o.courier.Book(provider, trackingID)
	if err != nil {
		return err
	}
	o.courier = booked
	return nil
}

// ApplyCourierEvent advances the courier assignment with an inbound status
// event. Stale and duplicate events return (false, nil) and change nothing.
//
// A Returned event marks the order Cancelled: this is the one storefront
// status this system sets on its own, since a returned parcel means the
// order will not be fulfilled.
func (o *Order) ApplyCourierEvent(event courier.StatusEvent) (bool, error) {
	next, changed, err := o.courier.Apply(event)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	o.courier = next
	if next.Status() == courier.Returned {
		o.status = Cancelled
	}
	return true, nil
}

func (o *Order) setID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("order id")
	}
	o.id = id
	return nil
}

func (o *Order) setStorefrontFields(
	date time.Time,
	cust customer.Customer,
	totalAmount float64,
	lineItems []string,
	status Status,
) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("order date")
	}
	if err := cust.Validate(); err != nil {
		return err
	}
	if totalAmount < 0 {
		return errs.NewValueIsInvalidErrorWithCause("total amount",
			fmt.Errorf("%.2f is negative", totalAmount))
	}
	if err := status.Validate(); err != nil {
		return err
	}

	o.date = date
	o.customer = cust
	o.totalAmount = totalAmount
	o.lineItems = make([]string, len(lineItems))
	copy(o.lineItems, lineItems)
	o.status = status
	return nil
}
