// Package ports defines the contracts between the core and its
// collaborators: persistence, the storefront, the courier networks, and the
// risk-profile cache. Implementations live under internal/adapters.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// OrderFilter narrows a listing. Both fields are optional; the zero value
// matches everything.
type OrderFilter struct {
	// Status keeps only orders in the given storefront status.
	Status *order.Status

	// Search is a free-text match over order id, customer name, and phone.
	Search string
}

// OrderRepository defines the persistence contract for order aggregates.
// Orders are keyed by the external order number and never deleted.
type OrderRepository interface {
	// Add persists a new order aggregate. Fails if the id already exists.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its external id.
	// Returns an ObjectNotFoundError for an unknown id.
	Get(ctx context.Context, id string) (*order.Order, error)

	// GetForUpdate retrieves an order and locks its row for the duration of
	// the enclosing transaction. It is the read half of the atomic
	// read-modify-write used by the assignment and reconciliation writers;
	// calling it outside a unit-of-work transaction provides no locking.
	GetForUpdate(ctx context.Context, id string) (*order.Order, error)

	// GetByTrackingID retrieves the order booked under the given courier
	// tracking id. Webhook payloads identify parcels by tracking id, not by
	// order number. Returns an ObjectNotFoundError for an unknown id.
	GetByTrackingID(ctx context.Context, trackingID string) (*order.Order, error)

	// GetAll retrieves orders matching the filter, newest order date first.
	GetAll(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}
