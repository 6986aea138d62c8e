// Package queries contains read operations for the dashboard. Queries bypass
// the domain aggregates and read the database directly, returning flat
// response structures shaped for presentation.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrdersQueryIsNotConstructed = errors.New(
	"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
)

// GetOrdersQuery retrieves the order listing for the dashboard, optionally
// narrowed by storefront status and a free-text search over order number,
// customer name, and phone.
//
// Example:
//
//	query, err := NewGetOrdersQuery("Processing", "rahim")
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type GetOrdersQuery struct {
	status *order.Status
	search string

	guard guard.ConstructorGuard
}

// NewGetOrdersQuery creates a query for the order listing. An empty status
// means no status filter; an empty search means no text filter.
func NewGetOrdersQuery(status, search string) (GetOrdersQuery, error) {
	q := GetOrdersQuery{search: search, guard: guard.NewConstructorGuard()}

	if status != "" {
		parsed, err := order.StatusFromString(status)
		if err != nil {
			return GetOrdersQuery{}, err
		}
		q.status = &parsed
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrdersQueryIsNotConstructed if validation fails.
func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

// Status returns the status filter, or nil when unset.
func (q GetOrdersQuery) Status() *order.Status {
	return q.status
}

// Search returns the free-text filter, or the empty string when unset.
func (q GetOrdersQuery) Search() string {
	return q.search
}

// GetOrdersQueryResponse is one order row in the dashboard listing. Status
// fields carry their display strings, ready for presentation.
type GetOrdersQueryResponse struct {
	ID              string
	Date            time.Time
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	CustomerCity    string
	TotalAmount     float64
	LineItems       []string
	Status          string
	CourierProvider string
	CourierStatus   string
	TrackingID      string
	RiderName       string
	RiderPhone      string
	RiderNote       string
}
