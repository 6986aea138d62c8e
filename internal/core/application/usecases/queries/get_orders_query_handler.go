package queries

import (
	"context"
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetOrdersQueryHandler serves the dashboard order listing straight from the
// database, skipping aggregate reconstruction. Rows come back newest order
// date first.
type GetOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersQueryHandler creates a handler for order listing queries.
// Requires a GORM database connection for query execution.
func NewGetOrdersQueryHandler(db *gorm.DB) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{db: db}
}

// Handle executes the listing query with the filters carried by the query.
// The free-text filter matches order number, customer name, and phone,
// case-insensitively.
func (h GetOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersQuery,
) ([]GetOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx).
		Table("orders").
		Select(`
			id,
			date,
			customer_name,
			customer_phone,
			customer_address,
			customer_city,
			total_amount,
			line_items,
			status,
			courier_provider,
			courier_status,
			courier_tracking_id,
			courier_rider_name,
			courier_rider_phone,
			courier_rider_note
		`)
	if query.Status() != nil {
		db = db.Where("status = ?", int(*query.Status()))
	}
	if query.Search() != "" {
		pattern := "%" + query.Search() + "%"
		db = db.Where(
			"id ILIKE ? OR customer_name ILIKE ? OR customer_phone ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	rows, err := db.Order("date DESC, id").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetOrdersQueryResponse, 0)
	for rows.Next() {
		var resp GetOrdersQueryResponse
		var date time.Time
		var rawItems []byte
		var status, provider, courierStatus int

		err = rows.Scan(
			&resp.ID,
			&date,
			&resp.CustomerName,
			&resp.CustomerPhone,
			&resp.CustomerAddress,
			&resp.CustomerCity,
			&resp.TotalAmount,
			&rawItems,
			&status,
			&provider,
			&courierStatus,
			&resp.TrackingID,
			&resp.RiderName,
			&resp.RiderPhone,
			&resp.RiderNote,
		)
		if err != nil {
			return nil, err
		}

		if len(rawItems) > 0 {
			if err = json.Unmarshal(rawItems, &resp.LineItems); err != nil {
				return nil, err
			}
		}

		resp.Date = date
		resp.Status = order.Status(status).String()
		resp.CourierProvider = courier.Provider(provider).String()
		resp.CourierStatus = courier.Status(courierStatus).String()
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
