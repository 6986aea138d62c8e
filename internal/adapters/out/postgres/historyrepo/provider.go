// Package historyrepo derives a customer's parcel history from the orders
// table. Only parcels that reached a terminal courier status count as
// history; anything still in flight says nothing about the customer yet.
package historyrepo

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"

	"gorm.io/gorm"
)

// GormParcelHistoryProvider implements ports.ParcelHistoryProvider by
// aggregating over the local order store.
type GormParcelHistoryProvider struct {
	db *gorm.DB
}

// NewGormParcelHistoryProvider creates a history provider backed by GORM.
func NewGormParcelHistoryProvider(db *gorm.DB) *GormParcelHistoryProvider {
	return &GormParcelHistoryProvider{db: db}
}

// History returns all terminal parcel outcomes for the phone number,
// oldest first. An empty result is valid: a first-time customer has no
// history and scores as Unknown.
func (p *GormParcelHistoryProvider) History(
	ctx context.Context, phone kernel.Phone,
) ([]services.ParcelOutcome, error) {
	if err := phone.Validate(); err != nil {
		return nil, err
	}

	rows, err := p.db.WithContext(ctx).Raw(`
		SELECT
			date,
			courier_status
		FROM orders
		WHERE customer_phone = ?
		  AND courier_status IN (?, ?)
		ORDER BY date
	`, phone.String(), int(courier.Delivered), int(courier.Returned)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outcomes := make([]services.ParcelOutcome, 0)
	for rows.Next() {
		var date time.Time
		var status int

		if err = rows.Scan(&date, &status); err != nil {
			return nil, err
		}

		outcomes = append(outcomes, services.ParcelOutcome{
			Delivered: courier.Status(status) == courier.Delivered,
			Date:      date,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return outcomes, nil
}
