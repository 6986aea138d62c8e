package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id string, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database. All columns are written,
// including ones going back to their zero value, so a reconciliation merge
// can clear a field the storefront cleared.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", dto.ID)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by its external id.
func (r *GormOrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves an order with a SELECT FOR UPDATE row lock. The
// lock is only meaningful when the repository runs inside a unit-of-work
// transaction; it is held until that transaction commits or rolls back.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id string) (*order.Order, error) {
	return r.get(ctx, id, true)
}

func (r *GormOrderRepository) get(ctx context.Context, id string, lock bool) (*order.Order, error) {
	if id == "" {
		return nil, errs.NewValueIsRequiredError("order id")
	}

	db := r.db.WithContext(ctx)
	if lock {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByTrackingID retrieves the order booked under the given courier
// tracking id.
func (r *GormOrderRepository) GetByTrackingID(ctx context.Context, trackingID string) (*order.Order, error) {
	if trackingID == "" {
		return nil, errs.NewValueIsRequiredError("tracking id")
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).First(&dto, "courier_tracking_id = ?", trackingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order by tracking id", trackingID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves orders matching the filter, newest order date first.
func (r *GormOrderRepository) GetAll(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	db := r.db.WithContext(ctx)

	if filter.Status != nil {
		db = db.Where("status = ?", int(*filter.Status))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where(
			"id ILIKE ? OR customer_name ILIKE ? OR customer_phone ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	var dtos []OrderDTO
	if err := db.Order("date DESC, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
