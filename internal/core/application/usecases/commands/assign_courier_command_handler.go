package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"
)

// AssignCourierCommandHandler brokers the courier booking for one order.
//
// Ordering is deliberate: the external booking call happens before any row
// lock is taken, so a slow or hung courier API cannot block updates to other
// orders. The status transition is committed only after the booking result
// is known, re-validating the precondition under the lock; there is no
// optimistic transition to roll back.
type AssignCourierCommandHandler struct {
	uowFactory OrderUoWFactory
	adapters   ports.CourierAdapterRegistry
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewAssignCourierCommandHandler creates a handler for courier assignment.
func NewAssignCourierCommandHandler(
	uowFactory OrderUoWFactory,
	adapters ports.CourierAdapterRegistry,
	m *metrics.Metrics,
	logger *slog.Logger,
) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory: uowFactory,
		adapters:   adapters,
		metrics:    m,
		logger:     logger.With("component", "assign_courier"),
	}
}

// Handle books the order with the chosen provider and commits the Requested
// transition.
//
// Failure modes, all surfaced to the caller:
//   - unknown order id: ObjectNotFoundError
//   - order already assigned: courier.ErrAlreadyAssigned
//   - provider not configured, or booking call failed: AdapterError
func (h AssignCourierCommandHandler) Handle(ctx context.Context, command AssignCourierCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	// Precondition check on the live record, without a lock; the
	// authoritative re-check happens under the row lock after booking.
	current, err := h.uowFactory.Create().OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return err
	}
	if current.Courier().IsAssigned() {
		return courier.ErrAlreadyAssigned
	}

	adapter, err := h.adapters.Adapter(command.Provider())
	if err != nil {
		return err
	}

	trackingID, err := adapter.Book(ctx, current)
	if err != nil {
		h.metrics.CourierBookings.WithLabelValues(command.Provider().String(), "failed").Inc()
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	locked, err := repo.GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return err
	}
	if err = locked.AssignCourier(command.Provider(), trackingID); err != nil {
		return err
	}
	if err = repo.Update(ctx, locked); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.metrics.CourierBookings.WithLabelValues(command.Provider().String(), "booked").Inc()
	h.logger.InfoContext(ctx, "Courier assigned",
		"order_id", command.OrderID(),
		"provider", command.Provider().String(),
		"tracking_id", trackingID)
	return nil
}
