package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/pkg/metrics"
)

// ApplyCourierEventCommandHandler advances an order's courier lifecycle with
// an inbound status event. Stale and duplicate events succeed as no-ops, so
// courier networks may redeliver webhooks freely; only events the transition
// table forbids outright are errors.
type ApplyCourierEventCommandHandler struct {
	uowFactory OrderUoWFactory
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewApplyCourierEventCommandHandler creates a handler for inbound courier
// status events.
func NewApplyCourierEventCommandHandler(
	uowFactory OrderUoWFactory,
	m *metrics.Metrics,
	logger *slog.Logger,
) ApplyCourierEventCommandHandler {
	return ApplyCourierEventCommandHandler{
		uowFactory: uowFactory,
		metrics:    m,
		logger:     logger.With("component", "apply_courier_event"),
	}
}

// Handle applies the event under the order's row lock, linearizing it
// against concurrent sync merges and other events for the same order.
func (h ApplyCourierEventCommandHandler) Handle(ctx context.Context, command ApplyCourierEventCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	aggregate, err := repo.GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return err
	}

	changed, err := aggregate.ApplyCourierEvent(command.Event())
	if err != nil {
		return err
	}
	if !changed {
		// Duplicate or stale event; nothing to persist.
		return nil
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.metrics.CourierTransitions.WithLabelValues(command.Event().Target.String()).Inc()
	h.logger.InfoContext(ctx, "Courier status advanced",
		"order_id", command.OrderID(),
		"status", command.Event().Target.String())
	return nil
}
