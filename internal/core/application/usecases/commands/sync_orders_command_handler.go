package commands

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"
)

// ErrSyncInProgress is returned when a sync is requested while another sync
// is still running. Concurrent syncs are rejected, never queued.
var ErrSyncInProgress = errors.New("order sync is already in progress")

// snapshotDateLayout is the order date format the storefront reports.
const snapshotDateLayout = "2006-01-02"

// RecordError is one per-record failure from a sync batch.
type RecordError struct {
	OrderID string
	Reason  string
}

// SyncReport summarizes one reconciliation pass.
type SyncReport struct {
	Synced  int
	Skipped int
	Errors  []RecordError
}

// SyncOrdersCommandHandler is the reconciliation engine: it pulls the order
// batch from the storefront and upserts each record into the order store.
//
// Guarantees:
//   - Idempotent: re-running with an unchanged remote batch produces no
//     observable state change.
//   - Single-flight: at most one sync runs at a time; a concurrent call
//     fails fast with ErrSyncInProgress.
//   - Partial failure: a malformed record is skipped and reported, the
//     batch continues.
//   - Each record is upserted in its own transaction; cancelling the
//     context stops starting further records, committed upserts remain.
type SyncOrdersCommandHandler struct {
	storefront ports.StorefrontClient
	uowFactory OrderUoWFactory
	metrics    *metrics.Metrics
	logger     *slog.Logger

	inFlight atomic.Bool
}

// NewSyncOrdersCommandHandler creates the reconciliation handler.
// The returned handler owns the single-flight guard, so one instance must be
// shared by every caller that can trigger a sync (HTTP and the cron job).
func NewSyncOrdersCommandHandler(
	storefront ports.StorefrontClient,
	uowFactory OrderUoWFactory,
	m *metrics.Metrics,
	logger *slog.Logger,
) *SyncOrdersCommandHandler {
	return &SyncOrdersCommandHandler{
		storefront: storefront,
		uowFactory: uowFactory,
		metrics:    m,
		logger:     logger.With("component", "sync_orders"),
	}
}

// Handle executes one reconciliation pass and reports per-record outcomes.
// A storefront fetch failure aborts the pass with no store changes. After a
// context cancellation the report covers the records processed so far and
// the context error is returned alongside it.
func (h *SyncOrdersCommandHandler) Handle(ctx context.Context, command SyncOrdersCommand) (SyncReport, error) {
	if err := command.Validate(); err != nil {
		return SyncReport{}, err
	}

	if !h.inFlight.CompareAndSwap(false, true) {
		h.metrics.SyncRuns.WithLabelValues("rejected").Inc()
		return SyncReport{}, ErrSyncInProgress
	}
	defer h.inFlight.Store(false)

	snapshots, err := h.storefront.FetchOrders(ctx)
	if err != nil {
		h.metrics.SyncRuns.WithLabelValues("failed").Inc()
		return SyncReport{}, err
	}

	report := SyncReport{}
	for _, snapshot := range snapshots {
		if ctx.Err() != nil {
			h.metrics.SyncRuns.WithLabelValues("cancelled").Inc()
			return report, ctx.Err()
		}

		if upsertErr := h.upsert(ctx, snapshot); upsertErr != nil {
			report.Skipped++
			report.Errors = append(report.Errors, RecordError{
				OrderID: snapshot.ID,
				Reason:  upsertErr.Error(),
			})
			h.metrics.OrdersSkipped.Inc()
			h.logger.WarnContext(ctx, "Order record skipped during sync",
				"order_id", snapshot.ID, "error", upsertErr)
			continue
		}

		report.Synced++
		h.metrics.OrdersSynced.Inc()
	}

	h.metrics.SyncRuns.WithLabelValues("completed").Inc()
	h.logger.InfoContext(ctx, "Sync completed",
		"synced", report.Synced, "skipped", report.Skipped)
	return report, nil
}

// upsert merges one snapshot into the order store in its own transaction.
// The row lock taken by GetForUpdate linearizes this write against any
// concurrent courier-event write to the same order.
func (h *SyncOrdersCommandHandler) upsert(ctx context.Context, snapshot ports.OrderSnapshot) error {
	date, cust, total, status, err := parseSnapshot(snapshot)
	if err != nil {
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

	existing, err := repo.GetForUpdate(ctx, snapshot.ID)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		var created *order.Order
		created, err = order.NewOrder(snapshot.ID, date, cust, total, snapshot.Items, status)
		if err != nil {
			return err
		}
		if err = repo.Add(ctx, created); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err = existing.MergeStorefront(date, cust, total, snapshot.Items, status); err != nil {
			return err
		}
		if err = repo.Update(ctx, existing); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

// parseSnapshot validates one raw storefront record. Any failure here makes
// the record malformed: it is reported and skipped, never fatal to the batch.
func parseSnapshot(snapshot ports.OrderSnapshot) (
	time.Time, customer.Customer, float64, order.Status, error,
) {
	if snapshot.ID == "" {
		return time.Time{}, customer.Customer{}, 0, order.StatusUnknown,
			errs.NewValueIsRequiredError("order id")
	}

	date, err := time.Parse(snapshotDateLayout, snapshot.Date)
	if err != nil {
		return time.Time{}, customer.Customer{}, 0, order.StatusUnknown,
			errs.NewValueIsInvalidErrorWithCause("order date", err)
	}

	phone, err := kernel.NewPhone(snapshot.CustomerPhone)
	if err != nil {
		return time.Time{}, customer.Customer{}, 0, order.StatusUnknown, err
	}

	cust, err := customer.NewCustomer(
		snapshot.CustomerName, phone, snapshot.CustomerAddress, snapshot.CustomerCity)
	if err != nil {
		return time.Time{}, customer.Customer{}, 0, order.StatusUnknown, err
	}

	total, err := strconv.ParseFloat(snapshot.TotalAmount, 64)
	if err != nil {
		return time.Time{}, customer.Customer{}, 0, order.StatusUnknown,
			errs.NewValueIsInvalidErrorWithCause("total amount", err)
	}

	status, err := order.StatusFromString(snapshot.Status)
	if err != nil {
		return time.Time{}, customer.Customer{}, 0, order.StatusUnknown, err
	}

	return date, cust, total, status, nil
}
