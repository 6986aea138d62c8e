package commands_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fakeOrderStore is an in-memory order store shared by the fake units of
// work. It mirrors the repository contract closely enough for handler tests:
// reads return clones, writes replace whole aggregates, and a mutex stands
// in for row locking.
type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[string]*order.Order
	seen   []string
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*order.Order)}
}

func (s *fakeOrderStore) clone(o *order.Order) *order.Order {
	copied, err := order.RestoreOrder(
		o.ID(), o.Date(), o.Customer(), o.TotalAmount(), o.LineItems(), o.Status(), o.Courier())
	if err != nil {
		panic(err)
	}
	return copied
}

func (s *fakeOrderStore) get(id string) (*order.Order, error) {
	stored, ok := s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return s.clone(stored), nil
}

type fakeUoW struct {
	store  *fakeOrderStore
	active bool
}

func (u *fakeUoW) Begin(_ context.Context) error {
	u.store.mu.Lock()
	u.active = true
	return nil
}

func (u *fakeUoW) Commit(_ context.Context) error {
	u.active = false
	u.store.mu.Unlock()
	return nil
}

func (u *fakeUoW) Rollback(_ context.Context) error {
	// The handlers pair every Begin with one Commit or Rollback; the
	// deferred Rollback after a Commit must be a no-op.
	if u.active {
		u.active = false
		u.store.mu.Unlock()
	}
	return nil
}

func (u *fakeUoW) OrderRepository() ports.OrderRepository {
	return &fakeOrderRepository{store: u.store}
}

type fakeUoWFactory struct {
	store *fakeOrderStore
}

func (f *fakeUoWFactory) Create() commands.OrderUoW {
	return &fakeUoW{store: f.store}
}

type fakeOrderRepository struct {
	store *fakeOrderStore
}

func (r *fakeOrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, exists := r.store.orders[aggregate.ID()]; exists {
		return errs.NewValueIsInvalidError("duplicate order id")
	}
	r.store.orders[aggregate.ID()] = r.store.clone(aggregate)
	r.store.seen = append(r.store.seen, aggregate.ID())
	return nil
}

func (r *fakeOrderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, exists := r.store.orders[aggregate.ID()]; !exists {
		return errs.NewObjectNotFoundError("order", aggregate.ID())
	}
	r.store.orders[aggregate.ID()] = r.store.clone(aggregate)
	return nil
}

func (r *fakeOrderRepository) Get(_ context.Context, id string) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.get(id)
}

func (r *fakeOrderRepository) GetForUpdate(_ context.Context, id string) (*order.Order, error) {
	// Inside a fake transaction the store mutex is already held.
	return r.store.get(id)
}

func (r *fakeOrderRepository) GetByTrackingID(_ context.Context, trackingID string) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, stored := range r.store.orders {
		if stored.Courier().TrackingID() == trackingID {
			return r.store.clone(stored), nil
		}
	}
	return nil, errs.NewObjectNotFoundError("order by tracking id", trackingID)
}

func (r *fakeOrderRepository) GetAll(_ context.Context, _ ports.OrderFilter) ([]*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	all := make([]*order.Order, 0, len(r.store.seen))
	for _, id := range r.store.seen {
		all = append(all, r.store.clone(r.store.orders[id]))
	}
	return all, nil
}

// fakeStorefront returns a fixed batch, or blocks until released when the
// gate channels are set (used by the single-flight test).
type fakeStorefront struct {
	batch []ports.OrderSnapshot
	err   error

	started chan struct{}
	release chan struct{}
}

func (s *fakeStorefront) FetchOrders(_ context.Context) ([]ports.OrderSnapshot, error) {
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.batch, nil
}

// fakeCourierAdapter books every order with a fixed tracking id, or fails.
type fakeCourierAdapter struct {
	provider   courier.Provider
	trackingID string
	bookErr    error
	bookCalls  int
}

func (a *fakeCourierAdapter) Provider() courier.Provider { return a.provider }

func (a *fakeCourierAdapter) Book(_ context.Context, _ *order.Order) (string, error) {
	a.bookCalls++
	if a.bookErr != nil {
		return "", a.bookErr
	}
	return a.trackingID, nil
}

func (a *fakeCourierAdapter) Track(_ context.Context, _ string) (courier.StatusEvent, error) {
	return courier.StatusEvent{}, errs.NewAdapterError(a.provider.String(), "track", errs.ErrAdapterFailure)
}

func (a *fakeCourierAdapter) ParseStatusEvent(_ []byte) (courier.StatusEvent, error) {
	return courier.StatusEvent{}, errs.NewValueIsInvalidError("payload")
}

type fakeAdapterRegistry struct {
	adapters map[courier.Provider]ports.CourierAdapter
}

func (r *fakeAdapterRegistry) Adapter(provider courier.Provider) (ports.CourierAdapter, error) {
	adapter, ok := r.adapters[provider]
	if !ok {
		return nil, errs.NewAdapterError(provider.String(), "resolve", errs.ErrAdapterFailure)
	}
	return adapter, nil
}

func seedOrder(t *testing.T, store *fakeOrderStore, id string) *order.Order {
	t.Helper()
	phone, err := kernel.NewPhone("01711223344")
	require.NoError(t, err)
	cust, err := customer.NewCustomer("Rahim Uddin", phone, "House 12, Dhanmondi", "Dhaka")
	require.NoError(t, err)
	o, err := order.NewOrder(
		id,
		time.Date(2023, 10, 26, 0, 0, 0, 0, time.UTC),
		cust,
		1250,
		[]string{"Premium Panjabi", "Cap"},
		order.Pending,
	)
	require.NoError(t, err)

	repo := &fakeOrderRepository{store: store}
	require.NoError(t, repo.Add(context.Background(), o))
	return o
}
