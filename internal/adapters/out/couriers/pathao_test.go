package couriers_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/couriers"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubConfigStore serves credentials for a single provider.
type stubConfigStore struct {
	provider courier.Provider
	creds    ports.CourierCredentials
}

func (s *stubConfigStore) StoreCredentials(_ context.Context) (ports.StoreCredentials, error) {
	return ports.StoreCredentials{}, errs.NewObjectNotFoundError("store credentials", "singleton")
}

func (s *stubConfigStore) CourierCredentials(
	_ context.Context, provider courier.Provider,
) (ports.CourierCredentials, error) {
	if provider != s.provider {
		return ports.CourierCredentials{}, errs.NewObjectNotFoundError("courier credentials", provider.String())
	}
	return s.creds, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testOrder(t *testing.T) *order.Order {
	t.Helper()
	phone, err := kernel.NewPhone("01711223344")
	require.NoError(t, err)
	cust, err := customer.NewCustomer("Rahim Uddin", phone, "House 12, Dhanmondi", "Dhaka")
	require.NoError(t, err)
	o, err := order.NewOrder(
		"#WC-59201",
		time.Date(2023, 10, 26, 0, 0, 0, 0, time.UTC),
		cust, 1250, []string{"Premium Panjabi", "Cap"}, order.Processing,
	)
	require.NoError(t, err)
	return o
}

func pathaoStore(baseURL string) *stubConfigStore {
	return &stubConfigStore{
		provider: courier.Pathao,
		creds: ports.CourierCredentials{
			Provider:  courier.Pathao,
			Connected: true,
			Fields: map[string]string{
				"base_url":      baseURL,
				"client_id":     "cid",
				"client_secret": "secret",
				"username":      "merchant@example.com",
				"password":      "pw",
				"store_id":      "148",
			},
		},
	}
}

func TestPathaoAdapter_Book_IssuesTokenThenBooks(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/aladdin/api/v3/issue-token":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "cid", body["client_id"])
			assert.Equal(t, "password", body["grant_type"])
			_, _ = w.Write([]byte(`{"access_token": "tok-1"}`))
		case "/aladdin/api/v3/orders":
			gotAuth = r.Header.Get("Authorization")
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "#WC-59201", body["merchant_order_id"])
			assert.Equal(t, "+8801711223344", body["recipient_phone"])
			_, _ = w.Write([]byte(`{"data": {"consignment_id": "DT-726"}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	adapter := couriers.NewPathaoAdapter(pathaoStore(server.URL), discardLogger())

	trackingID, err := adapter.Book(t.Context(), testOrder(t))

	require.NoError(t, err)
	assert.Equal(t, "DT-726", trackingID)
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestPathaoAdapter_Book_TokenRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid_client", http.StatusUnauthorized)
	}))
	defer server.Close()

	adapter := couriers.NewPathaoAdapter(pathaoStore(server.URL), discardLogger())

	_, err := adapter.Book(t.Context(), testOrder(t))

	require.ErrorIs(t, err, errs.ErrAdapterFailure)
}

func TestPathaoAdapter_Book_NotConnected(t *testing.T) {
	store := pathaoStore("http://unused.invalid")
	store.creds.Connected = false
	adapter := couriers.NewPathaoAdapter(store, discardLogger())

	_, err := adapter.Book(t.Context(), testOrder(t))

	require.ErrorIs(t, err, errs.ErrAdapterFailure)
}

func TestPathaoAdapter_Track_MapsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/aladdin/api/v3/issue-token" {
			_, _ = w.Write([]byte(`{"access_token": "tok-1"}`))
			return
		}
		assert.Equal(t, "/aladdin/api/v3/orders/DT-726/info", r.URL.Path)
		_, _ = w.Write([]byte(`{"data": {"order_status": "In_Transit", "updated_at": "2023-10-27T09:00:00Z"}}`))
	}))
	defer server.Close()

	adapter := couriers.NewPathaoAdapter(pathaoStore(server.URL), discardLogger())

	event, err := adapter.Track(t.Context(), "DT-726")

	require.NoError(t, err)
	assert.Equal(t, courier.InTransit, event.Target)
	assert.Equal(t, "DT-726", event.TrackingID)
	assert.Equal(t, time.Date(2023, 10, 27, 9, 0, 0, 0, time.UTC), event.OccurredAt)
}

func TestPathaoAdapter_ParseStatusEvent(t *testing.T) {
	adapter := couriers.NewPathaoAdapter(pathaoStore(""), discardLogger())

	payload := []byte(`{
		"consignment_id": "DT-726",
		"order_status": "Delivered",
		"updated_at": "2023-10-28T16:30:00Z",
		"rider_name": "Karim",
		"rider_phone": "+8801811112222"
	}`)

	event, err := adapter.ParseStatusEvent(payload)

	require.NoError(t, err)
	assert.Equal(t, courier.Delivered, event.Target)
	assert.Equal(t, "DT-726", event.TrackingID)
	assert.Equal(t, "Karim", event.RiderName)
	assert.Equal(t, "+8801811112222", event.RiderPhone)
}

func TestPathaoAdapter_ParseStatusEvent_UnknownStatus(t *testing.T) {
	adapter := couriers.NewPathaoAdapter(pathaoStore(""), discardLogger())

	_, err := adapter.ParseStatusEvent([]byte(`{"consignment_id": "DT-1", "order_status": "Vanished"}`))

	require.ErrorIs(t, err, errs.ErrAdapterFailure)
}

func TestPathaoAdapter_ParseStatusEvent_MalformedPayload(t *testing.T) {
	adapter := couriers.NewPathaoAdapter(pathaoStore(""), discardLogger())

	_, err := adapter.ParseStatusEvent([]byte(`not json`))

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
