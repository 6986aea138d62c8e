// Package couriers implements the courier adapter port for the supported
// delivery networks: Pathao, RedX, Steadfast, Paperfly, and eCourier. Each
// network gets its own adapter translating the uniform Book/Track/Parse
// capability onto that network's API shape and status vocabulary; the
// assignment state machine never sees a provider-specific status string.
package couriers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// requestTimeout bounds every courier network call. A hung courier API must
// surface as an AdapterError, never block the caller indefinitely.
const requestTimeout = 20 * time.Second

// Registry resolves the adapter for a provider.
type Registry struct {
	adapters map[courier.Provider]ports.CourierAdapter
}

// NewRegistry creates a registry over the given adapters.
func NewRegistry(adapters ...ports.CourierAdapter) *Registry {
	byProvider := make(map[courier.Provider]ports.CourierAdapter, len(adapters))
	for _, adapter := range adapters {
		byProvider[adapter.Provider()] = adapter
	}
	return &Registry{adapters: byProvider}
}

// Adapter returns the adapter for the provider. Returns an AdapterError for
// a provider no adapter was registered for.
func (r *Registry) Adapter(provider courier.Provider) (ports.CourierAdapter, error) {
	adapter, ok := r.adapters[provider]
	if !ok {
		return nil, errs.NewAdapterError(provider.String(), "resolve",
			fmt.Errorf("no adapter registered"))
	}
	return adapter, nil
}

// decodeResponse reads a courier API response, enforcing a 2xx status before
// decoding the body into out. The caller owns the body and must close it.
func decodeResponse(adapter, operation string, resp *http.Response, out any) error {
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errs.NewAdapterError(adapter, operation,
			fmt.Errorf("unexpected status %s: %s", resp.Status, body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.NewAdapterError(adapter, operation, err)
	}
	return nil
}

// mapStatus translates one provider status string through the provider's
// vocabulary table. Unknown strings are an error: silently guessing a
// lifecycle state would corrupt the assignment state machine.
func mapStatus(adapter, raw string, vocabulary map[string]courier.Status) (courier.Status, error) {
	status, ok := vocabulary[raw]
	if !ok {
		return courier.StatusUnknown, errs.NewAdapterError(adapter, "map_status",
			fmt.Errorf("unknown status %q", raw))
	}
	return status, nil
}
