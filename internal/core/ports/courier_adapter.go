package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/order"
)

// CourierAdapter is the uniform capability interface over one courier
// network. The assignment state machine is provider-agnostic: it talks to
// whichever adapter the registry returns for the chosen provider.
//
// Every method that reaches the network must honor the context deadline; a
// hung courier API is a failure, never an indefinite wait.
type CourierAdapter interface {
	// Provider identifies the network this adapter talks to.
	Provider() courier.Provider

	// Book registers the parcel with the courier network and returns the
	// tracking identifier. Failures (timeout, auth, validation) return an
	// AdapterError; nothing is retried silently.
	Book(ctx context.Context, o *order.Order) (trackingID string, err error)

	// Track polls the network for the current status of a booked parcel and
	// returns it as a status event for ApplyStatusEvent.
	Track(ctx context.Context, trackingID string) (courier.StatusEvent, error)

	// ParseStatusEvent decodes an inbound webhook payload from this network
	// into a status event.
	ParseStatusEvent(payload []byte) (courier.StatusEvent, error)
}

// CourierAdapterRegistry resolves the adapter for a provider.
type CourierAdapterRegistry interface {
	// Adapter returns the adapter for the provider, or an error when the
	// provider is unknown or has no credentials configured.
	Adapter(provider courier.Provider) (CourierAdapter, error)
}
