package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/courier"
)

// StoreCredentials is the storefront connection configuration: one durable
// singleton record.
type StoreCredentials struct {
	URL            string
	ConsumerKey    string
	ConsumerSecret string
	IsConnected    bool
}

// CourierCredentials is the connection configuration for one courier
// network, keyed by provider. Fields holds the provider-specific credential
// map (client id/secret, access token, api key, and so on).
type CourierCredentials struct {
	Provider  courier.Provider
	Connected bool
	Fields    map[string]string
}

// ConfigStore supplies connection configuration to the adapters.
// It is read-only from the core's perspective: credential management is an
// outer-surface concern.
type ConfigStore interface {
	// StoreCredentials returns the storefront connection record.
	StoreCredentials(ctx context.Context) (StoreCredentials, error)

	// CourierCredentials returns the connection record for one provider.
	// Returns an ObjectNotFoundError when the provider was never configured.
	CourierCredentials(ctx context.Context, provider courier.Provider) (CourierCredentials, error)
}

// ConfigRepository is the full credential store surface, used by the
// management API to connect the storefront and courier networks. Core code
// and the outbound adapters depend on ConfigStore only.
type ConfigRepository interface {
	ConfigStore

	// SaveStoreCredentials upserts the singleton storefront record.
	SaveStoreCredentials(ctx context.Context, creds StoreCredentials) error

	// SaveCourierCredentials upserts the connection record for one provider.
	SaveCourierCredentials(ctx context.Context, creds CourierCredentials) error
}
