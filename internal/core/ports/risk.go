package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
)

// ParcelHistoryProvider supplies a customer's historical parcel outcomes for
// risk scoring. The scoring function is the stable contract; the history
// source is swappable: local aggregation over the order store, or a
// courier-network history feed.
type ParcelHistoryProvider interface {
	// History returns all known parcel outcomes for the phone number.
	// An empty history is a valid result, scored as Unknown.
	History(ctx context.Context, phone kernel.Phone) ([]services.ParcelOutcome, error)
}

// RiskProfileCache is a read-through cache for computed risk profiles.
// Profiles are derived data: a cache miss or failure only costs a
// recomputation, so implementations should degrade, not fail the lookup.
type RiskProfileCache interface {
	// Get returns the cached profile for the phone and whether it was found.
	Get(ctx context.Context, phone kernel.Phone) (services.RiskProfile, bool)

	// Set stores the profile for the phone.
	Set(ctx context.Context, phone kernel.Phone, profile services.RiskProfile)
}
