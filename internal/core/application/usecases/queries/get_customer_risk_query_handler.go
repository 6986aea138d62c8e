package queries

import (
	"context"

	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// GetCustomerRiskQueryHandler computes risk profiles with a read-through
// cache in front of the history aggregation. Scoring is deterministic, so a
// cached profile is exactly what a recomputation would produce until new
// parcel outcomes land; the cache TTL bounds that staleness window.
type GetCustomerRiskQueryHandler struct {
	history ports.ParcelHistoryProvider
	cache   ports.RiskProfileCache
	scorer  services.RiskScorer
}

// NewGetCustomerRiskQueryHandler creates a handler for customer risk queries.
func NewGetCustomerRiskQueryHandler(
	history ports.ParcelHistoryProvider,
	cache ports.RiskProfileCache,
) GetCustomerRiskQueryHandler {
	return GetCustomerRiskQueryHandler{
		history: history,
		cache:   cache,
		scorer:  services.NewRiskScorer(),
	}
}

// Handle returns the customer's risk profile, from cache when possible.
// A customer with no terminal parcel history scores as Unknown, which is a
// valid, cacheable result.
func (h GetCustomerRiskQueryHandler) Handle(
	ctx context.Context,
	query GetCustomerRiskQuery,
) (services.RiskProfile, error) {
	if err := query.Validate(); err != nil {
		return services.RiskProfile{}, err
	}

	if profile, ok := h.cache.Get(ctx, query.Phone()); ok {
		return profile, nil
	}

	outcomes, err := h.history.History(ctx, query.Phone())
	if err != nil {
		return services.RiskProfile{}, err
	}

	profile := h.scorer.ScoreOutcomes(outcomes)
	h.cache.Set(ctx, query.Phone(), profile)
	return profile, nil
}
