// Package rediscache caches computed risk profiles in Redis. Profiles are
// derived data; the cache exists to spare the history aggregation on hot
// dashboard paths, so every failure here degrades to a recomputation
// instead of failing the lookup.
package rediscache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"

	"github.com/go-redis/redis/v8"
)

// keyPrefix namespaces risk profile entries.
const keyPrefix = "risk:"

// RiskProfileCache implements ports.RiskProfileCache on Redis.
type RiskProfileCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRiskProfileCache creates a Redis-backed risk profile cache. The TTL
// bounds how stale a profile can get after new parcel outcomes land.
func NewRiskProfileCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RiskProfileCache {
	return &RiskProfileCache{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "risk_cache"),
	}
}

// Get returns the cached profile for the phone and whether it was found.
// Connection failures and corrupt entries report a miss.
func (c *RiskProfileCache) Get(ctx context.Context, phone kernel.Phone) (services.RiskProfile, bool) {
	raw, err := c.client.Get(ctx, keyPrefix+phone.String()).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "Risk cache read failed", "error", err)
		}
		return services.RiskProfile{}, false
	}

	var profile services.RiskProfile
	if err = json.Unmarshal(raw, &profile); err != nil {
		c.logger.WarnContext(ctx, "Risk cache entry is corrupt", "error", err)
		return services.RiskProfile{}, false
	}

	return profile, true
}

// Set stores the profile for the phone. Failures are logged and swallowed.
func (c *RiskProfileCache) Set(ctx context.Context, phone kernel.Phone, profile services.RiskProfile) {
	raw, err := json.Marshal(profile)
	if err != nil {
		c.logger.WarnContext(ctx, "Risk profile marshal failed", "error", err)
		return
	}

	if err = c.client.Set(ctx, keyPrefix+phone.String(), raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "Risk cache write failed", "error", err)
	}
}
