// Package cache provides a best-effort Redis cache for customer read views.
//
// The registry store stays authoritative: every miss or Redis failure falls
// through to the store, and every mutation touching a customer invalidates
// its entry. A short TTL bounds staleness for external readers.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"vouchnet/internal/registry/service"
	id "vouchnet/pkg/domain"
)

// DefaultTTL bounds how stale a cached customer view can get.
const DefaultTTL = 30 * time.Second

// StatusCache caches ViewCustomer responses in Redis.
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a customer view cache. A zero ttl falls back to DefaultTTL.
func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *StatusCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &StatusCache{client: client, ttl: ttl, logger: logger}
}

func key(username id.Username) string {
	return "customer:view:" + username.String()
}

// Get returns the cached view for a username, if present and decodable.
func (c *StatusCache) Get(ctx context.Context, username id.Username) (service.CustomerView, bool) {
	payload, err := c.client.Get(ctx, key(username)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "customer view cache read failed", "error", err)
		}
		return service.CustomerView{}, false
	}
	var view service.CustomerView
	if err := json.Unmarshal(payload, &view); err != nil {
		return service.CustomerView{}, false
	}
	return view, true
}

// Set stores a view. Failures are logged and ignored.
func (c *StatusCache) Set(ctx context.Context, view service.CustomerView) {
	payload, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(view.Username), payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "customer view cache write failed", "error", err)
	}
}

// Invalidate drops the cached view for a username.
func (c *StatusCache) Invalidate(ctx context.Context, username id.Username) {
	if err := c.client.Del(ctx, key(username)).Err(); err != nil {
		c.logger.WarnContext(ctx, "customer view cache invalidation failed", "error", err)
	}
}
