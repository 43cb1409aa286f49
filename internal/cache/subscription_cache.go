// Package cache keeps recently resolved subscriptions close to the paywall
// so gated requests do not hit PostgreSQL every time.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/scytherma/loginshp-sub000/internal/model"
)

// ErrMiss is returned by Get when nothing is cached for the user.
var ErrMiss = errors.New("cache: miss")

// DefaultTTL bounds how long a webhook-less status change can go unnoticed.
const DefaultTTL = 5 * time.Minute

// RedisSubscriptionCache stores subscriptions as JSON under
// "subscription:<user id>".
type RedisSubscriptionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSubscriptionCache creates a cache with the given TTL; a zero TTL
// means DefaultTTL.
func NewRedisSubscriptionCache(rdb *redis.Client, ttl time.Duration) *RedisSubscriptionCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisSubscriptionCache{rdb: rdb, ttl: ttl}
}

// entry keeps the fields model.Subscription hides from API responses.
type entry struct {
	model.Subscription
	PreapprovalID string `json:"preapproval_id"`
}

func subscriptionKey(userID string) string {
	return fmt.Sprintf("subscription:%s", userID)
}

// Get returns the cached subscription or ErrMiss.
func (c *RedisSubscriptionCache) Get(ctx context.Context, userID string) (*model.Subscription, error) {
	data, err := c.rdb.Get(ctx, subscriptionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	sub := e.Subscription
	sub.PreapprovalID = e.PreapprovalID
	return &sub, nil
}

// Set stores sub until the TTL elapses.
func (c *RedisSubscriptionCache) Set(ctx context.Context, sub *model.Subscription) error {
	data, err := json.Marshal(entry{Subscription: *sub, PreapprovalID: sub.PreapprovalID})
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, subscriptionKey(sub.UserID), data, c.ttl).Err()
}

// Invalidate drops the user's entry.
func (c *RedisSubscriptionCache) Invalidate(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, subscriptionKey(userID)).Err()
}

// Ping reports whether Redis answers.
func (c *RedisSubscriptionCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
