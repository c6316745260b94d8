// Package cache provides a read-through Redis cache for per-user unread
// notification counts, which every dashboard page displays.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds staleness if an invalidation is lost.
const DefaultTTL = 5 * time.Minute

// CountFunc loads the authoritative unread count from the store.
type CountFunc func(ctx context.Context, userID string) (int, error)

// UnreadCounts caches unread-notification counts in Redis.
type UnreadCounts struct {
	rdb    *redis.Client
	source CountFunc
	ttl    time.Duration
}

func New(addr string, source CountFunc) *UnreadCounts {
	return &UnreadCounts{
		rdb:    redis.NewClient(&redis.Options{Addr: addr}),
		source: source,
		ttl:    DefaultTTL,
	}
}

func key(userID string) string {
	return "jobgrid:unread:" + userID
}

// Get returns the user's unread count, consulting Redis first and falling
// back to the store on a miss. Redis being down degrades to a store read.
func (c *UnreadCounts) Get(ctx context.Context, userID string) (int, error) {
	val, err := c.rdb.Get(ctx, key(userID)).Result()
	if err == nil {
		if n, convErr := strconv.Atoi(val); convErr == nil {
			return n, nil
		}
		// Unparseable entry: drop it and fall through to the store.
		c.rdb.Del(ctx, key(userID))
	} else if !errors.Is(err, redis.Nil) && ctx.Err() != nil {
		return 0, ctx.Err()
	}

	n, err := c.source(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("loading unread count for %s: %w", userID, err)
	}
	// Best effort: a failed SET just means the next read misses too.
	c.rdb.Set(ctx, key(userID), strconv.Itoa(n), c.ttl)
	return n, nil
}

// Invalidate drops the cached count after a notification is created or read.
func (c *UnreadCounts) Invalidate(ctx context.Context, userID string) error {
	if err := c.rdb.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("invalidating unread count for %s: %w", userID, err)
	}
	return nil
}

// Ping checks connectivity, for health reporting.
func (c *UnreadCounts) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *UnreadCounts) Close() error {
	return c.rdb.Close()
}
