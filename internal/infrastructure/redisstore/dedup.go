package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ctf-hub/ctfbot/internal/domain/webhook"
)

const DefaultKeyPrefix = "ctfbot:event:"

// Deduplicator remembers event ids in redis for a fixed window, so
// redeliveries are caught across restarts and replicas.
type Deduplicator struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

var _ webhook.Deduplicator = (*Deduplicator)(nil)

// NewClient creates a redis client from a redis:// URL.
func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func NewDeduplicator(rdb *redis.Client, prefix string, ttl time.Duration) *Deduplicator {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &Deduplicator{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (d *Deduplicator) IsNew(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return true, nil
	}
	ok, err := d.rdb.SetNX(ctx, d.prefix+eventID, 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record event id: %w", err)
	}
	return ok, nil
}

// Ping verifies redis connectivity.
func (d *Deduplicator) Ping(ctx context.Context) error {
	return d.rdb.Ping(ctx).Err()
}
