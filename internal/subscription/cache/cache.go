// Package cache keeps recently fetched snapshots in Redis, snappy
// compressed, under both the subscription id and number.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang/snappy"
	"github.com/railzwaylabs/subview/internal/config"
	subscriptiondomain "github.com/railzwaylabs/subview/internal/subscription/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyPrefix = "subview:snapshot:"

type Param struct {
	fx.In

	Redis  *redis.Client `optional:"true"`
	Config config.Config
	Log    *zap.Logger
}

type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// Provide returns nil when there is no Redis client.
func Provide(p Param) subscriptiondomain.Cache {
	if p.Redis == nil {
		return nil
	}
	return New(p.Redis, p.Config.Redis.SnapshotTTL, p.Log)
}

func New(client *redis.Client, ttl time.Duration, log *zap.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		log:    log.Named("subscription.cache"),
	}
}

func cacheKey(key string) string {
	return keyPrefix + key
}

func (c *Cache) Get(ctx context.Context, key string) (*subscriptiondomain.Snapshot, error) {
	raw, err := c.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, subscriptiondomain.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	decoded, err := snappy.Decode(nil, raw)
	if err != nil {
		c.log.Warn("dropping corrupt snapshot", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, cacheKey(key)).Err()
		return nil, subscriptiondomain.ErrCacheMiss
	}

	var snap subscriptiondomain.Snapshot
	if err := json.Unmarshal(decoded, &snap); err != nil {
		return nil, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return &snap, nil
}

func (c *Cache) Set(ctx context.Context, snap *subscriptiondomain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	encoded := snappy.Encode(nil, payload)

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, cacheKey(snap.ID), encoded, c.ttl)
		if snap.SubscriptionNumber != "" && snap.SubscriptionNumber != snap.ID {
			pipe.Set(ctx, cacheKey(snap.SubscriptionNumber), encoded, c.ttl)
		}
		return nil
	})
	return err
}
