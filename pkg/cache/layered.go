package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// LayeredCache implements two-level cache (L1: Memory, L2: Redis).
// With an invalidation channel, deletes are broadcast over Redis pub/sub so
// every process sharing the Redis drops its L1 copy as well.
type LayeredCache struct {
	memCache   *MemoryCache
	redisCache *RedisCache
	memTTL     time.Duration

	channel string
	pubsub  *redis.PubSub
	wg      sync.WaitGroup
}

type invalidation struct {
	Keys    []string `json:"keys,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
}

// NewLayeredCache creates a layered cache with memory and Redis.
func NewLayeredCache(redisCache *RedisCache, opts ...LayeredOption) *LayeredCache {
	cfg := &LayeredConfig{
		MemoryMaxSize: 1000,
		MemoryTTL:     time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	lc := &LayeredCache{
		memCache:   NewMemoryCache(WithMemoryMaxSize(cfg.MemoryMaxSize), WithMemoryDefaultTTL(cfg.MemoryTTL)),
		redisCache: redisCache,
		memTTL:     cfg.MemoryTTL,
		channel:    cfg.InvalidationChannel,
	}
	if lc.channel != "" {
		lc.pubsub = redisCache.Client().Subscribe(context.Background(), lc.channel)
		lc.wg.Add(1)
		go lc.listen()
	}
	return lc
}

func (lc *LayeredCache) listen() {
	defer lc.wg.Done()
	ctx := context.Background()
	for msg := range lc.pubsub.Channel() {
		var inv invalidation
		if err := json.Unmarshal([]byte(msg.Payload), &inv); err != nil {
			continue
		}
		if len(inv.Keys) > 0 {
			_ = lc.memCache.Delete(ctx, inv.Keys...)
		}
		if inv.Pattern != "" {
			_ = lc.memCache.DeleteByPattern(ctx, inv.Pattern)
		}
	}
}

func (lc *LayeredCache) broadcast(ctx context.Context, inv invalidation) error {
	if lc.channel == "" {
		return nil
	}
	data, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	return lc.redisCache.Client().Publish(ctx, lc.channel, data).Err()
}

// Set writes through: Redis first, then memory.
func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := lc.redisCache.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	_ = lc.memCache.Set(ctx, key, value, lc.l1TTL(expiration))
	return nil
}

// Get promotes L2 hits into L1.
func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.memCache.Get(ctx, key, dest); err == nil {
		return nil
	}
	if err := lc.redisCache.Get(ctx, key, dest); err != nil {
		return err
	}
	_ = lc.memCache.Set(ctx, key, dest, lc.memTTL)
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.memCache.Delete(ctx, keys...)
	if err := lc.redisCache.Delete(ctx, keys...); err != nil {
		return err
	}
	return lc.broadcast(ctx, invalidation{Keys: keys})
}

func (lc *LayeredCache) DeleteByPattern(ctx context.Context, pattern string) error {
	_ = lc.memCache.DeleteByPattern(ctx, pattern)
	if err := lc.redisCache.DeleteByPattern(ctx, pattern); err != nil {
		return err
	}
	return lc.broadcast(ctx, invalidation{Pattern: pattern})
}

func (lc *LayeredCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	if ok, _ := lc.memCache.Exists(ctx, keys...); ok {
		return true, nil
	}
	return lc.redisCache.Exists(ctx, keys...)
}

// TryLock and Unlock go straight to Redis; an L1 lock would only be local.
func (lc *LayeredCache) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return lc.redisCache.TryLock(ctx, key, ttl)
}

func (lc *LayeredCache) Unlock(ctx context.Context, key string) error {
	return lc.redisCache.Unlock(ctx, key)
}

// Close stops the invalidation listener and closes both layers.
func (lc *LayeredCache) Close() error {
	if lc.pubsub != nil {
		_ = lc.pubsub.Close()
		lc.wg.Wait()
	}
	_ = lc.memCache.Close()
	return lc.redisCache.Close()
}

func (lc *LayeredCache) l1TTL(expiration time.Duration) time.Duration {
	if expiration > 0 && expiration < lc.memTTL {
		return expiration
	}
	return lc.memTTL
}
