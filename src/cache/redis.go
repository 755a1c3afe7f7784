package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/redis/go-redis/v9"

	"github.com/stake-plus/medshield/src/claims"
)

const redisPrefix = "medshield:scan:"

// Redis is a Store shared between relay replicas. Expiry is delegated to Redis.
type Redis struct {
	rdb     redis.UniversalClient
	ttl     time.Duration
	metrics *Metrics
}

// NewRedis wraps a go-redis client.
func NewRedis(rdb redis.UniversalClient, ttl time.Duration, metrics *Metrics) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{rdb: rdb, ttl: ttl, metrics: metrics}
}

// RedisKey maps a fingerprint onto a bounded key name.
func RedisKey(fingerprint string) string {
	h1 := xxhash.NewS64(0)
	_, _ = h1.Write([]byte(fingerprint))
	h2 := xxhash.NewS64(1)
	_, _ = h2.Write([]byte(fingerprint))

	sum := make([]byte, 0, 16)
	sum = h1.Sum(sum)
	sum = h2.Sum(sum)
	return redisPrefix + hex.EncodeToString(sum)
}

func (r *Redis) Get(ctx context.Context, key string) ([]claims.Record, bool, error) {
	raw, err := r.rdb.Get(ctx, RedisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.metrics.miss("redis")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var records []claims.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		r.metrics.miss("redis")
		return nil, false, fmt.Errorf("decode cached results: %w", err)
	}
	r.metrics.hit("redis")
	return records, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, records []claims.Record) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if err := r.rdb.Set(ctx, RedisKey(key), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
