package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisKeyIsStableAndBounded(t *testing.T) {
	fp := Fingerprint(strings.Repeat("x", 500), "https://example.com/page")

	a := RedisKey(fp)
	b := RedisKey(fp)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "medshield:scan:"))
	assert.Len(t, strings.TrimPrefix(a, "medshield:scan:"), 32)

	assert.NotEqual(t, a, RedisKey(Fingerprint("x", "https://example.com/page")))
	assert.NotEqual(t, RedisKey("a|"), RedisKey("a|u"))
}

// Runs against a real server when MEDSHIELD_TEST_REDIS is set, e.g.
// redis://localhost:6379/15.
func TestRedisStoreRoundTrip(t *testing.T) {
	url := os.Getenv("MEDSHIELD_TEST_REDIS")
	if url == "" {
		t.Skip("MEDSHIELD_TEST_REDIS not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	store := NewRedis(rdb, 2*time.Second, nil)
	key := Fingerprint("redis test "+uuid.NewString(), "")

	_, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, key, sample))
	got, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sample, got)

	ttl, err := rdb.TTL(ctx, RedisKey(key)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
