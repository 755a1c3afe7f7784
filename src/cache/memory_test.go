package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/medshield/src/claims"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var sample = []claims.Record{{
	Claim:   "Vitamin C cures cancer",
	Verdict: claims.VerdictMisinformation,
	Danger:  claims.DangerHigh,
	Sources: []string{"https://www.cancer.gov", "https://www.who.int"},
}}

func TestMemoryGetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory(0, 0)

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", sample))
	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sample, got)
}

func TestMemoryGetReturnsIndependentCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory(0, 0)
	require.NoError(t, m.Set(ctx, "k", sample))

	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	got[0].Claim = "changed"
	got[0].Sources[0] = "https://changed.example"
	_ = append(got[:0], claims.Record{Claim: "other"})

	again, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sample, again)
	assert.Equal(t, "Vitamin C cures cancer", sample[0].Claim)
}

func TestMemoryExpiresOnReadWithoutSweep(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	m := NewMemory(DefaultTTL, DefaultSweepEvery, WithClock(clock.Now))
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "k", sample))

	clock.Advance(DefaultTTL - time.Second)
	_, ok, _ := m.Get(ctx, "k")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok, "entry must be invisible at the TTL boundary")
	assert.Equal(t, 1, m.Len(), "read-time expiry does not delete")

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 0, m.Len())
}

func TestMemoryRunSweeps(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	m := NewMemory(time.Minute, 5*time.Millisecond, WithClock(clock.Now))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, m.Set(ctx, "old", sample))
	clock.Advance(2 * time.Minute)
	require.NoError(t, m.Set(ctx, "fresh", sample))

	go m.Run(ctx)
	assert.Eventually(t, func() bool { return m.Len() == 1 }, time.Second, 5*time.Millisecond)

	_, ok, _ := m.Get(ctx, "fresh")
	assert.True(t, ok)
}

func TestMemoryConcurrentWritesToDifferentKeys(t *testing.T) {
	t.Parallel()

	m := NewMemory(0, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i)
			recs := []claims.Record{{Claim: key, Verdict: claims.VerdictTrue, Danger: claims.DangerLow}}
			_ = m.Set(ctx, key, recs)
			_, _, _ = m.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 64; i++ {
		key := fmt.Sprintf("k%d", i)
		got, ok, _ := m.Get(ctx, key)
		require.True(t, ok, key)
		assert.Equal(t, key, got[0].Claim)
	}
}

func TestMemoryMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	m := NewMemory(0, 0, WithMetrics(metrics))
	ctx := context.Background()

	_, _, _ = m.Get(ctx, "k")
	_ = m.Set(ctx, "k", sample)
	_, _, _ = m.Get(ctx, "k")
	_, _, _ = m.Get(ctx, "k")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.lookups.WithLabelValues("memory", "miss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.lookups.WithLabelValues("memory", "hit")))
}
