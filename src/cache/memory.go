package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/stake-plus/medshield/src/claims"
)

type entry struct {
	records   []claims.Record
	expiresAt time.Time
}

// Memory is an in-process Store. Expired entries are invisible to Get even
// before the sweeper removes them.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]entry
	ttl        time.Duration
	sweepEvery time.Duration
	now        func() time.Time
	metrics    *Metrics
}

// MemoryOption customizes a Memory store.
type MemoryOption func(*Memory)

// WithClock overrides time.Now; used by tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// WithMetrics records hits and misses.
func WithMetrics(metrics *Metrics) MemoryOption {
	return func(m *Memory) { m.metrics = metrics }
}

// NewMemory creates a store with the given TTL and sweep period; zero values
// fall back to 600s and 120s.
func NewMemory(ttl, sweepEvery time.Duration, opts ...MemoryOption) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweepEvery <= 0 {
		sweepEvery = DefaultSweepEvery
	}
	m := &Memory{
		entries:    make(map[string]entry),
		ttl:        ttl,
		sweepEvery: sweepEvery,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]claims.Record, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || !m.now().Before(e.expiresAt) {
		m.metrics.miss("memory")
		return nil, false, nil
	}
	m.metrics.hit("memory")
	return cloneRecords(e.records), true, nil
}

func (m *Memory) Set(_ context.Context, key string, records []claims.Record) error {
	stored := cloneRecords(records)

	m.mu.Lock()
	m.entries[key] = entry{records: stored, expiresAt: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

// Len returns the number of entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Sweep drops expired entries and returns how many were removed.
func (m *Memory) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until ctx is done.
func (m *Memory) Run(ctx context.Context) {
	ticker := time.NewTicker(m.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.metrics.evicted(n)
			}
		}
	}
}

// cloneRecords copies records and their sources so callers never share
// backing arrays with a stored entry.
func cloneRecords(records []claims.Record) []claims.Record {
	out := make([]claims.Record, len(records))
	for i, r := range records {
		r.Sources = slices.Clone(r.Sources)
		out[i] = r
	}
	return out
}
