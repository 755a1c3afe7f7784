package cache

import (
	"context"
	"time"

	"github.com/stake-plus/medshield/src/claims"
)

const (
	DefaultTTL        = 600 * time.Second
	DefaultSweepEvery = 120 * time.Second
)

// Store memoizes classification results by fingerprint.
type Store interface {
	Get(ctx context.Context, key string) ([]claims.Record, bool, error)
	Set(ctx context.Context, key string, records []claims.Record) error
}
