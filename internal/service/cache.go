package service

import (
	"context"
	"time"
)

// Cache is the fail-safe byte cache the services read through. A miss and an
// unavailable backend look the same: nil data and no error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Counter reads an integer counter (0 when missing); ok is false when the
	// backend cannot answer.
	Counter(ctx context.Context, key string) (n int64, ok bool)
	Incr(ctx context.Context, key string) error
}

type noCache struct{}

func (noCache) Get(context.Context, string) ([]byte, error) { return nil, nil }
func (noCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (noCache) Delete(context.Context, string) error { return nil }
func (noCache) Counter(context.Context, string) (int64, bool) { return 0, false }
func (noCache) Incr(context.Context, string) error { return nil }

// NoCache disables caching.
var NoCache Cache = noCache{}
