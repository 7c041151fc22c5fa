package cache

import (
	"context"
	"time"
)

// Cache is the contract for the read cache in front of the catalog.
// Implementations must treat a miss as (found=false, nil error) and leave
// dest untouched on a miss.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
	Ping(ctx context.Context) error
}
