package ports

import (
	"context"
	"time"
)

// BadgeCachePort caches rendered badge responses keyed by package and
// badge kind. A miss returns found=false without error.
type BadgeCachePort interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
