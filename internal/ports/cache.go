package ports

import (
	"context"
	"time"
)

// Cache defines a generic key-value capability for usecases.
// Entries expire after their TTL; Get never returns an expired value.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
