package cache

import (
	"context"
	"time"
)

// Cache defines the contract for the cache layer. Implementations must
// be safe for concurrent use.
type Cache interface {
	// Get reads a key and unmarshals it into dest.
	// found=false means cache miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value with a TTL. Tags associate the key with the
	// entities it was derived from; invalidating any of those tags
	// removes the key.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration, tags ...string) error

	// Delete removes specific keys.
	Delete(ctx context.Context, keys ...string) error

	// InvalidateTags removes every key registered under the given tags.
	InvalidateTags(ctx context.Context, tags ...string) error

	// Increment atomically bumps a counter key.
	Increment(ctx context.Context, key string) (int64, error)

	// Expire sets a TTL on an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}
