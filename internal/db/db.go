// Package db defines the key-value storage contract behind the draft and
// analysis repositories. Drivers: in-process memory (default for the demo)
// and Redis via rueidis.
package db

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound signals a missing key.
var ErrKeyNotFound = errors.New("key not found")

// Store is the storage contract consumed by the repositories. Values are
// opaque JSON documents; keys are namespaced by the repositories.
type Store interface {
	// Get retrieves the value at key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value at key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Scan returns all values whose key starts with prefix.
	Scan(ctx context.Context, prefix string) ([][]byte, error)
	// Ping checks connectivity.
	Ping(ctx context.Context) error
	// WaitForReady polls Ping until the store responds or timeout expires.
	WaitForReady(ctx context.Context, timeout time.Duration) error
	// Close releases the underlying resources.
	Close()
}
