// Package db defines the storage contract of the verdict cache: a networked
// byte store whose entries always expire.
package db

import (
	"context"
	"time"
)

// Store is the verdict cache backend.
type Store interface {
	Pinger
	EntryStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EntryStore reads and writes expiring entries.
type EntryStore interface {
	// Get returns ErrKeyNotFound for a missing or expired key.
	Get(ctx context.Context, key string) ([]byte, error)
	// SetWithTTL requires a positive ttl; there are no permanent entries.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
