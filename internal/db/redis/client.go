// Package redis implements db.Store on top of rueidis. It talks to Valkey and Redis alike.
package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/reviewguard/internal/db"
)

var _ db.Store = (*Store)(nil)

const (
	clientName          = "reviewguard"
	defaultDialTimeout  = 2 * time.Second
	defaultWriteTimeout = time.Second
	readyBackoffStart   = 50 * time.Millisecond
	readyBackoffMax     = time.Second
)

// Config holds connection parameters for the verdict cache.
type Config struct {
	Addrs        []string
	Password     string
	DialTimeout  time.Duration // default 2s
	WriteTimeout time.Duration // default 1s
}

// Store is the rueidis-backed verdict cache store.
type Store struct {
	client rueidis.Client
}

// NewStore connects to the cache. Server-assisted client caching stays off:
// verdicts are read once per review and never benefit from it.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("cache addrs are required")
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:      cfg.Addrs,
		Password:         cfg.Password,
		ClientName:       clientName,
		Dialer:           net.Dialer{Timeout: cfg.DialTimeout},
		ConnWriteTimeout: cfg.WriteTimeout,
		DisableCache:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect cache: %w", err)
	}

	return &Store{client: client}, nil
}

// NewStoreForTest wraps an existing client, typically a rueidis mock.
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings with doubling backoff until the cache answers or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	backoff := readyBackoffStart
	for {
		err := s.Ping(ctx)
		if err == nil {
			return nil
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("cache not ready after %s: %w", timeout, err)
		case <-timer.C:
		}

		backoff = min(backoff*2, readyBackoffMax)
	}
}
