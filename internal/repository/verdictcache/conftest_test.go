package verdictcache

import (
	"context"
	"encoding/binary"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewguard/internal/db"
	"github.com/kailas-cloud/reviewguard/internal/domain/signal"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
)

type mockClassifier struct {
	result verdict.Result
	err    error
	calls  int
}

func (m *mockClassifier) Classify(_ context.Context, _ signal.Vector) (verdict.Result, error) {
	m.calls++
	return m.result, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

// memKVStore is a map-backed store for round-trip tests.
type memKVStore struct {
	data map[string][]byte
}

func (m *memKVStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memKVStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func newTestCachedClassifier(t *testing.T, inner *mockClassifier) (*CachedClassifier, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	return New(inner, ms, "heuristic", time.Hour, nil, zap.NewNop()), ms
}

func vectorOf(t *testing.T, first float64) signal.Vector {
	t.Helper()
	vals := make([]float64, signal.Dim)
	vals[0] = first
	v, err := signal.NewVector(vals)
	if err != nil {
		t.Fatalf("NewVector: %v", err)
	}
	return v
}

func mustResult(t *testing.T, label verdict.Label, confidence float64) verdict.Result {
	t.Helper()
	r, err := verdict.New(label, confidence)
	if err != nil {
		t.Fatalf("verdict.New: %v", err)
	}
	return r
}

func encodeVerdictRaw(label byte, confidence float64) []byte {
	buf := make([]byte, encodedLen)
	buf[0] = label
	binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(confidence))
	return buf
}
