package verdictcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewguard/internal/db"
	"github.com/kailas-cloud/reviewguard/internal/domain"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
)

func TestClassify_CacheMiss(t *testing.T) {
	inner := &mockClassifier{result: mustResult(t, verdict.Fake, 0.93)}
	cc, ms := newTestCachedClassifier(t, inner)

	var (
		setKey string
		setTTL time.Duration
	)
	ms.setFn = func(_ context.Context, key string, _ []byte, ttl time.Duration) error {
		setKey, setTTL = key, ttl
		return nil
	}

	res, err := cc.Classify(context.Background(), vectorOf(t, 0.2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Label() != verdict.Fake || res.Confidence() != 0.93 {
		t.Fatalf("unexpected result: %s/%v", res.Label(), res.Confidence())
	}
	if !strings.HasPrefix(setKey, KeyPrefix+"heuristic:") {
		t.Errorf("unexpected key %q", setKey)
	}
	if setTTL != time.Hour {
		t.Errorf("expected ttl 1h, got %v", setTTL)
	}
}

func TestClassify_CacheHit(t *testing.T) {
	inner := &mockClassifier{result: mustResult(t, verdict.Fake, 0.93)}
	cc, ms := newTestCachedClassifier(t, inner)

	cached := encodeVerdict(mustResult(t, verdict.Genuine, 0.71))
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return cached, nil
	}

	res, err := cc.Classify(context.Background(), vectorOf(t, 0.2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Label() != verdict.Genuine || res.Confidence() != 0.71 {
		t.Fatalf("expected cached verdict, got %s/%v", res.Label(), res.Confidence())
	}
	if inner.calls != 0 {
		t.Errorf("expected inner not to be called on hit, got %d", inner.calls)
	}
}

func TestClassify_RoundTrip(t *testing.T) {
	inner := &mockClassifier{result: mustResult(t, verdict.Genuine, 0.87)}
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_verdict_cache_total"}, []string{"result"})
	cc := New(inner, &memKVStore{data: map[string][]byte{}}, "heuristic", 0, counter, nil)

	v := vectorOf(t, 0.4)
	first, err := cc.Classify(context.Background(), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cc.Classify(context.Background(), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("cached verdict differs: %v vs %v", first, second)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 1 {
		t.Errorf("expected 1 hit, got %f", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("expected 1 miss, got %f", got)
	}
}

func TestClassify_InnerErrorNotCached(t *testing.T) {
	inner := &mockClassifier{err: domain.Unavailable("remote", errors.New("down"))}
	cc, ms := newTestCachedClassifier(t, inner)

	var setCalled bool
	ms.setFn = func(context.Context, string, []byte, time.Duration) error {
		setCalled = true
		return nil
	}

	_, err := cc.Classify(context.Background(), vectorOf(t, 0.2))
	if !errors.Is(err, domain.ErrClassifierUnavailable) {
		t.Fatalf("expected ErrClassifierUnavailable, got %v", err)
	}
	if setCalled {
		t.Error("failed classification must not be cached")
	}
}

func TestClassify_StoreErrorsDegradeToMiss(t *testing.T) {
	inner := &mockClassifier{result: mustResult(t, verdict.Genuine, 0.6)}
	cc, ms := newTestCachedClassifier(t, inner)

	ms.getFn = func(context.Context, string) ([]byte, error) {
		return nil, &db.Error{Op: db.OpGet, Err: errors.New("connection reset")}
	}
	ms.setFn = func(context.Context, string, []byte, time.Duration) error {
		return &db.Error{Op: db.OpSet, Err: errors.New("connection reset")}
	}

	res, err := cc.Classify(context.Background(), vectorOf(t, 0.2))
	if err != nil {
		t.Fatalf("cache failure must not fail classification: %v", err)
	}
	if res.Label() != verdict.Genuine {
		t.Errorf("expected inner verdict, got %s", res.Label())
	}
}

func TestClassify_CorruptEntryIsMiss(t *testing.T) {
	inner := &mockClassifier{result: mustResult(t, verdict.Fake, 0.8)}
	cc, ms := newTestCachedClassifier(t, inner)

	ms.getFn = func(context.Context, string) ([]byte, error) {
		return []byte{7, 1, 2}, nil
	}

	res, err := cc.Classify(context.Background(), vectorOf(t, 0.2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Label() != verdict.Fake || inner.calls != 1 {
		t.Errorf("expected fallthrough to inner, got %s after %d calls", res.Label(), inner.calls)
	}
}

func TestCacheKey_DependsOnVectorAndBackend(t *testing.T) {
	inner := &mockClassifier{}
	a := New(inner, &memKVStore{}, "heuristic", 0, nil, zap.NewNop())
	b := New(inner, &memKVStore{}, "openai", 0, nil, zap.NewNop())

	v1, v2 := vectorOf(t, 0.1), vectorOf(t, 0.2)
	if a.cacheKey(v1) != a.cacheKey(v1) {
		t.Error("key must be stable")
	}
	if a.cacheKey(v1) == a.cacheKey(v2) {
		t.Error("different vectors must not share a key")
	}
	if a.cacheKey(v1) == b.cacheKey(v1) {
		t.Error("different backends must not share a key")
	}
}

func TestDecodeVerdict_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short", []byte{1}},
		{"bad label", append([]byte{9}, make([]byte, 8)...)},
		{"out of range confidence", encodeVerdictRaw(1, 2.5)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := decodeVerdict(tc.data); err == nil {
				t.Error("expected error")
			}
		})
	}
}
