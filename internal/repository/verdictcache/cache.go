// Package verdictcache memoizes classifier verdicts in a key-value store.
package verdictcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewguard/internal/db"
	"github.com/kailas-cloud/reviewguard/internal/domain"
	"github.com/kailas-cloud/reviewguard/internal/domain/signal"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
)

// KeyPrefix namespaces every cache key.
const KeyPrefix = "reviewguard:verdict:"

// DefaultTTL is used when the configured TTL is not positive.
const DefaultTTL = 24 * time.Hour

const (
	encodedLen   = 9
	labelFake    = byte(1)
	labelGenuine = byte(0)
)

// store is the consumer interface for the verdict cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedClassifier caches verdicts in a key-value store.
type CachedClassifier struct {
	inner      domain.Classifier
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. backend scopes keys so that switching
// backends never serves another model's verdict.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Classifier,
	s store,
	backend string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedClassifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedClassifier{
		inner:      inner,
		store:      s,
		prefix:     KeyPrefix + backend + ":",
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Classify returns a cached verdict or calls the inner classifier.
// Only successful verdicts are stored; cache failures degrade to a miss.
func (c *CachedClassifier) Classify(ctx context.Context, v signal.Vector) (verdict.Result, error) {
	key := c.cacheKey(v)

	if res, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return res, nil
	}

	c.incCache("miss")

	res, err := c.inner.Classify(ctx, v)
	if err != nil {
		return verdict.Result{}, fmt.Errorf("classify vector: %w", err)
	}

	c.putToCache(ctx, key, res)
	return res, nil
}

// HealthCheck delegates to the inner classifier when it supports health checks.
func (c *CachedClassifier) HealthCheck(ctx context.Context) error {
	hc, ok := c.inner.(domain.HealthChecker)
	if !ok {
		return nil
	}
	return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
}

func (c *CachedClassifier) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedClassifier) cacheKey(v signal.Vector) string {
	buf := make([]byte, 0, signal.Dim*8)
	for _, f := range v.Values() {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
	}
	h := sha256.Sum256(buf)
	return c.prefix + hex.EncodeToString(h[:])
}

func (c *CachedClassifier) getFromCache(ctx context.Context, key string) (verdict.Result, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached verdict", zap.String("key", key), zap.Error(err))
		}
		return verdict.Result{}, false
	}
	if len(data) == 0 {
		return verdict.Result{}, false
	}

	res, err := decodeVerdict(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached verdict", zap.String("key", key), zap.Error(err))
		return verdict.Result{}, false
	}
	return res, true
}

func (c *CachedClassifier) putToCache(ctx context.Context, key string, res verdict.Result) {
	if err := c.store.SetWithTTL(ctx, key, encodeVerdict(res), c.ttl); err != nil {
		c.logger.Warn("Failed to cache verdict", zap.String("key", key), zap.Error(err))
	}
}

// encodeVerdict packs a verdict as one label byte followed by the little-endian confidence bits.
func encodeVerdict(r verdict.Result) []byte {
	buf := make([]byte, encodedLen)
	buf[0] = labelGenuine
	if r.Label().IsFake() {
		buf[0] = labelFake
	}
	binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(r.Confidence()))
	return buf
}

func decodeVerdict(data []byte) (verdict.Result, error) {
	if len(data) != encodedLen {
		return verdict.Result{}, fmt.Errorf("invalid verdict cache data: len=%d", len(data))
	}
	var label verdict.Label
	switch data[0] {
	case labelFake:
		label = verdict.Fake
	case labelGenuine:
		label = verdict.Genuine
	default:
		return verdict.Result{}, fmt.Errorf("invalid verdict cache label byte %d", data[0])
	}
	res, err := verdict.New(label, math.Float64frombits(binary.LittleEndian.Uint64(data[1:])))
	if err != nil {
		return verdict.Result{}, fmt.Errorf("decode verdict: %w", err)
	}
	return res, nil
}
