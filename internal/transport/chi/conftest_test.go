package chi

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domrev "github.com/kailas-cloud/reviewguard/internal/domain/review"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
	healthuc "github.com/kailas-cloud/reviewguard/internal/usecase/health"
	reviewuc "github.com/kailas-cloud/reviewguard/internal/usecase/review"
)

// --- Mock Detector ---

type stubDetector struct {
	result verdict.Result
	err    error
	calls  atomic.Int32
	last   atomic.Value
}

func (d *stubDetector) Detect(_ context.Context, raw string) (verdict.Result, error) {
	d.calls.Add(1)
	d.last.Store(raw)
	return d.result, d.err
}

func (d *stubDetector) lastInput() string {
	s, _ := d.last.Load().(string)
	return s
}

// --- Mock Reviews ---

type mockReviews struct {
	submitFn     func(ctx context.Context, productID, userID uuid.UUID, rating int, comment string) (domrev.Review, error)
	listFn       func(ctx context.Context, productID uuid.UUID) (reviewuc.ProductReviews, error)
	moderationFn func(ctx context.Context, label verdict.Label) (reviewuc.Moderation, error)
	deleteFn     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockReviews) Submit(
	ctx context.Context, productID, userID uuid.UUID, rating int, comment string,
) (domrev.Review, error) {
	return m.submitFn(ctx, productID, userID, rating, comment)
}

func (m *mockReviews) ListForProduct(ctx context.Context, productID uuid.UUID) (reviewuc.ProductReviews, error) {
	return m.listFn(ctx, productID)
}

func (m *mockReviews) Moderation(ctx context.Context, label verdict.Label) (reviewuc.Moderation, error) {
	return m.moderationFn(ctx, label)
}

func (m *mockReviews) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

// --- Mock Roles ---

type mockRoles struct {
	admins map[uuid.UUID]bool
	err    error
	calls  atomic.Int32
}

func (m *mockRoles) IsAdmin(_ context.Context, userID uuid.UUID) (bool, error) {
	m.calls.Add(1)
	if m.err != nil {
		return false, m.err
	}
	return m.admins[userID], nil
}

// --- Helpers ---

func mustVerdict(t *testing.T, label verdict.Label, confidence float64) verdict.Result {
	t.Helper()
	v, err := verdict.New(label, confidence)
	if err != nil {
		t.Fatalf("verdict.New: %v", err)
	}
	return v
}

func sampleReview(t *testing.T, productID uuid.UUID, label verdict.Label, rating int) domrev.Review {
	t.Helper()
	return domrev.Reconstruct(
		uuid.New(), productID, uuid.New(), rating, "solid kettle",
		mustVerdict(t, label, 0.8), time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), "Kettle",
	)
}

func newTestServer(det Detector) *Server {
	return NewServer(det, healthuc.New(), zap.NewNop())
}

// newTestRouter mounts s behind the same CORS and auth middleware the binary uses.
func newTestRouter(s *Server, apiKeys ...string) http.Handler {
	r := chi.NewRouter()
	r.Use(CORSMiddleware(true))
	r.Use(BearerAuthMiddleware(apiKeys))
	s.Routes(r)
	return r
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
