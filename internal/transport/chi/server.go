package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewguard/internal/domain"
	logpkg "github.com/kailas-cloud/reviewguard/internal/logger"
	healthuc "github.com/kailas-cloud/reviewguard/internal/usecase/health"
)

// maxBodyBytes bounds request bodies; reviews are capped well below it.
const maxBodyBytes = 64 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API of the review classifier.
type Server struct {
	detector      Detector
	reviews       Reviews
	health        *healthuc.Service
	admin         *AdminGate
	limiter       *RateLimiter
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. Review routes answer 501 until
// WithReviews is called.
func NewServer(detector Detector, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		detector: detector,
		health:   health,
		admin:    NewAdminGate(nil, false),
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ErrorCodeInvalidInput),
		sentinelHandler(domain.ErrClassifierUnavailable, http.StatusServiceUnavailable, ErrorCodeClassifierUnavailable),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, ErrorCodeUnauthorized),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, ErrorCodeForbidden),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrNotImplemented, http.StatusNotImplemented, ErrorCodeNotImplemented),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, ErrorCodeStoreUnavailable),
	}
	return s
}

// WithReviews enables the review and moderation routes.
func (s *Server) WithReviews(reviews Reviews) *Server {
	s.reviews = reviews
	return s
}

// WithAdminGate sets the moderation access policy.
func (s *Server) WithAdminGate(g *AdminGate) *Server {
	if g != nil {
		s.admin = g
	}
	return s
}

// WithRateLimiter limits the classify routes. A nil limiter disables limiting.
func (s *Server) WithRateLimiter(l *RateLimiter) *Server {
	s.limiter = l
	return s
}

// Routes registers all API routes on r.
func (s *Server) Routes(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})

	r.Group(func(r chi.Router) {
		r.Use(s.limiter.Middleware())
		r.Post("/v1/classify", s.Classify)
		r.Post("/detect-fake-review", s.Classify)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireReviews)
		r.Get("/v1/products/{productID}/reviews", s.ListProductReviews)
		r.Post("/v1/products/{productID}/reviews", s.SubmitReview)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.admin.Middleware())
		r.Use(s.requireReviews)
		r.Get("/v1/admin/reviews", s.ListModeration)
		r.Delete("/v1/admin/reviews/{reviewID}", s.DeleteReview)
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) requireReviews(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.reviews == nil {
			writeError(w, http.StatusNotImplemented, ErrorCodeNotImplemented, "review store is not configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

// bodyTooLarge reports whether decodeBody stopped at maxBodyBytes.
func bodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrClassifierUnavailable,
		domain.ErrRateLimited,
		domain.ErrUnauthorized,
		domain.ErrForbidden,
		domain.ErrNotFound,
		domain.ErrNotImplemented,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logger.With(zap.String("request_id", logpkg.RequestID(r.Context())))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
