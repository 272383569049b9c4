package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewguard/internal/config"
	"github.com/kailas-cloud/reviewguard/internal/db"
	dbRedis "github.com/kailas-cloud/reviewguard/internal/db/redis"
	"github.com/kailas-cloud/reviewguard/internal/domain"
	logpkg "github.com/kailas-cloud/reviewguard/internal/logger"
	"github.com/kailas-cloud/reviewguard/internal/metrics"
	reviewrepo "github.com/kailas-cloud/reviewguard/internal/repository/review"
	rolerepo "github.com/kailas-cloud/reviewguard/internal/repository/role"
	"github.com/kailas-cloud/reviewguard/internal/repository/verdictcache"
	"github.com/kailas-cloud/reviewguard/internal/resilience"
	chiTransport "github.com/kailas-cloud/reviewguard/internal/transport/chi"
	"github.com/kailas-cloud/reviewguard/internal/transport/inference"
	natsTransport "github.com/kailas-cloud/reviewguard/internal/transport/nats"
	openaiClf "github.com/kailas-cloud/reviewguard/internal/transport/openai"
	classifieruc "github.com/kailas-cloud/reviewguard/internal/usecase/classifier"
	"github.com/kailas-cloud/reviewguard/internal/usecase/classifier/heuristic"
	detectuc "github.com/kailas-cloud/reviewguard/internal/usecase/detect"
	healthuc "github.com/kailas-cloud/reviewguard/internal/usecase/health"
	reviewuc "github.com/kailas-cloud/reviewguard/internal/usecase/review"
	"github.com/kailas-cloud/reviewguard/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting reviewguard API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("classifier_backend", cfg.Classifier.Backend),
		zap.Bool("cache", cfg.Cache.Enabled()),
		zap.Bool("review_store", cfg.Store.DSN != ""),
		zap.Bool("nats", cfg.Events.NATSURL != ""),
	)

	// Register classification metrics explicitly (no init())
	metrics.RegisterClassificationMetrics()

	ctx := context.Background()

	// One executor for every outbound call; breakers are per operation.
	executor := resilience.NewExecutor(resilienceConfig(cfg.Classifier.Breaker), logger).
		OnStateChange(func(operation string, _, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(operation).Set(float64(to))
		})

	// Optional verdict cache
	var cache db.Store
	if cfg.Cache.Enabled() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to verdict cache", zap.Strings("addrs", cfg.Cache.Addrs))
		cache = store
	}

	// Build classifier chain (composition root)
	classifier, err := buildClassifier(cfg.Classifier, executor, cache, time.Duration(cfg.Cache.TTLSec)*time.Second, logger)
	if err != nil {
		logger.Fatal("Failed to build classifier", zap.Error(err))
	}

	// Attempt events: NATS when configured, log otherwise
	var publisher detectuc.Publisher
	if cfg.Events.NATSURL != "" {
		natsPub, err := natsTransport.New(cfg.Events.NATSURL, cfg.Events.Subject, natsTransport.Options{
			Executor: executor,
			Logger:   logger,
		})
		if err != nil {
			logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer natsPub.Close()
		publisher = natsPub
	} else {
		publisher = natsTransport.NewLogPublisher(logger)
	}

	detectSvc := detectuc.New(classifier, cfg.Classifier.Backend, publisher)

	// Health service
	healthSvc := healthuc.New().Register("classifier", classifier)
	if cache != nil {
		healthSvc.Register("cache", healthuc.CheckFunc(cache.Ping))
	}

	adminGate := chiTransport.NewAdminGate(cfg.Auth.AdminKeys, cfg.Auth.DemoAdmin)
	server := chiTransport.NewServer(detectSvc, healthSvc, logger).
		WithAdminGate(adminGate).
		WithRateLimiter(chiTransport.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	// Optional review store
	if cfg.Store.DSN != "" {
		sqlDB, err := reviewrepo.Open(ctx, cfg.Store.DSN, reviewrepo.PoolConfig{
			MaxOpenConns:    cfg.Store.MaxOpenConns,
			MaxIdleConns:    cfg.Store.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Store.ConnMaxLifetimeSec) * time.Second,
		})
		if err != nil {
			logger.Fatal("Failed to open review store", zap.Error(err))
		}
		defer closeDB(sqlDB, logger)

		repo := reviewrepo.New(sqlDB)
		healthSvc.Register("store", healthuc.CheckFunc(repo.Ping))
		server.WithReviews(reviewuc.New(repo, detectSvc))
		if cfg.Auth.RoleLookup {
			adminGate.WithRoles(rolerepo.New(sqlDB))
		}
		logger.Info("Connected to review store", zap.Bool("role_lookup", cfg.Auth.RoleLookup))
	} else {
		logger.Info("Review store not configured, review routes answer 501")
	}

	if cfg.Auth.DemoAdmin {
		logger.Warn("DEMO ADMIN MODE: moderation routes are open to every caller; never enable in production")
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.CORSMiddleware(cfg.CORS.IsEnabled()))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.ClientKeys()))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// classifierChain is what the rest of the service sees: a classifier that can report its health.
type classifierChain interface {
	domain.Classifier
	domain.HealthChecker
}

// buildClassifier assembles the decorator chain: backend -> Guarded -> Cached -> Instrumented.
// Only remote backends are guarded and cached; the heuristic model is pure and cheap.
func buildClassifier(
	cfg config.ClassifierConfig,
	exec classifieruc.Executor,
	cache db.EntryStore,
	cacheTTL time.Duration,
	logger *zap.Logger,
) (classifierChain, error) {
	var (
		c      domain.Classifier
		remote bool
	)

	switch cfg.Backend {
	case config.BackendHeuristic:
		weights := heuristic.DefaultWeights()
		if cfg.Heuristic.WeightsFile != "" {
			w, err := heuristic.LoadWeights(cfg.Heuristic.WeightsFile)
			if err != nil {
				return nil, fmt.Errorf("heuristic weights: %w", err)
			}
			weights = w
			logger.Info("Loaded heuristic weights", zap.String("file", cfg.Heuristic.WeightsFile))
		}
		h, err := heuristic.New(weights)
		if err != nil {
			return nil, fmt.Errorf("heuristic classifier: %w", err)
		}
		c = h
	case config.BackendInference:
		c = inference.New(cfg.Inference.BaseURL, cfg.Timeout(), logger)
		remote = true
	case config.BackendOpenAI:
		c = openaiClf.NewClassifier(&openaiClf.Config{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
			Seed:    cfg.OpenAI.Seed,
			Logger:  logger,
		})
		remote = true
	case config.BackendNone:
		logger.Warn("Classifier backend is none: every classification answers 503")
		c = classifieruc.NewUnavailable(cfg.Backend)
	default:
		return nil, fmt.Errorf("unknown classifier backend %q", cfg.Backend)
	}

	if remote {
		c = classifieruc.NewGuarded(c, exec, cfg.Backend, cfg.Timeout())
		if cache != nil {
			c = verdictcache.New(c, cache, cfg.Backend, cacheTTL, metrics.VerdictCacheTotal, logger)
		}
	}

	return classifieruc.NewInstrumented(c, cfg.Backend, logger), nil
}

func resilienceConfig(b config.BreakerConfig) resilience.Config {
	rc := resilience.DefaultConfig()
	rc.Retry.Attempts = b.MaxAttempts
	rc.Breaker = resilience.BreakerPolicy{
		Enabled:          b.IsEnabled(),
		MinRequests:      b.MinRequests,
		FailureRatio:     b.FailureRatio,
		OpenTimeout:      time.Duration(b.OpenTimeoutSec) * time.Second,
		HalfOpenMaxCalls: b.HalfOpenMaxCall,
	}
	return rc
}

func closeDB(db *sql.DB, logger *zap.Logger) {
	if err := db.Close(); err != nil {
		logger.Warn("Error closing review store", zap.Error(err))
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Error: "internal error",
						Code:  chiTransport.ErrorCodeInternalError,
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id; the id also tags attempt events
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)
			ctx = logpkg.ContextWithRequestID(ctx, requestID)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
