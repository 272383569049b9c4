package sdk

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/reviewguard/internal/domain"
	"github.com/kailas-cloud/reviewguard/internal/domain/signal"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
	"github.com/kailas-cloud/reviewguard/internal/resilience"
	"github.com/kailas-cloud/reviewguard/internal/transport/inference"
	classifieruc "github.com/kailas-cloud/reviewguard/internal/usecase/classifier"
	"github.com/kailas-cloud/reviewguard/internal/usecase/classifier/heuristic"
	detectuc "github.com/kailas-cloud/reviewguard/internal/usecase/detect"
	healthuc "github.com/kailas-cloud/reviewguard/internal/usecase/health"
)

// Backend names reported by Client.Backend.
const (
	BackendHeuristic = "heuristic"
	BackendInference = "inference"
	BackendCustom    = "custom"
)

// Internal interfaces, swapped in tests.
type detectUseCase interface {
	Detect(ctx context.Context, raw string) (verdict.Result, error)
	Signals(raw string) (signal.Vector, error)
}

// Client is the reviewguard SDK entry point. It is safe for concurrent use.
type Client struct {
	backend   string
	detectSvc detectUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New builds a Client. Without options it classifies in-process with the
// built-in heuristic model and needs no network.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	backend, c, err := buildClassifier(cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(backend, cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return wireClient(backend, c, obs), nil
}

type healthyClassifier interface {
	domain.Classifier
	domain.HealthChecker
}

func buildClassifier(cfg *clientConfig) (string, healthyClassifier, error) {
	switch {
	case cfg.classifier != nil:
		return BackendCustom, &classifierAdapter{inner: cfg.classifier}, nil
	case cfg.inferenceURL != "":
		exec := resilience.NewExecutor(resilience.DefaultConfig(), nil)
		client := inference.New(cfg.inferenceURL, cfg.inferenceTimeout, nil)
		return BackendInference, classifieruc.NewGuarded(client, exec, BackendInference, cfg.inferenceTimeout), nil
	default:
		weights := heuristic.DefaultWeights()
		if cfg.weightsFile != "" {
			w, err := heuristic.LoadWeights(cfg.weightsFile)
			if err != nil {
				return "", nil, fmt.Errorf("reviewguard: %w", err)
			}
			weights = w
		}
		h, err := heuristic.New(weights)
		if err != nil {
			return "", nil, fmt.Errorf("reviewguard: %w", err)
		}
		return BackendHeuristic, h, nil
	}
}

func wireClient(backend string, c healthyClassifier, obs *observer) *Client {
	return &Client{
		backend:   backend,
		detectSvc: detectuc.New(c, backend, nil),
		healthSvc: healthuc.New().Register("classifier", c),
		obs:       obs,
	}
}

// Backend returns the name of the active decision model.
func (c *Client) Backend() string { return c.backend }

// Classify judges a review text. Empty text fails with ErrInvalidInput; a
// model that cannot decide fails with ErrClassifierUnavailable and never
// yields a default verdict.
func (c *Client) Classify(ctx context.Context, text string) (Verdict, error) {
	start := time.Now()

	res, err := c.detectSvc.Detect(ctx, text)
	if err != nil {
		c.obs.classified(start, Verdict{}, err)
		return Verdict{}, fmt.Errorf("classify: %w", err)
	}
	v := fromResult(res)
	c.obs.classified(start, v, nil)
	return v, nil
}

// Signals returns the named features extracted from text without classifying it.
func (c *Client) Signals(text string) (Signals, error) {
	vec, err := c.detectSvc.Signals(text)
	if err != nil {
		return nil, fmt.Errorf("signals: %w", err)
	}
	return Signals(vec.Named()), nil
}
