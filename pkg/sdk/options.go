package sdk

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	weightsFile string

	inferenceURL     string
	inferenceTimeout time.Duration

	classifier Classifier

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithWeightsFile loads heuristic weights from a YAML file instead of the
// compiled-in model. Ignored when another backend is selected.
func WithWeightsFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.weightsFile = path
	})
}

// WithInferenceBackend classifies through a remote inference service.
// Each call is bounded by timeout (default 2s) and guarded by a circuit breaker.
func WithInferenceBackend(baseURL string, timeout time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.inferenceURL = baseURL
		c.inferenceTimeout = timeout
	})
}

// WithClassifier replaces the decision model. Takes precedence over
// WithInferenceBackend.
func WithClassifier(cl Classifier) Option {
	return optionFunc(func(c *clientConfig) {
		c.classifier = cl
	})
}

// WithLogger logs every classification: failures at warn, verdicts at debug.
// Nil (the default) disables logging.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers the reviewguard_sdk_* classification metrics on reg.
// Several clients may share one registerer. Nil (the default) disables metrics.
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
