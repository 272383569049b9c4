// Package inference calls a remote fake-review model over HTTP.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewguard/internal/domain"
	"github.com/kailas-cloud/reviewguard/internal/domain/signal"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
	"github.com/kailas-cloud/reviewguard/internal/metrics"
	"github.com/kailas-cloud/reviewguard/internal/version"
)

const (
	backendName    = "inference"
	classifyPath   = "/detect-fake-review"
	healthPath     = "/health"
	maxErrorBody   = 512
	defaultTimeout = 2 * time.Second
)

// ClassifyRequest is the body sent to the remote model.
type ClassifyRequest struct {
	Signals map[string]float64 `json:"signals"`
	Vector  []float64          `json:"vector"`
}

// ClassifyResponse is the remote model's answer.
type ClassifyResponse struct {
	IsFake          *bool    `json:"is_fake"`
	ConfidenceScore *float64 `json:"confidence_score"`
}

// Client is an HTTP client for the remote inference backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a Client. timeout <= 0 uses a 2s default. logger may be nil.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Classify implements domain.Classifier. Every transport, status or
// payload failure maps to domain.ErrClassifierUnavailable.
func (c *Client) Classify(ctx context.Context, v signal.Vector) (verdict.Result, error) {
	body, err := json.Marshal(ClassifyRequest{Signals: v.Named(), Vector: v.Values()})
	if err != nil {
		return verdict.Result{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+classifyPath, bytes.NewReader(body))
	if err != nil {
		return verdict.Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record("transport_error")
		return verdict.Result{}, domain.Unavailable("inference request", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.record(strconv.Itoa(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("Inference backend returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(snippet)),
		)
		return verdict.Result{}, domain.Unavailable("inference response",
			fmt.Errorf("status %d", resp.StatusCode))
	}

	var out ClassifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return verdict.Result{}, domain.Unavailable("inference decode", err)
	}

	res, err := out.toResult()
	if err != nil {
		return verdict.Result{}, domain.Unavailable("inference payload", err)
	}
	return res, nil
}

// HealthCheck calls GET {base}/health.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Unavailable("inference health", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode != http.StatusOK {
		return domain.Unavailable("inference health", fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}

func (c *Client) record(status string) {
	metrics.BackendRequestsTotal.WithLabelValues(backendName, status).Inc()
}

func (r ClassifyResponse) toResult() (verdict.Result, error) {
	if r.IsFake == nil || r.ConfidenceScore == nil {
		return verdict.Result{}, errors.New("missing is_fake or confidence_score")
	}
	label := verdict.Genuine
	if *r.IsFake {
		label = verdict.Fake
	}
	res, err := verdict.New(label, *r.ConfidenceScore)
	if err != nil {
		return verdict.Result{}, fmt.Errorf("confidence_score: %w", err)
	}
	return res, nil
}
