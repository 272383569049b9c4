// Package openai classifies signal vectors with an OpenAI-compatible chat model.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewguard/internal/domain"
	"github.com/kailas-cloud/reviewguard/internal/domain/signal"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
	"github.com/kailas-cloud/reviewguard/internal/metrics"
)

const backendName = "openai"

// DefaultSeed keeps sampling reproducible across calls.
const DefaultSeed = 7

const systemPrompt = `You score product reviews for authenticity.
You receive named stylometric signals of one review, each in [0,1]:
length, lexical_diversity, exclamation_rate, uppercase_ratio, hype_rate,
repetition, punctuation_ratio, call_to_action_rate, first_person_rate,
specificity_rate.
Spam and paid reviews show hype, shouting, repetition and calls to action.
Genuine reviews mention concrete product experience.
Answer with a single JSON object {"fake_probability": p} where p is in [0,1].`

// Classifier is a domain.Classifier backed by a chat-completion model.
type Classifier struct {
	client *openai.Client
	model  string
	seed   int
	logger *zap.Logger
}

// Config holds the LLM backend settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Seed    int
	Logger  *zap.Logger
}

// NewClassifier creates an OpenAI-compatible classifier.
func NewClassifier(cfg *Config) *Classifier {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = DefaultSeed
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Classifier{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		seed:   seed,
		logger: logger,
	}
}

// Classify implements domain.Classifier.
func (c *Classifier) Classify(ctx context.Context, v signal.Vector) (verdict.Result, error) {
	prompt, err := json.Marshal(v.Named())
	if err != nil {
		return verdict.Result{}, fmt.Errorf("marshal signals: %w", err)
	}

	seed := c.seed
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(prompt)},
		},
		// A literal 0 is dropped by omitempty and the provider default applies.
		Temperature:    math.SmallestNonzeroFloat32,
		Seed:           &seed,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		MaxTokens:      32,
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(backendName, "error").Inc()
		return verdict.Result{}, parseAPIError(err)
	}
	metrics.BackendRequestsTotal.WithLabelValues(backendName, "success").Inc()

	if len(resp.Choices) == 0 {
		return verdict.Result{}, domain.Unavailable("llm response", errors.New("empty choices"))
	}

	p, err := parseProbability(resp.Choices[0].Message.Content)
	if err != nil {
		c.logger.Warn("Malformed LLM answer",
			zap.String("model", c.model),
			zap.String("content", truncate(resp.Choices[0].Message.Content, 200)),
			zap.Error(err),
		)
		return verdict.Result{}, domain.Unavailable("llm response", err)
	}

	c.logger.Debug("LLM classification completed",
		zap.String("model", c.model),
		zap.Duration("duration", duration),
		zap.Float64("fake_probability", p),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	res, err := verdict.FromProbability(p)
	if err != nil {
		return verdict.Result{}, domain.Unavailable("llm response", err)
	}
	return res, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Classifier) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return parseAPIError(err)
	}
	return nil
}

type answer struct {
	FakeProbability *float64 `json:"fake_probability"`
}

func parseProbability(content string) (float64, error) {
	var a answer
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &a); err != nil {
		return 0, fmt.Errorf("decode answer: %w", err)
	}
	if a.FakeProbability == nil {
		return 0, errors.New("fake_probability missing")
	}
	p := *a.FakeProbability
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("fake_probability %v out of range", p)
	}
	return p, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrClassifierUnavailable for correct 503 mapping.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return domain.Unavailable("llm", fmt.Errorf("API error %d: %s", reqErr.HTTPStatusCode, detail))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return domain.Unavailable("llm", fmt.Errorf("API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message))
	}

	return domain.Unavailable("llm request", err)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
