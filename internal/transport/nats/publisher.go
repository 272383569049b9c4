// Package nats publishes classification attempt events to NATS.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewguard/internal/domain/attempt"
	"github.com/kailas-cloud/reviewguard/internal/resilience"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "reviewguard.classification.attempts"

const publishOp = "nats.publish"

// conn is the subset of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
	Close()
}

// executor runs a call under a circuit breaker.
type executor interface {
	Execute(ctx context.Context, operation string, fn func(context.Context) error, classifier resilience.ErrorClassifier) error
}

// Options tunes the NATS connection.
type Options struct {
	ConnectTimeout time.Duration
	ReconnectWait  time.Duration
	MaxReconnects  int
	Executor       executor
	Logger         *zap.Logger
}

// Publisher sends JSON-encoded attempt events to a subject.
type Publisher struct {
	conn     conn
	subject  string
	executor executor
}

// New connects to url and returns a Publisher for subject.
func New(url, subject string, opts Options) (*Publisher, error) {
	connectTimeout := opts.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := opts.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := opts.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	nc, err := nats.Connect(
		url,
		nats.Name("reviewguard"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return newPublisher(nc, subject, opts.Executor), nil
}

func newPublisher(c conn, subject string, exec executor) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{conn: c, subject: subject, executor: exec}
}

// Publish sends ev to the configured subject.
func (p *Publisher) Publish(ctx context.Context, ev attempt.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	call := func(context.Context) error {
		if err := p.conn.Publish(p.subject, data); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	if p.executor == nil {
		return call(ctx)
	}
	return p.executor.Execute(ctx, publishOp, call, classifyPublishError) //nolint:wrapcheck // already wrapped in call
}

// Close drains pending messages and closes the connection.
func (p *Publisher) Close() {
	if p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
