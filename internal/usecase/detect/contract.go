package detect

import (
	"context"

	"github.com/kailas-cloud/reviewguard/internal/domain/attempt"
)

// Publisher emits classification attempt events.
type Publisher interface {
	Publish(ctx context.Context, ev attempt.Event) error
}
