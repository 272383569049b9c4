package chi

import (
	"context"

	"github.com/google/uuid"

	domrev "github.com/kailas-cloud/reviewguard/internal/domain/review"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
	reviewuc "github.com/kailas-cloud/reviewguard/internal/usecase/review"
)

// Detector classifies raw review text.
type Detector interface {
	Detect(ctx context.Context, raw string) (verdict.Result, error)
}

// Reviews is the review submission and moderation use case.
type Reviews interface {
	Submit(ctx context.Context, productID, userID uuid.UUID, rating int, comment string) (domrev.Review, error)
	ListForProduct(ctx context.Context, productID uuid.UUID) (reviewuc.ProductReviews, error)
	Moderation(ctx context.Context, label verdict.Label) (reviewuc.Moderation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ Reviews = (*reviewuc.Service)(nil)

// Roles answers whether a user may moderate.
type Roles interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}
