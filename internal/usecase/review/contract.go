package review

import (
	"context"

	"github.com/google/uuid"

	domrev "github.com/kailas-cloud/reviewguard/internal/domain/review"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
)

// Repository defines the review store contract.
type Repository interface {
	Insert(ctx context.Context, r domrev.Review) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]domrev.Review, error)
	ListAll(ctx context.Context) ([]domrev.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Detector classifies review text.
type Detector interface {
	Detect(ctx context.Context, raw string) (verdict.Result, error)
}
