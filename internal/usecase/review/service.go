// Package review implements review submission, listing and moderation.
package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/reviewguard/internal/domain"
	domrev "github.com/kailas-cloud/reviewguard/internal/domain/review"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
)

// ProductReviews is the public listing of one product.
type ProductReviews struct {
	Reviews []domrev.Review
	Summary domrev.Summary
}

// Moderation is the admin view over all reviews.
type Moderation struct {
	Reviews []domrev.Review
	Stats   domrev.Stats
}

// Service handles review submission and moderation.
type Service struct {
	repo     Repository
	detector Detector
	now      func() time.Time
}

// New creates a review service.
func New(repo Repository, detector Detector) *Service {
	return &Service{repo: repo, detector: detector, now: time.Now}
}

// Submit classifies comment and stores the review with its verdict.
// When no verdict can be produced nothing is stored and the
// domain.ErrClassifierUnavailable error is returned to the caller.
func (s *Service) Submit(
	ctx context.Context, productID, userID uuid.UUID, rating int, comment string,
) (domrev.Review, error) {
	if productID == uuid.Nil || userID == uuid.Nil {
		return domrev.Review{}, fmt.Errorf("product and user IDs are required: %w", domain.ErrInvalidInput)
	}
	if rating < domrev.MinRating || rating > domrev.MaxRating {
		return domrev.Review{}, fmt.Errorf("rating must be between %d and %d: %w",
			domrev.MinRating, domrev.MaxRating, domain.ErrInvalidInput)
	}

	v, err := s.detector.Detect(ctx, comment)
	if err != nil {
		return domrev.Review{}, fmt.Errorf("classify comment: %w", err)
	}

	rv, err := domrev.New(productID, userID, rating, strings.TrimSpace(comment), v, s.now())
	if err != nil {
		return domrev.Review{}, err
	}

	if err := s.repo.Insert(ctx, rv); err != nil {
		return domrev.Review{}, fmt.Errorf("store review: %w", err)
	}
	return rv, nil
}

// ListForProduct returns the reviews of a product with their summary.
func (s *Service) ListForProduct(ctx context.Context, productID uuid.UUID) (ProductReviews, error) {
	reviews, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return ProductReviews{}, fmt.Errorf("list product reviews: %w", err)
	}
	return ProductReviews{Reviews: reviews, Summary: domrev.Summarize(reviews)}, nil
}

// Moderation lists all reviews, optionally keeping one label. Stats always
// cover every review.
func (s *Service) Moderation(ctx context.Context, label verdict.Label) (Moderation, error) {
	if label != "" {
		if _, err := verdict.ParseLabel(string(label)); err != nil {
			return Moderation{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
	}

	reviews, err := s.repo.ListAll(ctx)
	if err != nil {
		return Moderation{}, fmt.Errorf("list reviews: %w", err)
	}
	return Moderation{
		Reviews: domrev.Filter(reviews, label),
		Stats:   domrev.Count(reviews),
	}, nil
}

// Delete removes a review.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("review ID is required: %w", domain.ErrInvalidInput)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}
