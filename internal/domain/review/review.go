// Package review holds the stored product review aggregate.
package review

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/reviewguard/internal/domain"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// MaxCommentSize is the maximum comment size in bytes.
const MaxCommentSize = 16384

// Review is a classified product review (immutable value object).
type Review struct {
	id          uuid.UUID
	productID   uuid.UUID
	userID      uuid.UUID
	rating      int
	comment     string
	verdict     verdict.Result
	createdAt   time.Time
	productName string
}

// New validates and creates a Review with a fresh ID.
func New(productID, userID uuid.UUID, rating int, comment string, v verdict.Result, now time.Time) (Review, error) {
	if productID == uuid.Nil {
		return Review{}, fmt.Errorf("product ID is required: %w", domain.ErrInvalidInput)
	}
	if userID == uuid.Nil {
		return Review{}, fmt.Errorf("user ID is required: %w", domain.ErrInvalidInput)
	}
	if rating < MinRating || rating > MaxRating {
		return Review{}, fmt.Errorf("rating must be between %d and %d, got %d: %w", MinRating, MaxRating, rating, domain.ErrInvalidInput)
	}
	if comment == "" {
		return Review{}, fmt.Errorf("comment is required: %w", domain.ErrInvalidInput)
	}
	if len(comment) > MaxCommentSize {
		return Review{}, fmt.Errorf("comment too large (max %d bytes): %w", MaxCommentSize, domain.ErrInvalidInput)
	}
	if v.IsZero() {
		return Review{}, fmt.Errorf("review must carry a classification: %w", domain.ErrInvalidInput)
	}

	return Review{
		id:        uuid.New(),
		productID: productID,
		userID:    userID,
		rating:    rating,
		comment:   comment,
		verdict:   v,
		createdAt: now.UTC(),
	}, nil
}

// Reconstruct creates a Review without validation (storage hydration).
func Reconstruct(
	id, productID, userID uuid.UUID, rating int, comment string,
	v verdict.Result, createdAt time.Time, productName string,
) Review {
	return Review{
		id: id, productID: productID, userID: userID, rating: rating, comment: comment,
		verdict: v, createdAt: createdAt, productName: productName,
	}
}

// ID returns the review identifier.
func (r *Review) ID() uuid.UUID { return r.id }

// ProductID returns the reviewed product.
func (r *Review) ProductID() uuid.UUID { return r.productID }

// UserID returns the author.
func (r *Review) UserID() uuid.UUID { return r.userID }

// Rating returns the 1..5 star rating.
func (r *Review) Rating() int { return r.rating }

// Comment returns the review text.
func (r *Review) Comment() string { return r.comment }

// Verdict returns the stored classification.
func (r *Review) Verdict() verdict.Result { return r.verdict }

// Classified reports whether the stored row carries a label.
func (r *Review) Classified() bool { return !r.verdict.IsZero() }

// IsFake reports whether the review was classified fake.
func (r *Review) IsFake() bool { return r.verdict.Label().IsFake() }

// CreatedAt returns the creation time.
func (r *Review) CreatedAt() time.Time { return r.createdAt }

// ProductName returns the joined product name, if loaded.
func (r *Review) ProductName() string { return r.productName }

// Summary aggregates the reviews of one product.
type Summary struct {
	Count         int
	AverageRating float64 // rounded to one decimal, 0 with no reviews
	GenuineCount  int
}

// Summarize computes a product Summary.
func Summarize(reviews []Review) Summary {
	if len(reviews) == 0 {
		return Summary{}
	}
	var sum, genuine int
	for i := range reviews {
		sum += reviews[i].rating
		if reviews[i].verdict.Label() == verdict.Genuine {
			genuine++
		}
	}
	avg := float64(sum) / float64(len(reviews))
	return Summary{
		Count:         len(reviews),
		AverageRating: math.Round(avg*10) / 10,
		GenuineCount:  genuine,
	}
}

// Stats counts reviews per label for moderation.
type Stats struct {
	Total        int
	Fake         int
	Genuine      int
	Unclassified int
}

// Count computes Stats over reviews.
func Count(reviews []Review) Stats {
	s := Stats{Total: len(reviews)}
	for i := range reviews {
		switch reviews[i].verdict.Label() {
		case verdict.Fake:
			s.Fake++
		case verdict.Genuine:
			s.Genuine++
		default:
			s.Unclassified++
		}
	}
	return s
}

// Filter keeps reviews with the given label. An empty label keeps all;
// unclassified reviews match no label.
func Filter(reviews []Review, label verdict.Label) []Review {
	if label == "" {
		return reviews
	}
	out := make([]Review, 0, len(reviews))
	for i := range reviews {
		if reviews[i].verdict.Label() == label {
			out = append(out, reviews[i])
		}
	}
	return out
}
