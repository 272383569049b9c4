package chi

import (
	"time"

	"github.com/google/uuid"

	domrev "github.com/kailas-cloud/reviewguard/internal/domain/review"
)

// ErrorCode is a machine-readable error class.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest            ErrorCode = "bad_request"
	ErrorCodeInvalidInput          ErrorCode = "invalid_input"
	ErrorCodeClassifierUnavailable ErrorCode = "classifier_unavailable"
	ErrorCodeRateLimited           ErrorCode = "rate_limited"
	ErrorCodeUnauthorized          ErrorCode = "unauthorized"
	ErrorCodeForbidden             ErrorCode = "forbidden"
	ErrorCodeNotFound              ErrorCode = "not_found"
	ErrorCodeNotImplemented        ErrorCode = "not_implemented"
	ErrorCodeStoreUnavailable      ErrorCode = "store_unavailable"
	ErrorCodeInternalError         ErrorCode = "internal_error"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string    `json:"error"`
	Code  ErrorCode `json:"code,omitempty"`
}

// ClassifyRequest is the body of POST /v1/classify.
// Review is a pointer so a missing field is told apart from an empty one.
type ClassifyRequest struct {
	Review *string `json:"review"`
}

// ClassifyResponse is the verdict returned to the caller.
type ClassifyResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// SubmitReviewRequest is the body of POST /v1/products/{productID}/reviews.
type SubmitReviewRequest struct {
	UserID  uuid.UUID `json:"user_id"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
}

// ReviewResponse is a stored review with its classification.
type ReviewResponse struct {
	ID              uuid.UUID `json:"id"`
	ProductID       uuid.UUID `json:"product_id"`
	ProductName     string    `json:"product_name,omitempty"`
	UserID          uuid.UUID `json:"user_id"`
	Rating          int       `json:"rating"`
	Comment         string    `json:"comment"`
	Label           string    `json:"label"`
	IsFake          bool      `json:"is_fake"`
	ConfidenceScore *float64  `json:"confidence_score,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// labelUnclassified marks stored reviews that never received a verdict.
const labelUnclassified = "unclassified"

// ReviewSummary aggregates the reviews of one product.
type ReviewSummary struct {
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
	GenuineCount  int     `json:"genuine_count"`
}

// ProductReviewsResponse is the body of GET /v1/products/{productID}/reviews.
type ProductReviewsResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Summary ReviewSummary    `json:"summary"`
}

// ModerationStats counts reviews per label.
type ModerationStats struct {
	Total        int `json:"total"`
	Fake         int `json:"fake"`
	Genuine      int `json:"genuine"`
	Unclassified int `json:"unclassified"`
}

// ModerationResponse is the body of GET /v1/admin/reviews.
type ModerationResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Stats   ModerationStats  `json:"stats"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func reviewToResponse(r *domrev.Review) ReviewResponse {
	v := r.Verdict()
	resp := ReviewResponse{
		ID:          r.ID(),
		ProductID:   r.ProductID(),
		ProductName: r.ProductName(),
		UserID:      r.UserID(),
		Rating:      r.Rating(),
		Comment:     r.Comment(),
		Label:       string(v.Label()),
		IsFake:      r.IsFake(),
		CreatedAt:   r.CreatedAt(),
	}
	if !r.Classified() {
		resp.Label = labelUnclassified
	}
	if v.Scored() {
		c := v.Confidence()
		resp.ConfidenceScore = &c
	}
	return resp
}

func reviewsToResponse(reviews []domrev.Review) []ReviewResponse {
	items := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		items[i] = reviewToResponse(&reviews[i])
	}
	return items
}
