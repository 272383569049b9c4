package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
)

// ListProductReviews handles GET /v1/products/{productID}/reviews.
func (s *Server) ListProductReviews(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathUUID(w, r, "productID")
	if !ok {
		return
	}

	list, err := s.reviews.ListForProduct(r.Context(), productID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ProductReviewsResponse{
		Reviews: reviewsToResponse(list.Reviews),
		Summary: ReviewSummary{
			Count:         list.Summary.Count,
			AverageRating: list.Summary.AverageRating,
			GenuineCount:  list.Summary.GenuineCount,
		},
	})
}

// SubmitReview handles POST /v1/products/{productID}/reviews.
// The review is stored only when the classifier produced a verdict.
func (s *Server) SubmitReview(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathUUID(w, r, "productID")
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := decodeBody(w, r, &req); err != nil {
		if bodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrorCodeInvalidInput, "Request body is too large")
			return
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body")
		return
	}

	userID, ok := submitter(w, r, req.UserID)
	if !ok {
		return
	}

	rv, err := s.reviews.Submit(r.Context(), productID, userID, req.Rating, req.Comment)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, reviewToResponse(&rv))
}

// submitter resolves the author of a submission. A forwarded UserIDHeader
// wins over an absent body user_id and must agree with a present one.
func submitter(w http.ResponseWriter, r *http.Request, bodyID uuid.UUID) (uuid.UUID, bool) {
	raw := r.Header.Get(UserIDHeader)
	if raw == "" {
		return bodyID, true
	}
	headerID, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "invalid "+UserIDHeader+" header")
		return uuid.Nil, false
	}
	if bodyID != uuid.Nil && bodyID != headerID {
		writeError(w, http.StatusForbidden, ErrorCodeForbidden, "user_id does not match the signed-in user")
		return uuid.Nil, false
	}
	return headerID, true
}

// ListModeration handles GET /v1/admin/reviews.
func (s *Server) ListModeration(w http.ResponseWriter, r *http.Request) {
	var label *string
	if err := runtime.BindQueryParameter("form", true, false, "label", r.URL.Query(), &label); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter label")
		return
	}

	var filter verdict.Label
	if label != nil {
		filter = verdict.Label(*label)
	}

	mod, err := s.reviews.Moderation(r.Context(), filter)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ModerationResponse{
		Reviews: reviewsToResponse(mod.Reviews),
		Stats: ModerationStats{
			Total:        mod.Stats.Total,
			Fake:         mod.Stats.Fake,
			Genuine:      mod.Stats.Genuine,
			Unclassified: mod.Stats.Unclassified,
		},
	})
}

// DeleteReview handles DELETE /v1/admin/reviews/{reviewID}.
func (s *Server) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathUUID(w, r, "reviewID")
	if !ok {
		return
	}

	if err := s.reviews.Delete(r.Context(), reviewID); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathUUID binds a UUID path parameter, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter "+name)
		return uuid.Nil, false
	}
	return id, true
}
