package chi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kailas-cloud/reviewguard/internal/domain"
	"github.com/kailas-cloud/reviewguard/internal/domain/text"
)

const msgReviewRequired = "Review text is required"

var msgReviewTooLong = fmt.Sprintf("Review text is too long (max %d bytes)", text.MaxLength)

// Classify handles POST /v1/classify and POST /detect-fake-review.
func (s *Server) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := decodeBody(w, r, &req); err != nil {
		msg := msgReviewRequired
		if bodyTooLarge(err) {
			msg = msgReviewTooLong
		}
		writeError(w, http.StatusBadRequest, ErrorCodeInvalidInput, msg)
		return
	}
	if req.Review == nil {
		writeError(w, http.StatusBadRequest, ErrorCodeInvalidInput, msgReviewRequired)
		return
	}

	res, err := s.detector.Detect(r.Context(), *req.Review)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) && strings.TrimSpace(*req.Review) == "" {
			writeError(w, http.StatusBadRequest, ErrorCodeInvalidInput, msgReviewRequired)
			return
		}
		if errors.Is(err, text.ErrTooLong) {
			writeError(w, http.StatusBadRequest, ErrorCodeInvalidInput, msgReviewTooLong)
			return
		}
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ClassifyResponse{
		Label:      string(res.Label()),
		Confidence: res.Confidence(),
	})
}
