// Package text holds the review text value object.
package text

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/reviewguard/internal/domain"
)

// MaxLength is the maximum review length in bytes.
const MaxLength = 16384

// ErrTooLong is returned for text over MaxLength. It wraps domain.ErrInvalidInput.
var ErrTooLong = fmt.Errorf("review text too long (max %d bytes): %w", MaxLength, domain.ErrInvalidInput)

// Review is a validated, immutable review text.
type Review struct {
	value string
}

// New validates raw input. The stored value is trimmed; empty or
// whitespace-only input is rejected with domain.ErrInvalidInput.
func New(raw string) (Review, error) {
	if !utf8.ValidString(raw) {
		return Review{}, fmt.Errorf("review text is not valid UTF-8: %w", domain.ErrInvalidInput)
	}
	v := strings.TrimSpace(raw)
	if v == "" {
		return Review{}, fmt.Errorf("review text is required: %w", domain.ErrInvalidInput)
	}
	if len(v) > MaxLength {
		return Review{}, ErrTooLong
	}
	return Review{value: v}, nil
}

// String returns the trimmed text.
func (r Review) String() string { return r.value }

// Len returns the trimmed text length in bytes.
func (r Review) Len() int { return len(r.value) }

// IsZero reports whether r was not produced by New.
func (r Review) IsZero() bool { return r.value == "" }
