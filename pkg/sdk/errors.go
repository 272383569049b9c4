package sdk

import "github.com/kailas-cloud/reviewguard/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput          = domain.ErrInvalidInput
	ErrClassifierUnavailable = domain.ErrClassifierUnavailable
)
