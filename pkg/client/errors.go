package client

import "github.com/tenderlens/tenderlens/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation       = domain.ErrValidation
	ErrDraftNotFound    = domain.ErrDraftNotFound
	ErrAnalysisNotFound = domain.ErrAnalysisNotFound
	ErrGeneration       = domain.ErrGeneration
	ErrParse            = domain.ErrParse
)
