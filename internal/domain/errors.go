package domain

import "errors"

var (
	// ErrDraftNotFound signals an unknown draft id.
	ErrDraftNotFound = errors.New("draft not found")
	// ErrAnalysisNotFound signals that a draft has not been analyzed yet.
	ErrAnalysisNotFound = errors.New("analysis not found")
	// ErrValidation signals malformed user input.
	ErrValidation = errors.New("validation failed")
	// ErrGeneration signals an unreachable or failing generation backend.
	ErrGeneration = errors.New("generation backend error")
	// ErrParse signals that the backend output never conformed to the
	// analysis schema after the bounded retry.
	ErrParse = errors.New("analysis output parse failed")
)
