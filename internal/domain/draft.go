// Package domain holds the core types of the tender analysis service:
// drafts, corpus notices, similarity matches and analysis results.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Draft is a tender draft submitted by a user. Immutable once created;
// re-submission creates a new draft.
type Draft struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CPVCode     string    `json:"cpv_code,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks user-supplied draft fields.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(d.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	return nil
}

// SearchText returns the text used for similarity retrieval.
func (d Draft) SearchText() string {
	return d.Title + "\n" + d.Description
}
