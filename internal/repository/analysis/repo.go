// Package analysis persists analysis results, one current result per draft.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tenderlens/tenderlens/internal/db"
	"github.com/tenderlens/tenderlens/internal/domain"
)

// Repository stores results under <prefix>analysis:<draftID>.
type Repository struct {
	store  db.Store
	prefix string
}

// New creates an analysis repository.
func New(store db.Store, keyPrefix string) *Repository {
	return &Repository{store: store, prefix: keyPrefix + "analysis:"}
}

// Save stores the analysis for its draft, replacing any previous result.
// Last writer wins.
func (r *Repository) Save(ctx context.Context, res domain.AnalysisResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	if err := r.store.Set(ctx, r.prefix+res.DraftID, data); err != nil {
		return fmt.Errorf("store analysis %s: %w", res.DraftID, err)
	}
	return nil
}

// Get loads the current analysis for a draft.
func (r *Repository) Get(ctx context.Context, draftID string) (domain.AnalysisResult, error) {
	data, err := r.store.Get(ctx, r.prefix+draftID)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.AnalysisResult{}, domain.ErrAnalysisNotFound
		}
		return domain.AnalysisResult{}, fmt.Errorf("load analysis %s: %w", draftID, err)
	}

	var res domain.AnalysisResult
	if err := json.Unmarshal(data, &res); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("unmarshal analysis %s: %w", draftID, err)
	}
	return res, nil
}
