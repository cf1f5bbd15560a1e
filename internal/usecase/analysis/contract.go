package analysis

import (
	"context"

	"github.com/tenderlens/tenderlens/internal/domain"
)

// DraftReader loads drafts for analysis.
type DraftReader interface {
	Get(ctx context.Context, id string) (domain.Draft, error)
}

// Repository defines the storage contract for analysis results.
type Repository interface {
	Save(ctx context.Context, res domain.AnalysisResult) error
	Get(ctx context.Context, draftID string) (domain.AnalysisResult, error)
}

// Vectorizer turns query text into a fixed-dimension vector.
type Vectorizer interface {
	Vectorize(text string) []float32
}

// Index ranks the corpus by similarity to a query vector.
type Index interface {
	Query(vector []float32, k int) []domain.Match
}
