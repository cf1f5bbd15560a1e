// Package generation defines the generation backend contract and the
// deterministic mock backend used for offline demos and tests.
package generation

import (
	"context"

	"github.com/tenderlens/tenderlens/internal/domain"
)

// Request carries everything a backend may need for one generation call.
// The real backend consumes only Prompt; the mock derives its output from
// the draft and matches so its behavior stays independent of prompt wording.
type Request struct {
	Prompt  string
	Draft   domain.Draft
	Matches []domain.Match
}

// Generator produces raw model output for a request. Implementations must
// honor ctx cancellation and wrap transport failures with
// domain.ErrGeneration. Retrying is the caller's responsibility.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
