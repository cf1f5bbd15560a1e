// Package analysis runs the draft analysis pipeline: similarity retrieval,
// prompt assembly, generation, schema validation with a single
// stricter-prompt retry, and persistence of the final result.
package analysis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tenderlens/tenderlens/internal/domain"
	"github.com/tenderlens/tenderlens/internal/generation"
	"github.com/tenderlens/tenderlens/internal/metrics"
	"github.com/tenderlens/tenderlens/internal/prompt"
)

// Service orchestrates the analysis pipeline. The vectorizer and index are
// read-only after startup, so one Service serves concurrent requests.
type Service struct {
	drafts    DraftReader
	results   Repository
	vec       Vectorizer
	index     Index
	gen       generation.Generator
	assembler prompt.Assembler
	topK      int
	logger    *zap.Logger
	now       func() time.Time
}

// New creates an analysis service.
func New(
	drafts DraftReader,
	results Repository,
	vec Vectorizer,
	index Index,
	gen generation.Generator,
	assembler prompt.Assembler,
	topK int,
	logger *zap.Logger,
) *Service {
	return &Service{
		drafts:    drafts,
		results:   results,
		vec:       vec,
		index:     index,
		gen:       gen,
		assembler: assembler,
		topK:      topK,
		logger:    logger,
		now:       time.Now,
	}
}

// Analyze runs the full pipeline for a draft and stores the result,
// replacing any previous analysis for the same draft. The pipeline is
// side-effect-free until the final store write, so a failed attempt is
// safe to retry whole.
func (s *Service) Analyze(ctx context.Context, draftID string) (domain.AnalysisResult, error) {
	d, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("analyze: %w", err)
	}

	matches := s.index.Query(s.vec.Vectorize(d.SearchText()), s.topK)
	basePrompt := s.assembler.Assemble(d, matches)

	res, err := s.generateValidated(ctx, basePrompt, d, matches)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	// Models occasionally omit the candidate list; denormalize it from the
	// retrieval step so the stored result always carries the ranked notices.
	if len(res.SimilarNoticesRanked) == 0 && len(matches) > 0 {
		res.SimilarNoticesRanked = domain.RankNotices(matches)
	}
	res.DraftID = d.ID
	res.CreatedAt = s.now().UTC()

	if err := s.results.Save(ctx, res); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("save analysis: %w", err)
	}

	metrics.AnalysesTotal.WithLabelValues("success").Inc()
	return res, nil
}

// GetAnalysis returns the current analysis for a draft.
func (s *Service) GetAnalysis(ctx context.Context, draftID string) (domain.AnalysisResult, error) {
	res, err := s.results.Get(ctx, draftID)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("get analysis: %w", err)
	}
	return res, nil
}

// generateValidated calls the backend and validates its output, retrying
// exactly once with the stricter prompt on a parse failure. Generation
// failures are never retried here.
func (s *Service) generateValidated(
	ctx context.Context, basePrompt string, d domain.Draft, matches []domain.Match,
) (domain.AnalysisResult, error) {
	raw, err := s.gen.Generate(ctx, generation.Request{Prompt: basePrompt, Draft: d, Matches: matches})
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("generation_error").Inc()
		return domain.AnalysisResult{}, fmt.Errorf("generate analysis: %w", err)
	}

	res, parseErr := Parse(raw)
	if parseErr == nil {
		return res, nil
	}

	s.logger.Warn("analysis output failed validation, retrying with stricter prompt",
		zap.String("draft_id", d.ID),
		zap.Error(parseErr),
	)
	metrics.ParseRetriesTotal.Inc()

	raw, err = s.gen.Generate(ctx, generation.Request{
		Prompt:  prompt.Stricter(basePrompt),
		Draft:   d,
		Matches: matches,
	})
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("generation_error").Inc()
		return domain.AnalysisResult{}, fmt.Errorf("generate analysis (strict): %w", err)
	}

	res, parseErr = Parse(raw)
	if parseErr != nil {
		metrics.AnalysesTotal.WithLabelValues("parse_error").Inc()
		return domain.AnalysisResult{}, fmt.Errorf("%w: %v", domain.ErrParse, parseErr)
	}
	return res, nil
}
