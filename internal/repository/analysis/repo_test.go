package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/tenderlens/tenderlens/internal/db/memory"
	"github.com/tenderlens/tenderlens/internal/domain"
)

func sampleResult(draftID string, decision domain.Decision) domain.AnalysisResult {
	return domain.AnalysisResult{
		DraftID:        draftID,
		OverlapSummary: "overlaps with two past notices",
		Qualitative: domain.QualitativeAnalysis{
			RiskManagement:              "low",
			SustainabilitySocialValues:  "medium",
			TransparencyFairCompetition: "high",
			InnovationForwardThinking:   "medium",
		},
		Recommendation: domain.Recommendation{Decision: decision, Rationale: "fine"},
		Confidence:     0.7,
		Caveats:        "none",
	}
}

func TestRepository_SaveReplacesPrevious(t *testing.T) {
	repo := New(memory.NewStore(), "test:")
	ctx := context.Background()

	if err := repo.Save(ctx, sampleResult("d-1", domain.DecisionApprove)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Save(ctx, sampleResult("d-1", domain.DecisionRevise)); err != nil {
		t.Fatalf("Save replace: %v", err)
	}

	got, err := repo.Get(ctx, "d-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Recommendation.Decision != domain.DecisionRevise {
		t.Errorf("expected the later analysis to win, got %s", got.Recommendation.Decision)
	}
}

func TestRepository_GetMissing(t *testing.T) {
	repo := New(memory.NewStore(), "test:")

	_, err := repo.Get(context.Background(), "unanalyzed")
	if !errors.Is(err, domain.ErrAnalysisNotFound) {
		t.Fatalf("expected ErrAnalysisNotFound, got %v", err)
	}
}
