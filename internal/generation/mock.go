package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/tenderlens/tenderlens/internal/domain"
)

// Keyword sets for the heuristic dimension scores.
var (
	riskKeywords           = []string{"risk", "new", "untested", "experimental", "prototype"}
	sustainabilityKeywords = []string{"sustainable", "eco", "green", "renewable", "environment"}
	innovationKeywords     = []string{"innovative", "ai", "advanced", "smart", "modern"}
)

// Mock is a side-effect-free generation backend that derives dimension
// scores from keyword occurrences in the draft text and emits the exact
// wire JSON shape of the real backend. It exists so the downstream contract
// is identical whether or not a real model is reachable.
type Mock struct{}

// NewMock creates the deterministic mock backend.
func NewMock() *Mock { return &Mock{} }

// Generate implements Generator. Never fails and ignores the prompt.
func (m *Mock) Generate(_ context.Context, req Request) (string, error) {
	text := strings.ToLower(req.Draft.Title + " " + req.Draft.Description)

	risk := clamp(0.4 + 0.15*float64(countOccurrences(text, riskKeywords)))
	sustainability := clamp(0.3 + 0.2*float64(countOccurrences(text, sustainabilityKeywords)))
	competition := clamp(0.6 + 0.03*float64(len(req.Matches)))
	innovation := clamp(0.5 + 0.15*float64(countOccurrences(text, innovationKeywords)))

	result := domain.AnalysisResult{
		SimilarNoticesRanked: domain.RankNotices(req.Matches),
		OverlapSummary: fmt.Sprintf(
			"Found %d similar past notices. The draft overlaps most with earlier notices in scope and subject matter; differences lie mainly in scale and contract duration.",
			len(req.Matches)),
		Qualitative: domain.QualitativeAnalysis{
			RiskManagement: fmt.Sprintf(
				"Risk level is %s (%.2f). The draft contains elements that may require mitigation strategies and contract safeguards.",
				strings.ToLower(level(risk)), risk),
			SustainabilitySocialValues: fmt.Sprintf(
				"Sustainability emphasis is %s (%.2f). Consider strengthening environmental and social value requirements.",
				strings.ToLower(level(sustainability)), sustainability),
			TransparencyFairCompetition: fmt.Sprintf(
				"Expected competition is %s (%.2f) based on %d comparable notices in the corpus.",
				strings.ToLower(level(competition)), competition, len(req.Matches)),
			InnovationForwardThinking: fmt.Sprintf(
				"Innovation potential is %s (%.2f); the draft shows %s orientation toward modern approaches.",
				strings.ToLower(level(innovation)), innovation, strings.ToLower(level(innovation))),
		},
		Recommendation: recommend(risk, sustainability),
		Confidence:     clamp(0.5 + 0.04*float64(len(req.Matches))),
		Caveats: "Heuristic offline analysis: scores are derived from keyword occurrences and corpus " +
			"match counts, not from a language model. Treat narratives as placeholders.",
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal mock analysis: %w", err)
	}
	return string(raw), nil
}

func recommend(risk, sustainability float64) domain.Recommendation {
	switch {
	case risk >= 0.85:
		return domain.Recommendation{
			Decision:  domain.DecisionReject,
			Rationale: "Identified risk signals dominate the draft; rework the scope and risk allocation before resubmitting.",
		}
	case risk >= 0.6 || sustainability < 0.45:
		return domain.Recommendation{
			Decision:  domain.DecisionRevise,
			Rationale: "The draft is viable but should address the identified risk and sustainability gaps before publication.",
		}
	default:
		return domain.Recommendation{
			Decision:  domain.DecisionApprove,
			Rationale: "Risk and sustainability signals are within acceptable bounds for publication.",
		}
	}
}

func countOccurrences(text string, keywords []string) int {
	total := 0
	for _, kw := range keywords {
		total += strings.Count(text, kw)
	}
	return total
}

func level(score float64) string {
	switch {
	case score >= 0.75:
		return "High"
	case score >= 0.5:
		return "Medium"
	default:
		return "Low"
	}
}

func clamp(v float64) float64 {
	return math.Min(1.0, math.Max(0.0, v))
}
