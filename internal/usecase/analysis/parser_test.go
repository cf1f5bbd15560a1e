package analysis

import (
	"strings"
	"testing"

	"github.com/tenderlens/tenderlens/internal/domain"
)

const validResultJSON = `{
  "similar_notices_ranked": [
    {"notice_id": "doffin-2024-001122", "score": 0.91, "title": "Road maintenance", "buyer": "Statens vegvesen"}
  ],
  "overlap_summary": "Strong overlap with two earlier road maintenance contracts.",
  "qualitative_analysis": {
    "risk_management": "Moderate risk, standard safeguards apply.",
    "sustainability_social_values": "Includes emission requirements.",
    "transparency_fair_competition": "Clear requirements, open procedure.",
    "innovation_forward_thinking": "Conventional scope."
  },
  "recommendation": {"decision": "approve", "rationale": "Well-scoped draft with known precedent."},
  "confidence": 0.8,
  "caveats": "Based on a small corpus."
}`

func TestParseValid(t *testing.T) {
	res, err := Parse(validResultJSON)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if res.Recommendation.Decision != domain.DecisionApprove {
		t.Errorf("decision = %q, want approve", res.Recommendation.Decision)
	}
	if res.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", res.Confidence)
	}
	if len(res.SimilarNoticesRanked) != 1 || res.SimilarNoticesRanked[0].NoticeID != "doffin-2024-001122" {
		t.Errorf("unexpected ranked notices: %+v", res.SimilarNoticesRanked)
	}
}

func TestParseStripsCodeFences(t *testing.T) {
	for _, fenced := range []string{
		"```json\n" + validResultJSON + "\n```",
		"```\n" + validResultJSON + "\n```",
		"  \n" + validResultJSON + "\n  ",
	} {
		if _, err := Parse(fenced); err != nil {
			t.Errorf("Parse(fenced) error = %v", err)
		}
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(string) string
	}{
		{"not json", func(string) string { return "I think the draft looks fine." }},
		{"truncated json", func(s string) string { return s[:len(s)/2] }},
		{"unknown decision", func(s string) string {
			return strings.Replace(s, `"approve"`, `"maybe"`, 1)
		}},
		{"confidence above one", func(s string) string {
			return strings.Replace(s, `"confidence": 0.8`, `"confidence": 1.4`, 1)
		}},
		{"score below zero", func(s string) string {
			return strings.Replace(s, `"score": 0.91`, `"score": -0.2`, 1)
		}},
		{"missing recommendation", func(s string) string {
			return strings.Replace(s, `"recommendation":`, `"recommendation_x":`, 1)
		}},
		{"missing qualitative field", func(s string) string {
			return strings.Replace(s, `"risk_management"`, `"risk_mgmt"`, 1)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.mutate(validResultJSON)); err == nil {
				t.Error("Parse() error = nil, want schema failure")
			}
		})
	}
}
