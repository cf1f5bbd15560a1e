package generation

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tenderlens/tenderlens/internal/domain"
)

func mockRequest(description string, matches []domain.Match) Request {
	return Request{
		Prompt:  "ignored",
		Draft:   domain.Draft{ID: "d-1", Title: "Test draft", Description: description},
		Matches: matches,
	}
}

func TestMock_OutputMatchesWireShape(t *testing.T) {
	matches := []domain.Match{
		{Notice: domain.Notice{NoticeID: "n-1", Title: "Similar", Buyer: "Oslo kommune"}, Score: 0.77},
	}

	raw, err := NewMock().Generate(context.Background(), mockRequest("Supply of laptops.", matches))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		t.Fatalf("mock output is not valid JSON: %v", err)
	}
	if err := result.Validate(); err != nil {
		t.Fatalf("mock output violates result invariants: %v", err)
	}
	if len(result.SimilarNoticesRanked) != 1 || result.SimilarNoticesRanked[0].NoticeID != "n-1" {
		t.Errorf("expected ranked notice n-1, got %+v", result.SimilarNoticesRanked)
	}
	if result.OverlapSummary == "" || result.Caveats == "" {
		t.Error("expected non-empty overlap summary and caveats")
	}
}

func TestMock_Deterministic(t *testing.T) {
	req := mockRequest("Construction of a new bridge.", nil)

	a, _ := NewMock().Generate(context.Background(), req)
	b, _ := NewMock().Generate(context.Background(), req)
	if a != b {
		t.Error("mock output differs for identical input")
	}
}

func TestMock_RiskKeywordsRaiseRiskScore(t *testing.T) {
	risky := mockRequest("risk risk risk risk risk", nil)
	calm := mockRequest("Supply of standard office chairs.", nil)

	rawRisky, _ := NewMock().Generate(context.Background(), risky)
	rawCalm, _ := NewMock().Generate(context.Background(), calm)

	var r, c domain.AnalysisResult
	if err := json.Unmarshal([]byte(rawRisky), &r); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(rawCalm), &c); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(strings.ToLower(r.Qualitative.RiskManagement), "high") {
		t.Errorf("expected high risk narrative, got %q", r.Qualitative.RiskManagement)
	}
	if !strings.Contains(strings.ToLower(c.Qualitative.RiskManagement), "low") {
		t.Errorf("expected low risk narrative, got %q", c.Qualitative.RiskManagement)
	}
	if r.Recommendation.Decision != domain.DecisionReject {
		t.Errorf("expected reject for saturated risk score, got %s", r.Recommendation.Decision)
	}
}

func TestMock_SustainabilityKeywordsRaiseScore(t *testing.T) {
	green := mockRequest("sustainable green renewable environment eco", nil)

	raw, _ := NewMock().Generate(context.Background(), green)
	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(strings.ToLower(result.Qualitative.SustainabilitySocialValues), "high") {
		t.Errorf("expected high sustainability narrative, got %q",
			result.Qualitative.SustainabilitySocialValues)
	}
}

func TestMock_DecisionEnum(t *testing.T) {
	for _, desc := range []string{
		"plain supply contract",
		"experimental prototype with untested new technology",
		"risk risk risk risk risk risk",
	} {
		raw, err := NewMock().Generate(context.Background(), mockRequest(desc, nil))
		if err != nil {
			t.Fatalf("Generate(%q): %v", desc, err)
		}
		var result domain.AnalysisResult
		if err := json.Unmarshal([]byte(raw), &result); err != nil {
			t.Fatal(err)
		}
		if !result.Recommendation.Decision.Valid() {
			t.Errorf("decision %q outside closed enum for %q", result.Recommendation.Decision, desc)
		}
	}
}
