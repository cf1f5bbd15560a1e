package domain

import (
	"fmt"
	"time"
)

// Decision is the closed recommendation enum.
type Decision string

const (
	// DecisionApprove recommends publishing the draft as-is.
	DecisionApprove Decision = "approve"
	// DecisionRevise recommends revising the draft before publication.
	DecisionRevise Decision = "revise"
	// DecisionReject recommends rejecting the draft.
	DecisionReject Decision = "reject"
)

// Valid reports whether d is a member of the closed enum.
func (d Decision) Valid() bool {
	switch d {
	case DecisionApprove, DecisionRevise, DecisionReject:
		return true
	}
	return false
}

// RankedNotice is a similar notice as it appears in the analysis result,
// denormalized with the corpus fields the SPA renders.
type RankedNotice struct {
	NoticeID      string   `json:"notice_id"`
	Score         float64  `json:"score"`
	Title         string   `json:"title,omitempty"`
	Buyer         string   `json:"buyer,omitempty"`
	CPVCodes      []string `json:"cpv_codes,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
}

// QualitativeAnalysis holds the four rubric-dimension narratives.
type QualitativeAnalysis struct {
	RiskManagement              string `json:"risk_management"`
	SustainabilitySocialValues  string `json:"sustainability_social_values"`
	TransparencyFairCompetition string `json:"transparency_fair_competition"`
	InnovationForwardThinking   string `json:"innovation_forward_thinking"`
}

// Recommendation is the model's decision with its rationale.
type Recommendation struct {
	Decision  Decision `json:"decision"`
	Rationale string   `json:"rationale"`
}

// AnalysisResult is one complete analysis of a draft. A later analysis of
// the same draft replaces it: at most one current result per draft.
//
// The JSON field names are the stable wire contract consumed by the SPA.
type AnalysisResult struct {
	DraftID              string              `json:"draft_id,omitempty"`
	SimilarNoticesRanked []RankedNotice      `json:"similar_notices_ranked"`
	OverlapSummary       string              `json:"overlap_summary"`
	Qualitative          QualitativeAnalysis `json:"qualitative_analysis"`
	Recommendation       Recommendation      `json:"recommendation"`
	Confidence           float64             `json:"confidence"`
	Caveats              string              `json:"caveats"`
	CreatedAt            time.Time           `json:"created_at,omitzero"`
}

// RankNotices denormalizes similarity matches into the ranked-notice wire
// shape, preserving order.
func RankNotices(matches []Match) []RankedNotice {
	ranked := make([]RankedNotice, len(matches))
	for i, m := range matches {
		ranked[i] = RankedNotice{
			NoticeID:      m.Notice.NoticeID,
			Score:         m.Score,
			Title:         m.Notice.Title,
			Buyer:         m.Notice.Buyer,
			CPVCodes:      m.Notice.CPVCodes,
			PublishedDate: m.Notice.PublishedDate,
		}
	}
	return ranked
}

// Validate enforces the result invariants: closed decision enum, confidence
// and all similarity scores in [0,1].
func (r AnalysisResult) Validate() error {
	if !r.Recommendation.Decision.Valid() {
		return fmt.Errorf("decision %q is not one of approve/revise/reject", r.Recommendation.Decision)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", r.Confidence)
	}
	for _, n := range r.SimilarNoticesRanked {
		if n.Score < 0 || n.Score > 1 {
			return fmt.Errorf("notice %s score %v outside [0,1]", n.NoticeID, n.Score)
		}
	}
	return nil
}
