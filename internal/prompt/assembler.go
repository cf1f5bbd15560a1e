// Package prompt builds the bounded analysis prompt sent to the generation
// backend, and its stricter JSON-only variant used on retry.
package prompt

import (
	"fmt"
	"strings"

	"github.com/tenderlens/tenderlens/internal/domain"
)

// DefaultMaxNoticeChars bounds each embedded notice description. The backend
// has a context-length ceiling and cost scales with prompt size, so this is
// a hard limit, not a hint.
const DefaultMaxNoticeChars = 200

// Assembler formats drafts and similarity matches into prompts.
type Assembler struct {
	maxNoticeChars int
}

// NewAssembler creates an Assembler. maxNoticeChars <= 0 selects the default.
func NewAssembler(maxNoticeChars int) Assembler {
	if maxNoticeChars <= 0 {
		maxNoticeChars = DefaultMaxNoticeChars
	}
	return Assembler{maxNoticeChars: maxNoticeChars}
}

// MaxNoticeChars returns the per-notice description budget.
func (a Assembler) MaxNoticeChars() int { return a.maxNoticeChars }

// Assemble builds the analysis prompt from the draft and its top-K matches.
// Each notice description is truncated to the per-notice budget.
func (a Assembler) Assemble(draft domain.Draft, matches []domain.Match) string {
	var b strings.Builder

	b.WriteString("You are an expert in public procurement analysis. ")
	b.WriteString("Analyze the following procurement draft and provide a detailed analysis.\n\n")

	b.WriteString("PROCUREMENT DRAFT:\n")
	fmt.Fprintf(&b, "Title: %s\n", draft.Title)
	fmt.Fprintf(&b, "Description: %s\n", draft.Description)
	if draft.CPVCode != "" {
		fmt.Fprintf(&b, "CPV Code: %s\n", draft.CPVCode)
	}

	b.WriteString("\nSIMILAR PAST NOTICES:\n")
	b.WriteString(a.formatMatches(matches))

	b.WriteString(`
RUBRIC PRIORITIES:
When analyzing this procurement draft, prioritize the following dimensions:
1. Risk Management: assess potential risks, mitigation strategies, and contract safeguards
2. Sustainability & Social Values: evaluate environmental impact, social responsibility, and ethical considerations
3. Transparency & Fair Competition: analyze clarity of requirements, accessibility to bidders, and fairness
4. Innovation & Forward-Thinking: evaluate modern approaches, technological advancement, and future-readiness

Rank and confirm the provided candidate matches, provide a qualitative narrative per dimension, and respond with a JSON object ONLY. Do not include any text before or after the JSON.

Your response must be valid JSON matching this exact structure:
{
  "similar_notices_ranked": [
    {
      "notice_id": "string",
      "score": 0.0,
      "title": "string or null",
      "buyer": "string or null",
      "cpv_codes": ["string"],
      "published_date": "string or null"
    }
  ],
  "overlap_summary": "string - summarize key overlaps and differences with similar notices",
  "qualitative_analysis": {
    "risk_management": "string",
    "sustainability_social_values": "string",
    "transparency_fair_competition": "string",
    "innovation_forward_thinking": "string"
  },
  "recommendation": {
    "decision": "one of: approve, revise, reject",
    "rationale": "string"
  },
  "confidence": 0.0,
  "caveats": "string"
}

Return ONLY valid JSON, no other text.`)

	return b.String()
}

// Stricter appends the strict JSON-only instruction. Used only on the single
// retry after a parse failure.
func Stricter(p string) string {
	return p + `

CRITICAL: Your response must be ONLY valid JSON. No markdown, no code blocks, no commentary.
Start your response with { and end with }.
Ensure all strings are properly quoted and all JSON syntax is correct.`
}

func (a Assembler) formatMatches(matches []domain.Match) string {
	if len(matches) == 0 {
		return "No similar notices found.\n"
	}

	var b strings.Builder
	for i, m := range matches {
		n := m.Notice
		fmt.Fprintf(&b, "Notice %d:\n", i+1)
		fmt.Fprintf(&b, "  ID: %s\n", n.NoticeID)
		fmt.Fprintf(&b, "  Title: %s\n", n.Title)
		fmt.Fprintf(&b, "  Buyer: %s\n", orNA(n.Buyer))
		fmt.Fprintf(&b, "  CPV: %s\n", orNA(strings.Join(n.CPVCodes, ", ")))
		fmt.Fprintf(&b, "  Published: %s\n", orNA(n.PublishedDate))
		fmt.Fprintf(&b, "  Similarity Score: %.3f\n", m.Score)
		fmt.Fprintf(&b, "  Description: %s\n\n", truncate(n.DescriptionExcerpt, a.maxNoticeChars))
	}
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
