package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/tenderlens/tenderlens/internal/domain"
)

// resultSchemaJSON is the strict contract the model output must satisfy.
// Field names here are the stable wire contract; changing them breaks the SPA.
const resultSchemaJSON = `{
  "type": "object",
  "required": ["overlap_summary", "qualitative_analysis", "recommendation", "confidence", "caveats"],
  "properties": {
    "similar_notices_ranked": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["notice_id", "score"],
        "properties": {
          "notice_id": {"type": "string"},
          "score": {"type": "number", "minimum": 0, "maximum": 1},
          "title": {"type": ["string", "null"]},
          "buyer": {"type": ["string", "null"]},
          "cpv_codes": {"type": ["array", "null"], "items": {"type": "string"}},
          "published_date": {"type": ["string", "null"]}
        }
      }
    },
    "overlap_summary": {"type": "string"},
    "qualitative_analysis": {
      "type": "object",
      "required": ["risk_management", "sustainability_social_values", "transparency_fair_competition", "innovation_forward_thinking"],
      "properties": {
        "risk_management": {"type": "string"},
        "sustainability_social_values": {"type": "string"},
        "transparency_fair_competition": {"type": "string"},
        "innovation_forward_thinking": {"type": "string"}
      }
    },
    "recommendation": {
      "type": "object",
      "required": ["decision", "rationale"],
      "properties": {
        "decision": {"type": "string", "enum": ["approve", "revise", "reject"]},
        "rationale": {"type": "string"}
      }
    },
    "confidence": {"type": "number", "minimum": 0, "maximum": 1},
    "caveats": {"type": "string"}
  }
}`

var resultSchema = mustCompileSchema(resultSchemaJSON)

func mustCompileSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("invalid analysis result schema: " + err.Error())
	}
	return schema
}

// Parse validates raw model output against the result schema and decodes it.
// Markdown code fences around the JSON are tolerated and stripped.
func Parse(raw string) (domain.AnalysisResult, error) {
	cleaned := stripFences(raw)

	check, err := resultSchema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if !check.Valid() {
		msgs := make([]string, 0, len(check.Errors()))
		for _, e := range check.Errors() {
			msgs = append(msgs, e.String())
		}
		return domain.AnalysisResult{}, fmt.Errorf("schema violation: %s", strings.Join(msgs, "; "))
	}

	var res domain.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &res); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("decode analysis: %w", err)
	}
	if err := res.Validate(); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("invariant violation: %w", err)
	}
	return res, nil
}

// stripFences removes a wrapping markdown code block (``` or ```json).
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
