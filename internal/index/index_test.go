package index

import (
	"math"
	"testing"

	"github.com/tenderlens/tenderlens/internal/domain"
)

// fixedVectorizer maps known texts to known vectors.
type fixedVectorizer struct {
	vectors map[string][]float32
	dim     int
}

func (f *fixedVectorizer) Vectorize(text string) []float32 {
	if v, ok := f.vectors[text]; ok {
		return v
	}
	return make([]float32, f.dim)
}

func (f *fixedVectorizer) Dim() int { return f.dim }

func buildFixed(t *testing.T) *Index {
	t.Helper()
	notices := []domain.Notice{
		{NoticeID: "A", Title: "a", DescriptionExcerpt: "a"},
		{NoticeID: "B", Title: "b", DescriptionExcerpt: "b"},
		{NoticeID: "C", Title: "c", DescriptionExcerpt: "c"},
	}
	vec := &fixedVectorizer{
		dim: 3,
		vectors: map[string][]float32{
			"a\na": {1, 0, 0},
			"b\nb": {0, 1, 0},
			"c\nc": {0, 0, 1},
		},
	}
	return Build(notices, vec)
}

func TestQuery_IdenticalVectorScoresOne(t *testing.T) {
	ix := buildFixed(t)

	matches := ix.Query([]float32{0, 1, 0}, 3)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].Notice.NoticeID != "B" {
		t.Fatalf("expected B first, got %s", matches[0].Notice.NoticeID)
	}
	if math.Abs(matches[0].Score-1.0) > 1e-6 {
		t.Errorf("expected score 1.0 for identical vector, got %v", matches[0].Score)
	}
}

func TestQuery_ScoresDescendingInRange(t *testing.T) {
	ix := buildFixed(t)

	matches := ix.Query([]float32{0.8, 0.6, 0}, 3)
	for i, m := range matches {
		if m.Score < 0 || m.Score > 1 {
			t.Errorf("score %v outside [0,1]", m.Score)
		}
		if i > 0 && matches[i-1].Score < m.Score {
			t.Errorf("scores not descending at %d: %v < %v", i, matches[i-1].Score, m.Score)
		}
	}
}

func TestQuery_KLargerThanCorpus(t *testing.T) {
	ix := buildFixed(t)

	matches := ix.Query([]float32{1, 0, 0}, 10)
	if len(matches) != 3 {
		t.Fatalf("expected all 3 matches, got %d", len(matches))
	}
}

func TestQuery_LimitsToK(t *testing.T) {
	ix := buildFixed(t)

	matches := ix.Query([]float32{1, 0, 0}, 2)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
}

func TestQuery_EmptyCorpus(t *testing.T) {
	ix := Build(nil, &fixedVectorizer{dim: 3})

	if matches := ix.Query([]float32{1, 0, 0}, 5); len(matches) != 0 {
		t.Fatalf("expected no matches on empty corpus, got %d", len(matches))
	}
}

func TestQuery_TieBrokenByCorpusOrder(t *testing.T) {
	notices := []domain.Notice{
		{NoticeID: "first", Title: "x", DescriptionExcerpt: "x"},
		{NoticeID: "second", Title: "y", DescriptionExcerpt: "y"},
	}
	vec := &fixedVectorizer{
		dim: 2,
		vectors: map[string][]float32{
			"x\nx": {1, 0},
			"y\ny": {1, 0},
		},
	}
	ix := Build(notices, vec)

	matches := ix.Query([]float32{1, 0}, 2)
	if matches[0].Notice.NoticeID != "first" || matches[1].Notice.NoticeID != "second" {
		t.Errorf("tie not broken by corpus order: %s, %s",
			matches[0].Notice.NoticeID, matches[1].Notice.NoticeID)
	}
}

func TestQuery_ZeroVector(t *testing.T) {
	ix := buildFixed(t)

	matches := ix.Query([]float32{0, 0, 0}, 3)
	for _, m := range matches {
		if m.Score != 0 {
			t.Errorf("expected score 0 for zero query vector, got %v", m.Score)
		}
	}
}
