// Package index provides an in-memory brute-force cosine similarity index
// over the static notice corpus. The index is built once at startup and is
// read-only afterwards, so it is shared across concurrent requests without
// locking. Rebuilding means a full re-fit over the whole corpus; there is no
// incremental insert or delete.
package index

import (
	"math"
	"sort"

	"github.com/tenderlens/tenderlens/internal/domain"
)

// Vectorizer produces fixed-dimension vectors for corpus documents.
type Vectorizer interface {
	Vectorize(text string) []float32
	Dim() int
}

// Index holds the corpus notices and their precomputed vectors.
type Index struct {
	notices []domain.Notice
	vectors [][]float32
	dim     int
}

// Build vectorizes every notice's matching excerpt and assembles the index.
func Build(notices []domain.Notice, vec Vectorizer) *Index {
	vectors := make([][]float32, len(notices))
	for i, n := range notices {
		vectors[i] = vec.Vectorize(n.Title + "\n" + n.DescriptionExcerpt)
	}
	return &Index{notices: notices, vectors: vectors, dim: vec.Dim()}
}

// Size returns the number of indexed notices.
func (ix *Index) Size() int { return len(ix.notices) }

// Dim returns the vector dimension of the index.
func (ix *Index) Dim() int { return ix.dim }

// Query returns up to k nearest notices by cosine similarity, descending,
// with ties broken by corpus order. Scores are clamped to [0,1]. An empty
// corpus yields an empty result; k larger than the corpus returns everything.
func (ix *Index) Query(vector []float32, k int) []domain.Match {
	if k <= 0 || len(ix.notices) == 0 {
		return nil
	}

	matches := make([]domain.Match, len(ix.notices))
	for i := range ix.notices {
		matches[i] = domain.Match{
			Notice: ix.notices[i],
			Score:  cosine(ix.vectors[i], vector),
		}
	}

	// Stable keeps corpus order for equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k < len(matches) {
		matches = matches[:k]
	}
	return matches
}

// cosine computes cosine similarity, tolerating non-normalized inputs and
// returning 0 for zero-magnitude vectors. TF-IDF weights are non-negative,
// so the result lies in [0,1] up to floating-point error.
func cosine(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot, na2, nb2 float64
	for i := 0; i < n; i++ {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 0
	}
	s := dot / (math.Sqrt(na2) * math.Sqrt(nb2))
	return math.Min(1, math.Max(0, s))
}
