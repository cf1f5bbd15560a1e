// Package vectorizer turns free text into fixed-dimension vectors using a
// TF-IDF weighting fit once over the static notice corpus. The fitted state
// is immutable, so a single instance is shared across concurrent requests
// without locking.
package vectorizer

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// TFIDF is a frozen TF-IDF vectorizer. Construct with Fit; all methods are
// read-only afterwards.
type TFIDF struct {
	vocabulary map[string]int
	idf        []float64
	dim        int
}

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\d+`)

// ErrEmptyCorpus is returned when Fit receives no usable documents.
var ErrEmptyCorpus = errors.New("empty corpus for tf-idf fit")

// Fit builds the vocabulary and smoothed IDF weights from the corpus.
// The vocabulary ordering is the sorted term list, so identical corpora
// always produce identical vectorizers.
func Fit(corpus []string) (*TFIDF, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, ErrEmptyCorpus
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v := &TFIDF{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
		dim:        len(terms),
	}
	n := float64(len(corpus))
	for i, term := range terms {
		v.vocabulary[term] = i
		// Smoothed IDF, never zero for in-vocabulary terms.
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return v, nil
}

// Dim returns the fixed output dimension (vocabulary size).
func (v *TFIDF) Dim() int { return v.dim }

// Vectorize computes the L2-normalized TF-IDF vector for text. Deterministic
// for identical input. Out-of-vocabulary terms contribute zero weight; text
// with no in-vocabulary terms yields the zero vector.
func (v *TFIDF) Vectorize(text string) []float32 {
	vec := make([]float32, v.dim)

	tf := make(map[int]int)
	total := 0
	for _, tok := range tokenize(text) {
		if idx, ok := v.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}

	var norm float64
	for idx, count := range tf {
		w := float64(count) / float64(total) * v.idf[idx]
		vec[idx] = float32(w)
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for idx := range tf {
			vec[idx] = float32(float64(vec[idx]) / norm)
		}
	}
	return vec
}

func tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := tokenPattern.FindAllString(lower, -1)
	out := raw[:0]
	for _, t := range raw {
		if _, stop := stopwords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// English plus the handful of Norwegian function words that dominate the
// Doffin dataset.
var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "this", "that", "these",
		"those", "from", "up", "down", "over", "under", "than", "so",
		"such", "into", "about", "between", "through", "during", "before",
		"after", "above", "below", "out", "off", "own", "same", "too",
		"very", "can", "will", "shall", "must", "just", "not", "no",
		"og", "i", "på", "for", "av", "til", "med", "som", "er", "det",
		"en", "et", "den", "de", "skal", "om",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
