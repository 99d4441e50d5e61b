// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package index

import (
	"errors"
	"math"
	"slices"
	"sync"
	"time"
)

var (
	// ErrNotReady is returned when the vectorizer or index is used before it
	// has been fitted.
	ErrNotReady = errors.New("index: not ready")

	// ErrEmptyVocabulary is returned by Fit when no document yields a single
	// term, for example when every token is a stop word.
	ErrEmptyVocabulary = errors.New("index: empty vocabulary")
)

// VectorizerConfig controls tokenisation.
type VectorizerConfig struct {
	// KeepStopWords disables English stop-word removal.
	KeepStopWords bool
}

// Vector is a sparse row. Indices are strictly increasing term ids.
type Vector struct {
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

// Len returns the number of non-zero entries.
func (v Vector) Len() int { return len(v.Indices) }

// Norm returns the Euclidean norm.
func (v Vector) Norm() float64 {
	var s float64
	for _, x := range v.Values {
		s += x * x
	}
	return math.Sqrt(s)
}

// Dot returns the inner product of two sparse vectors.
func (v Vector) Dot(o Vector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			dot += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

// Vectorizer is a TF-IDF term-weighting model: smoothed idf
// ln((1+n)/(1+df))+1, raw term counts and L2-normalised rows.
//
// Fit takes an exclusive lock; Transform takes a shared lock, so a fitted
// Vectorizer is safe for concurrent use.
type Vectorizer struct {
	cfg VectorizerConfig

	mu       sync.RWMutex
	vocab    map[string]int
	terms    []string
	idf      []float64
	fitted   bool
	version  int
	fittedAt time.Time
	docs     int
}

// NewVectorizer creates an unfitted vectorizer.
func NewVectorizer(cfg VectorizerConfig) *Vectorizer {
	return &Vectorizer{cfg: cfg}
}

// Fit learns the vocabulary and idf weights from corpus.
func (v *Vectorizer) Fit(corpus []string) error {
	df := make(map[string]int)
	seen := make(map[string]struct{})
	for _, doc := range corpus {
		clear(seen)
		for _, tok := range v.analyze(doc) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	slices.Sort(terms)

	n := float64(len(corpus))
	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, t := range terms {
		vocab[t] = i
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.vocab = vocab
	v.terms = terms
	v.idf = idf
	v.docs = len(corpus)
	v.markFitted()
	return nil
}

// FitTransform fits the vectorizer and returns one row per document.
func (v *Vectorizer) FitTransform(corpus []string) ([]Vector, error) {
	if err := v.Fit(corpus); err != nil {
		return nil, err
	}
	rows := make([]Vector, len(corpus))
	for i, doc := range corpus {
		row, err := v.Transform(doc)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	return rows, nil
}

// Transform projects text into the fitted term space. Unknown terms are
// ignored, so the result may be the zero vector.
func (v *Vectorizer) Transform(text string) (Vector, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.fitted {
		return Vector{}, ErrNotReady
	}

	counts := make(map[int]float64)
	for _, tok := range v.analyze(text) {
		if id, ok := v.vocab[tok]; ok {
			counts[id]++
		}
	}

	out := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for id := range counts {
		out.Indices = append(out.Indices, id)
	}
	slices.Sort(out.Indices)

	var sum float64
	for _, id := range out.Indices {
		w := counts[id] * v.idf[id]
		out.Values = append(out.Values, w)
		sum += w * w
	}
	if sum > 0 {
		norm := math.Sqrt(sum)
		for i := range out.Values {
			out.Values[i] /= norm
		}
	}
	return out, nil
}

// analyze tokenises text and applies the stop-word policy.
func (v *Vectorizer) analyze(text string) []string {
	toks := Tokenize(text)
	if v.cfg.KeepStopWords {
		return toks
	}
	kept := toks[:0]
	for _, t := range toks {
		if !IsStopWord(t) {
			kept = append(kept, t)
		}
	}
	return kept
}

// markFitted must be called with mu held.
func (v *Vectorizer) markFitted() {
	v.fitted = true
	v.version++
	v.fittedAt = time.Now()
}

// IsFitted reports whether Fit has completed.
func (v *Vectorizer) IsFitted() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.fitted
}

// VocabularySize returns the number of terms.
func (v *Vectorizer) VocabularySize() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.terms)
}

// Version increments on every fit.
func (v *Vectorizer) Version() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.version
}

// FittedAt returns when the vectorizer was last fitted.
func (v *Vectorizer) FittedAt() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.fittedAt
}
