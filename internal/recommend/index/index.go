// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package index is the TF-IDF similarity index over the catalog's combined
// feature text. Row i of an Index is catalog record i.
package index

import (
	"cmp"
	"context"
	"slices"
)

// checkEvery is how many rows are scored between context checks.
const checkEvery = 512

// Scored is a row with its cosine similarity to a query.
type Scored struct {
	Row   int     `json:"row"`
	Score float64 `json:"score"`
}

// Index pairs a fitted Vectorizer with the vectorised corpus.
type Index struct {
	vec   *Vectorizer
	rows  []Vector
	norms []float64
}

// Build vectorises corpus with a fitted vectorizer.
func Build(ctx context.Context, vec *Vectorizer, corpus []string) (*Index, error) {
	if vec == nil || !vec.IsFitted() {
		return nil, ErrNotReady
	}
	ix := &Index{
		vec:   vec,
		rows:  make([]Vector, len(corpus)),
		norms: make([]float64, len(corpus)),
	}
	for i, doc := range corpus {
		if i%checkEvery == 0 && contextCancelled(ctx) {
			return nil, ctx.Err()
		}
		row, err := vec.Transform(doc)
		if err != nil {
			return nil, err
		}
		ix.rows[i] = row
		ix.norms[i] = row.Norm()
	}
	return ix, nil
}

// Ready reports whether the index can answer queries.
func (ix *Index) Ready() bool {
	return ix != nil && ix.vec != nil && ix.vec.IsFitted()
}

// Len returns the number of rows.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.rows)
}

// Vectorizer returns the fitted vectorizer behind the index.
func (ix *Index) Vectorizer() *Vectorizer {
	if ix == nil {
		return nil
	}
	return ix.vec
}

// Query projects free text into the index's term space.
func (ix *Index) Query(text string) (Vector, error) {
	if !ix.Ready() {
		return Vector{}, ErrNotReady
	}
	return ix.vec.Transform(text)
}

// Similarity scores v against every row for which keep returns true, in row
// order. A nil keep admits every row; a zero vector scores 0 against
// everything. Cancellation of ctx aborts the scan.
func (ix *Index) Similarity(ctx context.Context, v Vector, keep func(row int) bool) ([]Scored, error) {
	if !ix.Ready() {
		return nil, ErrNotReady
	}
	qn := v.Norm()
	scored := make([]Scored, 0, len(ix.rows))
	for i := range ix.rows {
		if i%checkEvery == 0 && contextCancelled(ctx) {
			return nil, ctx.Err()
		}
		if keep != nil && !keep(i) {
			continue
		}
		scored = append(scored, Scored{Row: i, Score: ix.cosine(v, qn, i)})
	}
	return scored, nil
}

// TopN returns the n rows most similar to v, highest first. Ties keep row
// order.
func (ix *Index) TopN(ctx context.Context, v Vector, n int) ([]Scored, error) {
	return ix.TopNWhere(ctx, v, n, nil)
}

// TopNWhere is TopN restricted to rows for which keep returns true. A nil
// keep admits every row.
func (ix *Index) TopNWhere(ctx context.Context, v Vector, n int, keep func(row int) bool) ([]Scored, error) {
	if !ix.Ready() {
		return nil, ErrNotReady
	}
	if n <= 0 {
		return []Scored{}, nil
	}

	scored, err := ix.Similarity(ctx, v, keep)
	if err != nil {
		return nil, err
	}
	SortByScore(scored)
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored, nil
}

// SortByScore orders s by descending score, keeping the existing order of
// equal scores.
func SortByScore(s []Scored) {
	slices.SortStableFunc(s, func(a, b Scored) int {
		return cmp.Compare(b.Score, a.Score)
	})
}

func (ix *Index) cosine(q Vector, qn float64, row int) float64 {
	rn := ix.norms[row]
	if qn == 0 || rn == 0 {
		return 0
	}
	return q.Dot(ix.rows[row]) / (qn * rn)
}

func contextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
