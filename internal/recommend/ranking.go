// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"cmp"
	"context"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/tomtom215/marquee/internal/recommend/index"
)

// RankByTitle returns up to k catalog rows most similar to title. The raw
// title text is the query, so the title need not exist in the catalog.
//
// The k+1 most similar rows form the candidate window (ties keep catalog
// order). A non-empty location narrows the window to rows in that country,
// or, with LocationFilterFirst, narrows the catalog before the window is
// taken. A candidate whose title equals the query is pinned first; up to
// k-1 other candidates follow, stably sorted by score descending.
func (r *Recommender) RankByTitle(ctx context.Context, title, location string, k int) ([]int, error) {
	k = r.cfg.resolveK(k, r.cfg.DefaultK)

	q, err := r.index.Query(title)
	if err != nil {
		return nil, err
	}

	var window []index.Scored
	location = strings.TrimSpace(location)
	switch {
	case location != "" && r.cfg.LocationFilterFirst:
		window, err = r.index.TopNWhere(ctx, q, k+1, func(row int) bool {
			return r.catalog.At(row).InCountry(location)
		})
	default:
		window, err = r.index.TopN(ctx, q, k+1)
		if err == nil && location != "" {
			window = slices.DeleteFunc(window, func(s index.Scored) bool {
				return !r.catalog.At(s.Row).InCountry(location)
			})
		}
	}
	if err != nil {
		return nil, err
	}

	pinned := -1
	rest := make([]int, 0, len(window))
	for _, s := range window {
		if r.catalog.At(s.Row).Title == title {
			if pinned < 0 {
				pinned = s.Row
			}
			continue
		}
		if len(rest) < k-1 {
			rest = append(rest, s.Row)
		}
	}

	r.sortRowsByScore(rest)
	if pinned < 0 {
		return rest, nil
	}
	return append([]int{pinned}, rest...), nil
}

// AutoCandidates returns the first k rows in catalog order, restricted to
// location when it is non-empty. No similarity scoring is involved.
func (r *Recommender) AutoCandidates(location string, k int) []int {
	k = r.cfg.resolveK(k, r.cfg.DefaultK)
	location = strings.TrimSpace(location)
	if location == "" {
		return r.firstRows(k, nil)
	}
	return r.firstRows(k, func(row int) bool {
		return r.catalog.At(row).InCountry(location)
	})
}

// FilterCandidates returns the first k rows matching the filter. "genre"
// matches a case-insensitive substring of the genre field; "country"
// matches the whole country field ignoring case. Any other filter type
// yields no rows.
func (r *Recommender) FilterCandidates(filterType, value string, k int) []int {
	k = r.cfg.resolveK(k, r.cfg.FilterK)
	switch filterType {
	case FilterGenre:
		return r.firstRows(k, func(row int) bool {
			return r.catalog.At(row).HasGenre(value)
		})
	case FilterCountry:
		return r.firstRows(k, func(row int) bool {
			return r.catalog.At(row).InCountry(value)
		})
	default:
		return []int{}
	}
}

// YearCandidates returns the first k rows released in year, which must be
// an integer.
func (r *Recommender) YearCandidates(year string, k int) ([]int, error) {
	y, err := ParseYear(year)
	if err != nil {
		return nil, err
	}
	k = r.cfg.resolveK(k, r.cfg.FilterK)
	return r.firstRows(k, func(row int) bool {
		rec := r.catalog.At(row)
		return rec.HasYear && rec.Year == y
	}), nil
}

// ParseYear parses a release year, returning *InvalidArgumentError when year
// is not an integer.
func ParseYear(year string) (int, error) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return 0, &InvalidArgumentError{Param: "year", Value: year, Err: err}
	}
	return y, nil
}

func (r *Recommender) firstRows(k int, keep func(row int) bool) []int {
	out := make([]int, 0, min(k, r.catalog.Len()))
	for row := 0; row < r.catalog.Len() && len(out) < k; row++ {
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	return out
}

// sortRowsByScore orders rows by catalog score descending. Rows without a
// score go last; equal scores keep their relative order.
func (r *Recommender) sortRowsByScore(rows []int) {
	slices.SortStableFunc(rows, func(a, b int) int {
		return cmp.Compare(r.scoreKey(b), r.scoreKey(a))
	})
}

func (r *Recommender) scoreKey(row int) float64 {
	rec := r.catalog.At(row)
	if !rec.HasScore {
		return math.Inf(-1)
	}
	return rec.Score
}

// sortByScore orders recommendations by score descending, stably, with
// unscored entries last.
func sortByScore(recs []EnrichedRecommendation) {
	key := func(e EnrichedRecommendation) float64 {
		if !e.hasScore {
			return math.Inf(-1)
		}
		return e.Score
	}
	slices.SortStableFunc(recs, func(a, b EnrichedRecommendation) int {
		return cmp.Compare(key(b), key(a))
	})
}
