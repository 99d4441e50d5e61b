// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/enrich"
)

// Filter types accepted by FilteredRecommendations.
const (
	FilterGenre   = "genre"
	FilterCountry = "country"
)

// Operation names used in logs and metrics.
const (
	OpAuto         = "auto"
	OpTitle        = "title"
	OpFilter       = "filter"
	OpYear         = "year"
	OpDetails      = "details"
	OpAutocomplete = "autocomplete"
)

// EnrichedRecommendation is one entry of a recommendation list.
type EnrichedRecommendation struct {
	Title     string  `json:"movie_title"`
	Poster    string  `json:"poster"`
	TrailerID string  `json:"trailer_id"`
	Score     float64 `json:"imdb_score"`

	// hasScore is false when the catalog row had no score; such entries
	// sort after every scored entry.
	hasScore bool
}

// HasScore reports whether the score came from the catalog.
func (r EnrichedRecommendation) HasScore() bool { return r.hasScore }

// DetailRecord is the formatted single-title view.
type DetailRecord struct {
	Title     string `json:"movie_title"`
	TopCast   string `json:"top_cast"`
	Director  string `json:"director"`
	Country   string `json:"country"`
	Genre     string `json:"genre"`
	Runtime   string `json:"runtime"`
	Score     string `json:"imdb_score"`
	Poster    string `json:"poster"`
	TrailerID string `json:"trailer_id"`
}

// Enricher resolves posters and trailers. *enrich.Pipeline implements it.
type Enricher interface {
	Enrich(ctx context.Context, rec *catalog.MovieRecord, mode enrich.Mode) enrich.Result
	EnrichAll(ctx context.Context, recs []*catalog.MovieRecord, mode enrich.Mode) []enrich.Result
}

var _ Enricher = (*enrich.Pipeline)(nil)
