// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"strings"
)

// Column names the catalog requires in the CSV header.
const (
	ColTitle        = "movie_title"
	ColDirector     = "director_name"
	ColActor1       = "actor_1_name"
	ColActor2       = "actor_2_name"
	ColActor3       = "actor_3_name"
	ColGenres       = "genres"
	ColCountry      = "country"
	ColPlotKeywords = "plot_keywords"
	ColYear         = "title_year"
	ColScore        = "imdb_score"
	ColIMDbLink     = "movie_imdb_link"
	ColDuration     = "duration"
)

// RequiredColumns is the retained projection, in order.
var RequiredColumns = []string{
	ColTitle, ColDirector, ColActor1, ColActor2, ColActor3, ColGenres,
	ColCountry, ColPlotKeywords, ColYear, ColScore, ColIMDbLink, ColDuration,
}

// MovieRecord is one cleaned catalog row. Empty strings mean the cell was
// missing; numeric fields carry an explicit presence flag.
type MovieRecord struct {
	Title        string    `json:"movie_title"`
	Director     string    `json:"director_name,omitempty"`
	Actors       [3]string `json:"actors"`
	Genres       string    `json:"genres,omitempty"`
	Country      string    `json:"country,omitempty"`
	PlotKeywords string    `json:"plot_keywords"`
	Year         int       `json:"title_year,omitempty"`
	Score        float64   `json:"imdb_score"`
	IMDbLink     string    `json:"movie_imdb_link,omitempty"`
	Duration     int       `json:"duration,omitempty"` // minutes

	HasYear     bool `json:"-"`
	HasScore    bool `json:"-"`
	HasDuration bool `json:"-"`

	// CombinedFeatures is the text the similarity index is fitted on.
	CombinedFeatures string `json:"-"`
}

// InCountry reports whether the record's country equals country, ignoring case.
// A record without a country never matches.
func (r *MovieRecord) InCountry(country string) bool {
	return r.Country != "" && strings.EqualFold(r.Country, strings.TrimSpace(country))
}

// HasGenre reports whether the genre field contains term, ignoring case.
func (r *MovieRecord) HasGenre(term string) bool {
	if r.Genres == "" {
		return false
	}
	return strings.Contains(strings.ToLower(r.Genres), strings.ToLower(term))
}
