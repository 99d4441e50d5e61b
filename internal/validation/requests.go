// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package validation

// MaxK bounds the k parameter before the recommender clamps it to its own
// configured maximum.
const MaxK = 1000

// RecommendRequest binds /api/v1/recommendations.
type RecommendRequest struct {
	Title    string `query:"title" validate:"required,notblank,max=300"`
	Location string `query:"location" validate:"max=100"`
	K        int    `query:"k" validate:"min=0,max=1000"`
}

// AutoRequest binds /api/v1/recommendations/auto.
type AutoRequest struct {
	Location string `query:"location" validate:"max=100"`
	K        int    `query:"k" validate:"min=0,max=1000"`
}

// FilterRequest binds /api/v1/recommendations/filtered. Unknown filter types
// are not rejected here; they yield an empty result.
type FilterRequest struct {
	FilterType  string `query:"filterType" validate:"required,max=32"`
	FilterValue string `query:"filterValue" validate:"required,notblank,max=100"`
	K           int    `query:"k" validate:"min=0,max=1000"`
}

// YearRequest binds /api/v1/recommendations/year. Year stays a string so the
// recommender owns integer parsing.
type YearRequest struct {
	Year string `query:"year" validate:"required,max=16"`
	K    int    `query:"k" validate:"min=0,max=1000"`
}

// DetailsRequest binds /api/v1/movies/details.
type DetailsRequest struct {
	Title string `query:"title" validate:"required,notblank,max=300"`
}

// AutocompleteRequest binds /api/v1/autocomplete.
type AutocompleteRequest struct {
	Term  string `query:"term" validate:"max=100"`
	Limit int    `query:"limit" validate:"min=0,max=100"`
}
