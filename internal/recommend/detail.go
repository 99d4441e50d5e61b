// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/enrich"
)

// FullDetails assembles the detail view of the first movie titled exactly
// title. It fails with *DetailAssemblyError when the title is unknown or a
// required field is missing.
func (r *Recommender) FullDetails(ctx context.Context, title string) (*DetailRecord, error) {
	start := time.Now()
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, rec, ok := r.catalog.Lookup(title)
	if !ok {
		err := &DetailAssemblyError{Title: title}
		r.finish(ctx, OpDetails, start, 0, err)
		return nil, err
	}

	d, err := assembleDetails(rec)
	if err != nil {
		r.finish(ctx, OpDetails, start, 0, err)
		return nil, err
	}

	res := r.enricher.Enrich(ctx, rec, enrich.ModePosterAndTrailer)
	d.Poster = res.Poster
	d.TrailerID = res.TrailerID

	r.finish(ctx, OpDetails, start, 1, nil)
	return d, nil
}

func assembleDetails(rec *catalog.MovieRecord) (*DetailRecord, error) {
	missing := func(field string) error {
		return &DetailAssemblyError{Title: rec.Title, Field: field}
	}
	for i, actor := range rec.Actors {
		if actor == "" {
			return nil, missing(fmt.Sprintf("actor_%d_name", i+1))
		}
	}
	switch {
	case rec.Director == "":
		return nil, missing(catalog.ColDirector)
	case rec.Country == "":
		return nil, missing(catalog.ColCountry)
	case rec.Genres == "":
		return nil, missing(catalog.ColGenres)
	case !rec.HasDuration:
		return nil, missing(catalog.ColDuration)
	case !rec.HasScore:
		return nil, missing(catalog.ColScore)
	}

	return &DetailRecord{
		Title:    rec.Title,
		TopCast:  "Top Cast: " + strings.Join(rec.Actors[:], ", "),
		Director: "Director: " + rec.Director,
		Country:  "Country: " + rec.Country,
		Genre:    "Genre: " + rec.Genres,
		Runtime:  FormatRuntime(rec.Duration),
		Score:    "IMDB Score: " + FormatScore(rec.Score),
	}, nil
}

// FormatRuntime renders minutes as "Runtime: H hr M min".
func FormatRuntime(minutes int) string {
	return fmt.Sprintf("Runtime: %d hr %d min", minutes/60, minutes%60)
}

// FormatScore renders a score with at least one decimal place, so 8 is
// "8.0" and 7.9 stays "7.9".
func FormatScore(score float64) string {
	s := strconv.FormatFloat(score, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
