// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package enrich

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/metrics"
)

// DefaultWorkers bounds concurrent record enrichment.
const DefaultWorkers = 8

// Mode selects which lookups run for a record.
type Mode int

const (
	// ModePosterElseTrailer looks up the poster and only searches for a
	// trailer when no poster was found.
	ModePosterElseTrailer Mode = iota
	// ModePosterAndTrailer runs both lookups.
	ModePosterAndTrailer
)

func (m Mode) String() string {
	switch m {
	case ModePosterElseTrailer:
		return "poster_else_trailer"
	case ModePosterAndTrailer:
		return "poster_and_trailer"
	default:
		return "unknown"
	}
}

// Result is the enrichment of one record. Lookup errors are reported, never
// returned, so one failing record does not affect the others.
type Result struct {
	Poster     string
	TrailerID  string
	PosterErr  error
	TrailerErr error
}

// HasPoster reports whether a poster was found.
func (r Result) HasPoster() bool { return r.Poster != "" }

// Config configures a Pipeline.
type Config struct {
	Workers int
	Logger  zerolog.Logger
}

// Pipeline attaches posters and trailers to catalog records.
type Pipeline struct {
	posters  PosterLookup
	trailers TrailerLookup
	workers  int
	logger   zerolog.Logger
}

// NewPipeline creates a pipeline. A nil lookup is skipped and leaves its
// field empty.
func NewPipeline(posters PosterLookup, trailers TrailerLookup, cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return &Pipeline{
		posters:  posters,
		trailers: trailers,
		workers:  cfg.Workers,
		logger:   cfg.Logger.With().Str("component", "enrich").Logger(),
	}
}

// Enrich looks up the media of one record.
func (p *Pipeline) Enrich(ctx context.Context, rec *catalog.MovieRecord, mode Mode) Result {
	metrics.EnrichInFlight.Inc()
	defer metrics.EnrichInFlight.Dec()

	var res Result
	if p.posters != nil {
		res.Poster, res.PosterErr = p.posters.Poster(ctx, rec.IMDbLink)
		if res.PosterErr != nil {
			p.logger.Debug().Err(res.PosterErr).Str("title", rec.Title).Msg("Poster lookup failed")
		}
	}

	if p.trailers != nil && (mode == ModePosterAndTrailer || res.Poster == "") {
		res.TrailerID, res.TrailerErr = p.trailers.Trailer(ctx, rec.Title)
		if res.TrailerErr != nil {
			p.logger.Debug().Err(res.TrailerErr).Str("title", rec.Title).Msg("Trailer lookup failed")
		}
	}
	return res
}

// EnrichAll enriches recs concurrently with at most Workers in flight.
// Results line up with recs.
func (p *Pipeline) EnrichAll(ctx context.Context, recs []*catalog.MovieRecord, mode Mode) []Result {
	out := make([]Result, len(recs))
	if len(recs) == 0 {
		return out
	}

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, rec := range recs {
		g.Go(func() error {
			out[i] = p.Enrich(ctx, rec, mode)
			return nil
		})
	}
	_ = g.Wait() // workers never fail; errors live in each Result
	return out
}
