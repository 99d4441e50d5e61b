// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/enrich"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/recommend/index"
)

// Recommender answers recommendation queries over one catalog and its
// similarity index. It is built once at startup and never mutated, so it is
// safe for concurrent use.
type Recommender struct {
	catalog  *catalog.Catalog
	index    *index.Index
	enricher Enricher
	cfg      Config
	logger   zerolog.Logger
}

// New creates a Recommender. The index rows must line up with the catalog
// rows. A nil enricher leaves every poster and trailer empty.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cat *catalog.Catalog, ix *index.Index, enricher Enricher, cfg Config, logger zerolog.Logger) (*Recommender, error) {
	if cat == nil {
		return nil, errors.New("recommend: nil catalog")
	}
	if !ix.Ready() {
		return nil, ErrIndexNotReady
	}
	if ix.Len() != cat.Len() {
		return nil, fmt.Errorf("recommend: index has %d rows, catalog has %d", ix.Len(), cat.Len())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if enricher == nil {
		enricher = enrich.NewPipeline(nil, nil, enrich.Config{Logger: logger})
	}
	return &Recommender{
		catalog:  cat,
		index:    ix,
		enricher: enricher,
		cfg:      cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Config returns the ranking parameters.
func (r *Recommender) Config() Config { return r.cfg }

// Catalog returns the underlying catalog.
func (r *Recommender) Catalog() *catalog.Catalog { return r.catalog }

// AutoRecommendations recommends the first k movies for a location (or the
// whole catalog) that have a poster, best score first.
func (r *Recommender) AutoRecommendations(ctx context.Context, location string, k int) ([]EnrichedRecommendation, error) {
	start := time.Now()
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows := r.AutoCandidates(location, k)
	out := r.listFlow(ctx, OpAuto, rows)
	r.finish(ctx, OpAuto, start, len(out), nil)
	return out, nil
}

// RecommendationsWithTrailer ranks movies similar to title. Each entry gets
// a poster, or a trailer when no poster is found; entries are never dropped.
func (r *Recommender) RecommendationsWithTrailer(ctx context.Context, title, location string, k int) ([]EnrichedRecommendation, error) {
	start := time.Now()
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.RankByTitle(ctx, title, location, k)
	if err != nil {
		r.finish(ctx, OpTitle, start, 0, err)
		return nil, err
	}

	recs := r.records(rows)
	results := r.enricher.EnrichAll(ctx, recs, enrich.ModePosterElseTrailer)
	out := make([]EnrichedRecommendation, len(recs))
	for i, rec := range recs {
		out[i] = toRecommendation(rec, results[i])
	}
	r.finish(ctx, OpTitle, start, len(out), nil)
	return out, nil
}

// FilteredRecommendations recommends movies matching a genre or country
// filter. An unknown filter type gives an empty list.
func (r *Recommender) FilteredRecommendations(ctx context.Context, filterType, value string, k int) ([]EnrichedRecommendation, error) {
	start := time.Now()
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows := r.FilterCandidates(filterType, value, k)
	out := r.listFlow(ctx, OpFilter, rows)
	r.finish(ctx, OpFilter, start, len(out), nil)
	return out, nil
}

// FilteredRecommendationsByYear recommends movies released in year.
func (r *Recommender) FilteredRecommendationsByYear(ctx context.Context, year string, k int) ([]EnrichedRecommendation, error) {
	start := time.Now()
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.YearCandidates(year, k)
	if err != nil {
		r.finish(ctx, OpYear, start, 0, err)
		return nil, err
	}
	out := r.listFlow(ctx, OpYear, rows)
	r.finish(ctx, OpYear, start, len(out), nil)
	return out, nil
}

// Autocomplete returns every title containing term, ignoring case.
func (r *Recommender) Autocomplete(term string) []string {
	start := time.Now()
	out := r.catalog.Autocomplete(term)
	metrics.RecordRecommendation(OpAutocomplete, "ok", len(out), time.Since(start))
	return out
}

// listFlow enriches rows with both lookups, drops posterless entries unless
// IncludeUnenriched is set, and sorts by score.
func (r *Recommender) listFlow(ctx context.Context, op string, rows []int) []EnrichedRecommendation {
	recs := r.records(rows)
	results := r.enricher.EnrichAll(ctx, recs, enrich.ModePosterAndTrailer)

	out := make([]EnrichedRecommendation, 0, len(recs))
	dropped := 0
	for i, rec := range recs {
		if !results[i].HasPoster() && !r.cfg.IncludeUnenriched {
			dropped++
			continue
		}
		out = append(out, toRecommendation(rec, results[i]))
	}
	metrics.RecordUnenrichedDropped(op, dropped)

	sortByScore(out)
	return out
}

func (r *Recommender) records(rows []int) []*catalog.MovieRecord {
	recs := make([]*catalog.MovieRecord, len(rows))
	for i, row := range rows {
		recs[i] = r.catalog.At(row)
	}
	return recs
}

func toRecommendation(rec *catalog.MovieRecord, res enrich.Result) EnrichedRecommendation {
	return EnrichedRecommendation{
		Title:     rec.Title,
		Poster:    res.Poster,
		TrailerID: res.TrailerID,
		Score:     rec.Score,
		hasScore:  rec.HasScore,
	}
}

func (r *Recommender) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.RequestTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.cfg.RequestTimeout)
}

func (r *Recommender) finish(ctx context.Context, op string, start time.Time, n int, err error) {
	elapsed := time.Since(start)
	result := outcome(err)
	metrics.RecordRecommendation(op, result, n, elapsed)

	event := r.logger.Debug()
	if result == "error" || result == "not_ready" {
		event = r.logger.Error()
	}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		event = event.Str("request_id", id)
	}
	event.
		Str("operation", op).
		Str("outcome", result).
		Int("results", n).
		Dur("elapsed", elapsed).
		Err(err).
		Msg("recommendation complete")
}
