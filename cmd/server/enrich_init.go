// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/enrich"
	"github.com/tomtom215/marquee/internal/logging"
)

// enrichment owns the lookup clients, their caches and the optional badger
// store behind them.
type enrichment struct {
	pipeline *enrich.Pipeline
	posters  *enrich.CachedPosterLookup
	trailers *enrich.CachedTrailerLookup
	store    *cache.BadgerStore
}

func newEnrichment(cfg *config.Config) (*enrichment, error) {
	e := &enrichment{}
	logger := logging.Logger()

	if cfg.Enrich.Cache.Path != "" {
		store, err := cache.OpenBadgerStore(cfg.Enrich.Cache.Path)
		if err != nil {
			return nil, err
		}
		e.store = store
		logging.Info().Str("path", cfg.Enrich.Cache.Path).Msg("Persistent lookup cache opened")
	}

	cacheOpts := enrich.CacheOptions{
		TTL:         cfg.Enrich.Cache.TTL,
		NegativeTTL: cfg.Enrich.Cache.NegativeTTL,
		Store:       e.store,
		Logger:      logger,
	}

	if cfg.Enrich.OMDb.APIKey != "" {
		omdb := enrich.NewOMDbClient(enrich.OMDbConfig{
			BaseURL:   cfg.Enrich.OMDb.BaseURL,
			APIKey:    cfg.Enrich.OMDb.APIKey,
			Timeout:   cfg.Enrich.Timeout,
			RateLimit: cfg.Enrich.OMDb.RateLimit,
		})
		e.posters = enrich.NewCachedPosterLookup(omdb, cacheOpts)
	} else {
		logging.Warn().Msg("OMDB_API_KEY not set, posters disabled")
	}

	if cfg.Enrich.YouTube.APIKey != "" {
		yt := enrich.NewYouTubeClient(enrich.YouTubeConfig{
			BaseURL: cfg.Enrich.YouTube.BaseURL,
			APIKey:  cfg.Enrich.YouTube.APIKey,
			Timeout: cfg.Enrich.Timeout,
		})
		e.trailers = enrich.NewCachedTrailerLookup(yt, cacheOpts)
	} else {
		logging.Warn().Msg("YOUTUBE_API_KEY not set, trailers disabled")
	}

	// Typed nils must not reach the pipeline as non-nil interfaces.
	var posters enrich.PosterLookup
	if e.posters != nil {
		posters = e.posters
	}
	var trailers enrich.TrailerLookup
	if e.trailers != nil {
		trailers = e.trailers
	}
	e.pipeline = enrich.NewPipeline(posters, trailers, enrich.Config{
		Workers: cfg.Enrich.Workers,
		Logger:  logger,
	})
	return e, nil
}

// Close releases the caches and flushes the badger store.
func (e *enrichment) Close() {
	if e.posters != nil {
		e.posters.Close()
	}
	if e.trailers != nil {
		e.trailers.Close()
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing lookup cache")
		}
	}
}
