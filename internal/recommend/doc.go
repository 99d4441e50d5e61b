// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package recommend ranks catalog movies and assembles enriched results.
//
// # Architecture
//
// A Recommender is an immutable context built once at startup from:
//
//   - a *catalog.Catalog holding the cleaned movie records
//   - an *index.Index holding the TF-IDF row vectors, aligned with the catalog
//   - an Enricher resolving posters and trailers (normally *enrich.Pipeline)
//
// # Ranking Modes
//
//   - RankByTitle: cosine similarity of the raw title text against every row,
//     a k+1 window, optional location narrowing, the query title pinned first
//   - AutoCandidates: the first k rows, optionally restricted to a country
//   - FilterCandidates: genre substring or exact country match
//   - YearCandidates: exact release year
//
// The list flows built on the last three drop entries without a poster
// (unless Config.IncludeUnenriched) and sort by score, best first. Ties keep
// candidate order.
//
// # Usage
//
//	rec, err := recommend.New(cat, ix, pipeline, recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	movies, err := rec.RecommendationsWithTrailer(ctx, "Avatar", "", 12)
//
// # Thread Safety
//
// Nothing is written after New returns, so all methods may be called
// concurrently without locking.
package recommend
