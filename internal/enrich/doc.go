// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package enrich attaches posters and trailers to catalog records.

Posters come from the OMDb API, keyed by the IMDb id taken from the record's
IMDb link. Trailers come from the YouTube Data API search endpoint, queried
with "<title> official trailer". Each client runs behind its own circuit
breaker and per-call timeout; OMDb calls are additionally throttled.

# Caching

CachedPosterLookup and CachedTrailerLookup put an in-memory TTL cache in
front of an optional BadgerDB store. Empty answers are cached with a
shorter negative TTL; errors are never cached.

# Pipeline

Pipeline.EnrichAll fans out over a bounded errgroup and returns one Result
per input record in input order. Lookup failures are recorded on the Result
and logged at debug level; they never fail the batch.
*/
package enrich
