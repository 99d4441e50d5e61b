// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package main is the entry point for the Marquee server.

Marquee recommends movies by content similarity: every catalog row is turned
into a bag of words (director, actors, genres, keywords, language, country,
title), weighted with TF-IDF and compared by cosine similarity. Results are
enriched with OMDb posters and YouTube trailer ids.

# Startup

  1. Configuration (koanf: defaults, config.yaml, environment)
  2. Catalog load and cleaning (CATALOG_PATH)
  3. Similarity index: reuse the persisted vocabulary at MODEL_PATH when its
     corpus fingerprint matches, fit and save otherwise
  4. Enrichment clients, wrapped in the in-memory and optional badger cache
  5. Geolocation resolver (GEO_ENABLED)
  6. Supervisor tree:

	RootSupervisor ("marquee")
	├── DataSupervisor ("data-layer")
	│   ├── uptime
	│   └── cache-maintenance (if ENRICH_CACHE_PATH is set)
	└── APISupervisor ("api-layer")
	    └── http-server

/health/ready reports 503 until the HTTP server is listening and again once
shutdown starts.

# Example

	export CATALOG_PATH=./data/movie_metadata.csv
	export OMDB_API_KEY=...
	export YOUTUBE_API_KEY=...
	./marquee

SIGINT and SIGTERM stop the tree; in-flight requests get SHUTDOWN_TIMEOUT
to finish.
*/
package main
