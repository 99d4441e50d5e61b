// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package supervisor provides process supervision for Marquee using suture v4.

The tree has two layers so that failures are isolated:

	RootSupervisor ("marquee")
	├── DataSupervisor ("data-layer")
	│   ├── CacheMaintenanceService (if ENRICH_CACHE_PATH is set)
	│   └── UptimeService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

The catalog and the similarity index are loaded before the tree starts and
are read-only afterwards, so they are not supervised.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewUptimeService(version, start, 0))
	tree.AddAPIService(httpService)

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("supervisor stopped")
	}

# Failure Handling

Each failure increments a counter that decays over FailureDecay seconds.
Once it exceeds FailureThreshold the supervisor waits FailureBackoff before
the next restart. Services return nil to stop for good, an error to be
restarted, and ctx.Err() when shutdown is requested.

If a service ignores cancellation, UnstoppedServiceReport lists it after
ShutdownTimeout.
*/
package supervisor
