// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"fmt"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/geo"
	"github.com/tomtom215/marquee/internal/logging"
)

// newLocator returns nil when geolocation is disabled.
func newLocator(cfg *config.Config) (*geo.Resolver, error) {
	if !cfg.Geo.Enabled {
		logging.Info().Msg("Geolocation disabled (GEO_ENABLED=false)")
		return nil, nil
	}
	providers, err := geo.NewProviders(cfg.Geo.Providers, cfg.Geo.Timeout)
	if err != nil {
		return nil, fmt.Errorf("geolocation providers: %w", err)
	}
	return geo.NewResolver(geo.ResolverConfig{
		Timeout:        cfg.Geo.Timeout,
		CountryAliases: cfg.Geo.CountryAliases,
		Logger:         logging.Logger(),
	}, providers...), nil
}
