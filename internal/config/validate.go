// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"time"
)

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
	maxEnrichWorkers     = 64
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

var validGeoProviders = map[string]bool{
	"ipapi.co": true,
	"ip-api":   true,
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateCatalog,
		c.validateRecommend,
		c.validateEnrich,
		c.validateGeo,
		c.validateSecurity,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("CATALOG_PATH is required")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.MaxK < 1 {
		return fmt.Errorf("RECOMMEND_MAX_K must be at least 1")
	}
	if r.DefaultK < 1 || r.DefaultK > r.MaxK {
		return fmt.Errorf("RECOMMEND_DEFAULT_K must be between 1 and RECOMMEND_MAX_K (%d)", r.MaxK)
	}
	if r.FilterK < 1 || r.FilterK > r.MaxK {
		return fmt.Errorf("RECOMMEND_FILTER_K must be between 1 and RECOMMEND_MAX_K (%d)", r.MaxK)
	}
	if r.RequestTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateEnrich() error {
	e := c.Enrich
	if e.Workers < 1 || e.Workers > maxEnrichWorkers {
		return fmt.Errorf("ENRICH_WORKERS must be between 1 and %d", maxEnrichWorkers)
	}
	if e.Timeout <= 0 {
		return fmt.Errorf("ENRICH_TIMEOUT must be positive")
	}
	if e.OMDb.BaseURL == "" {
		return fmt.Errorf("OMDB_BASE_URL is required")
	}
	if e.YouTube.BaseURL == "" {
		return fmt.Errorf("YOUTUBE_BASE_URL is required")
	}
	if e.OMDb.RateLimit < 0 {
		return fmt.Errorf("OMDB_RATE_LIMIT must not be negative")
	}
	if e.Cache.TTL < 0 || e.Cache.NegativeTTL < 0 {
		return fmt.Errorf("ENRICH_CACHE_TTL and ENRICH_CACHE_NEGATIVE_TTL must not be negative")
	}
	return nil
}

func (c *Config) validateGeo() error {
	if !c.Geo.Enabled {
		return nil
	}
	for _, p := range c.Geo.Providers {
		if !validGeoProviders[p] {
			return fmt.Errorf("GEO_PROVIDERS contains unknown provider %q (valid: ipapi.co, ip-api)", p)
		}
	}
	if c.Geo.Timeout <= 0 {
		return fmt.Errorf("GEO_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.IsProduction() && c.hasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS=* is not allowed in production; list explicit origins")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}
