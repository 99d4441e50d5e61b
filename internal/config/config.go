// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package config loads Marquee's configuration.
//
// Values are layered with koanf: built-in defaults, then an optional YAML file
// (CONFIG_PATH or one of DefaultConfigPaths), then environment variables.
// Only the environment variables listed in envMappings are honoured.
package config

import (
	"time"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Index     IndexConfig     `koanf:"index"`
	Recommend RecommendConfig `koanf:"recommend"`
	Enrich    EnrichConfig    `koanf:"enrich"`
	Geo       GeoConfig       `koanf:"geo"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CatalogConfig points at the movie metadata CSV.
type CatalogConfig struct {
	Path string `koanf:"path"`
}

// IndexConfig controls the similarity index model file.
type IndexConfig struct {
	// ModelPath is where the fitted vocabulary is written. Empty disables persistence.
	ModelPath string `koanf:"model_path"`

	// ReuseModel loads ModelPath at startup when its corpus fingerprint matches
	// the loaded catalog, skipping the fit.
	ReuseModel bool `koanf:"reuse_model"`
}

// RecommendConfig holds ranking defaults and policies.
type RecommendConfig struct {
	DefaultK int `koanf:"default_k"` // title and location flows
	FilterK  int `koanf:"filter_k"`  // genre, country and year flows
	MaxK     int `koanf:"max_k"`

	// LocationFilterFirst restricts the catalog to the location before the
	// similarity top-k window is taken, instead of narrowing the window afterwards.
	LocationFilterFirst bool `koanf:"location_filter_first"`

	// IncludeUnenriched keeps records without a poster in list results.
	IncludeUnenriched bool `koanf:"include_unenriched"`

	// RequestTimeout bounds a whole recommendation request, enrichment included.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// EnrichConfig holds the poster/trailer lookup settings.
type EnrichConfig struct {
	Workers int           `koanf:"workers"`
	Timeout time.Duration `koanf:"timeout"` // per external call
	OMDb    OMDbConfig    `koanf:"omdb"`
	YouTube YouTubeConfig `koanf:"youtube"`
	Cache   CacheConfig   `koanf:"cache"`
}

// OMDbConfig configures the poster lookup.
type OMDbConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`

	// RateLimit is requests per second; 0 disables throttling.
	RateLimit float64 `koanf:"rate_limit"`
}

// YouTubeConfig configures the trailer search.
type YouTubeConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
}

// CacheConfig configures the lookup cache.
type CacheConfig struct {
	TTL         time.Duration `koanf:"ttl"`
	NegativeTTL time.Duration `koanf:"negative_ttl"`

	// Path enables the persistent badger tier when set.
	Path string `koanf:"path"`
}

// GeoConfig configures client geolocation.
type GeoConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Providers []string      `koanf:"providers"` // tried in order: ipapi.co, ip-api
	Timeout   time.Duration `koanf:"timeout"`

	// CountryAliases maps ISO country codes to catalog country names.
	CountryAliases map[string]string `koanf:"country_aliases"`
}

// SecurityConfig holds CORS and inbound rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Load reads configuration from defaults, file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
