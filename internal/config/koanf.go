// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/marquee/config.yaml",
	"/etc/marquee/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Catalog: CatalogConfig{
			Path: "movie_metadata.csv",
		},
		Index: IndexConfig{
			ModelPath:  "content_based_vectorizer.json",
			ReuseModel: true,
		},
		Recommend: RecommendConfig{
			DefaultK:       12,
			FilterK:        24,
			MaxK:           100,
			RequestTimeout: 20 * time.Second,
		},
		Enrich: EnrichConfig{
			Workers: 8,
			Timeout: 5 * time.Second,
			OMDb: OMDbConfig{
				BaseURL: "http://www.omdbapi.com",
			},
			YouTube: YouTubeConfig{
				BaseURL: "https://www.googleapis.com/youtube/v3",
			},
			Cache: CacheConfig{
				TTL:         24 * time.Hour,
				NegativeTTL: time.Hour,
			},
		},
		Geo: GeoConfig{
			Enabled:   true,
			Providers: []string{"ipapi.co", "ip-api"},
			Timeout:   3 * time.Second,
			CountryAliases: map[string]string{
				"US": "USA",
				"GB": "UK",
			},
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
	}
}

// LoadWithKoanf loads configuration with precedence env > file > defaults,
// then validates it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"geo.providers",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"catalog_path": "catalog.path",

	"model_path":        "index.model_path",
	"index_reuse_model": "index.reuse_model",

	"recommend_default_k":             "recommend.default_k",
	"recommend_filter_k":              "recommend.filter_k",
	"recommend_max_k":                 "recommend.max_k",
	"recommend_location_filter_first": "recommend.location_filter_first",
	"recommend_include_unenriched":    "recommend.include_unenriched",
	"recommend_request_timeout":       "recommend.request_timeout",

	"enrich_workers":            "enrich.workers",
	"enrich_timeout":            "enrich.timeout",
	"omdb_api_key":              "enrich.omdb.api_key",
	"omdb_base_url":             "enrich.omdb.base_url",
	"omdb_rate_limit":           "enrich.omdb.rate_limit",
	"youtube_api_key":           "enrich.youtube.api_key",
	"youtube_base_url":          "enrich.youtube.base_url",
	"enrich_cache_ttl":          "enrich.cache.ttl",
	"enrich_cache_negative_ttl": "enrich.cache.negative_ttl",
	"enrich_cache_path":         "enrich.cache.path",

	"geo_enabled":   "geo.enabled",
	"geo_providers": "geo.providers",
	"geo_timeout":   "geo.timeout",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"rate_limit_disabled": "security.rate_limit_disabled",
}

// envTransformFunc maps an environment variable name to its config path.
// Unmapped variables return "" and are skipped.
//
//	HTTP_PORT     -> server.port
//	OMDB_API_KEY  -> enrich.omdb.api_key
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
