// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"fmt"
	"time"
)

// Default result sizes.
const (
	DefaultTitleK  = 12 // rank-by-title and location flows
	DefaultFilterK = 24 // genre, country and year flows
	DefaultMaxK    = 100
)

// Config holds the ranking parameters.
type Config struct {
	// DefaultK is used by the title and location flows when k <= 0.
	// Default: 12.
	DefaultK int `json:"default_k"`

	// FilterK is used by the genre, country and year flows when k <= 0.
	// Default: 24.
	FilterK int `json:"filter_k"`

	// MaxK clamps any requested k.
	// Default: 100.
	MaxK int `json:"max_k"`

	// LocationFilterFirst restricts the catalog to the location before the
	// top k+1 similarity window is taken. When false the window is taken over
	// the whole catalog and then narrowed to the location.
	// Default: false.
	LocationFilterFirst bool `json:"location_filter_first"`

	// IncludeUnenriched keeps records without a poster in list results.
	// Default: false.
	IncludeUnenriched bool `json:"include_unenriched"`

	// RequestTimeout bounds one operation, enrichment included. Zero
	// disables the bound.
	// Default: 30s.
	RequestTimeout time.Duration `json:"request_timeout"`
}

// DefaultConfig returns the default ranking parameters.
func DefaultConfig() Config {
	return Config{
		DefaultK:       DefaultTitleK,
		FilterK:        DefaultFilterK,
		MaxK:           DefaultMaxK,
		RequestTimeout: 30 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.DefaultK < 1 {
		return fmt.Errorf("default_k must be positive, got %d", c.DefaultK)
	}
	if c.FilterK < 1 {
		return fmt.Errorf("filter_k must be positive, got %d", c.FilterK)
	}
	if c.MaxK < c.DefaultK || c.MaxK < c.FilterK {
		return fmt.Errorf("max_k must be >= default_k and filter_k, got %d", c.MaxK)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must be non-negative, got %v", c.RequestTimeout)
	}
	return nil
}

// resolveK applies the mode default to k <= 0 and clamps to MaxK.
func (c Config) resolveK(k, def int) int {
	if k <= 0 {
		k = def
	}
	if c.MaxK > 0 && k > c.MaxK {
		k = c.MaxK
	}
	return k
}
