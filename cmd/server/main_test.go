// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"testing"
	"time"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/recommend"
)

func TestRecommendConfig(t *testing.T) {
	def := recommend.DefaultConfig()

	tests := []struct {
		name string
		in   config.RecommendConfig
		want recommend.Config
	}{
		{
			name: "zero values keep defaults",
			in:   config.RecommendConfig{},
			want: def,
		},
		{
			name: "overrides",
			in: config.RecommendConfig{
				DefaultK:            5,
				FilterK:             7,
				MaxK:                50,
				RequestTimeout:      3 * time.Second,
				LocationFilterFirst: true,
				IncludeUnenriched:   true,
			},
			want: recommend.Config{
				DefaultK:            5,
				FilterK:             7,
				MaxK:                50,
				RequestTimeout:      3 * time.Second,
				LocationFilterFirst: true,
				IncludeUnenriched:   true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recommendConfig(&config.Config{Recommend: tt.in})
			if got != tt.want {
				t.Errorf("recommendConfig() = %+v, want %+v", got, tt.want)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestMiddlewareConfig(t *testing.T) {
	cfg := &config.Config{Security: config.SecurityConfig{
		CORSOrigins:       []string{"https://example.com"},
		RateLimitReqs:     10,
		RateLimitWindow:   time.Second,
		RateLimitDisabled: true,
	}}
	mc := middlewareConfig(cfg)
	if len(mc.CORSAllowedOrigins) != 1 || mc.CORSAllowedOrigins[0] != "https://example.com" {
		t.Errorf("CORSAllowedOrigins = %v", mc.CORSAllowedOrigins)
	}
	if mc.RateLimitRequests != 10 || mc.RateLimitWindow != time.Second || !mc.RateLimitDisabled {
		t.Errorf("rate limit = %d/%v disabled=%v", mc.RateLimitRequests, mc.RateLimitWindow, mc.RateLimitDisabled)
	}

	mc = middlewareConfig(&config.Config{})
	if mc.RateLimitRequests != 100 || mc.RateLimitWindow != time.Minute {
		t.Errorf("defaults = %d/%v, want 100/1m", mc.RateLimitRequests, mc.RateLimitWindow)
	}
}

func TestNewLocator_Disabled(t *testing.T) {
	loc, err := newLocator(&config.Config{})
	if err != nil {
		t.Fatalf("newLocator() error = %v", err)
	}
	if loc != nil {
		t.Error("newLocator() should return nil when disabled")
	}
}

func TestNewEnrichment_NoKeys(t *testing.T) {
	e, err := newEnrichment(&config.Config{})
	if err != nil {
		t.Fatalf("newEnrichment() error = %v", err)
	}
	defer e.Close()
	if e.pipeline == nil {
		t.Fatal("pipeline is nil")
	}
	if e.posters != nil || e.trailers != nil || e.store != nil {
		t.Error("no lookups or store expected without keys or cache path")
	}
}
