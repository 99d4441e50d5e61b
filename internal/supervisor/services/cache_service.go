// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/metrics"
)

// PersistentCache is the maintenance surface of the badger-backed lookup
// cache. *cache.BadgerStore implements it.
type PersistentCache interface {
	RunGC(discardRatio float64) error
	Count(prefix string) (int, error)
}

// CacheMaintenanceConfig controls CacheMaintenanceService.
type CacheMaintenanceConfig struct {
	// Interval between GC passes. Default: 10m
	Interval time.Duration
	// DiscardRatio is passed to badger's value log GC. Default: 0.5
	DiscardRatio float64
	// Prefixes are the key namespaces whose sizes are published as
	// cache_entries{cache_type="<prefix>_persistent"}.
	Prefixes []string
}

// CacheMaintenanceService reclaims value-log space in the persistent lookup
// cache and publishes its size.
type CacheMaintenanceService struct {
	store  PersistentCache
	config CacheMaintenanceConfig
	logger zerolog.Logger
	name   string
}

// NewCacheMaintenanceService creates the service.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewCacheMaintenanceService(store PersistentCache, cfg CacheMaintenanceConfig, logger zerolog.Logger) *CacheMaintenanceService {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.DiscardRatio <= 0 || cfg.DiscardRatio >= 1 {
		cfg.DiscardRatio = 0.5
	}
	return &CacheMaintenanceService{
		store:  store,
		config: cfg,
		logger: logger.With().Str("service", "cache-maintenance").Logger(),
		name:   "cache-maintenance",
	}
}

// Serve implements suture.Service.
func (s *CacheMaintenanceService) Serve(ctx context.Context) error {
	s.logger.Debug().Dur("interval", s.config.Interval).Msg("cache maintenance starting")
	s.reportSizes()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *CacheMaintenanceService) runOnce() {
	start := time.Now()
	if err := s.store.RunGC(s.config.DiscardRatio); err != nil {
		s.logger.Warn().Err(err).Msg("value log GC failed")
	} else {
		s.logger.Debug().Dur("duration", time.Since(start)).Msg("value log GC complete")
	}
	s.reportSizes()
}

func (s *CacheMaintenanceService) reportSizes() {
	for _, prefix := range s.config.Prefixes {
		n, err := s.store.Count(prefix + ":")
		if err != nil {
			s.logger.Warn().Err(err).Str("prefix", prefix).Msg("count cache entries failed")
			continue
		}
		metrics.CacheSize.WithLabelValues(prefix + "_persistent").Set(float64(n))
	}
}

// String implements fmt.Stringer for suture's logs.
func (s *CacheMaintenanceService) String() string {
	return s.name
}
