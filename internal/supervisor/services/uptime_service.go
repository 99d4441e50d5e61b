// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"runtime"
	"time"

	"github.com/tomtom215/marquee/internal/metrics"
)

// UptimeService publishes app_info once and app_uptime_seconds every
// interval.
type UptimeService struct {
	version  string
	started  time.Time
	interval time.Duration
}

// NewUptimeService creates the service. interval <= 0 uses 15s.
func NewUptimeService(version string, started time.Time, interval time.Duration) *UptimeService {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &UptimeService{version: version, started: started, interval: interval}
}

// Serve implements suture.Service.
func (s *UptimeService) Serve(ctx context.Context) error {
	metrics.AppInfo.WithLabelValues(s.version, runtime.Version()).Set(1)
	metrics.AppUptime.Set(time.Since(s.started).Seconds())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			metrics.AppUptime.Set(time.Since(s.started).Seconds())
		}
	}
}

func (s *UptimeService) String() string { return "uptime" }
