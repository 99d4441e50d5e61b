// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/marquee/internal/api"
	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/recommend/index"
	"github.com/tomtom215/marquee/internal/supervisor"
	"github.com/tomtom215/marquee/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Marquee stopped with an error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // sequential startup
func run() error {
	started := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "marquee",
		Version:   version,
	})
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("catalog", cfg.Catalog.Path).
		Msg("Starting Marquee")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Catalog
	cat, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	stats := cat.Stats()
	metrics.SetCatalogStats(stats.Retained, stats.DroppedMissingKeywords, stats.DroppedDuplicates)
	logging.Info().
		Int("rows", stats.Rows).
		Int("retained", stats.Retained).
		Int("dropped_missing_keywords", stats.DroppedMissingKeywords).
		Int("dropped_duplicates", stats.DroppedDuplicates).
		Msg("Catalog loaded")

	// Similarity index
	indexStart := time.Now()
	opts := index.OpenOptions{
		Reuse:  cfg.Index.ReuseModel,
		Logger: logging.Logger(),
	}
	if cfg.Index.ModelPath != "" {
		opts.Store = index.NewFileModelStore(cfg.Index.ModelPath)
	}
	ix, reused, err := index.Open(ctx, cat.Corpus(), opts)
	if err != nil {
		return fmt.Errorf("build similarity index: %w", err)
	}
	metrics.SetIndexStats(ix.Vectorizer().VocabularySize(), time.Since(indexStart), reused)

	// Enrichment
	enr, err := newEnrichment(cfg)
	if err != nil {
		return err
	}
	defer enr.Close()

	rec, err := recommend.New(cat, ix, enr.pipeline, recommendConfig(cfg), logging.Logger())
	if err != nil {
		return fmt.Errorf("create recommender: %w", err)
	}

	// Geolocation
	locator, err := newLocator(cfg)
	if err != nil {
		return err
	}
	opt := api.HandlerOptions{Version: version, CatalogSize: cat.Len()}
	if locator != nil {
		defer locator.Close()
		opt.Locator = locator
	}

	handler := api.NewHandler(rec, opt)
	router := api.NewRouter(handler, middlewareConfig(cfg))
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// Supervisor tree
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddDataService(services.NewUptimeService(version, started, 0))
	if enr.store != nil {
		tree.AddDataService(services.NewCacheMaintenanceService(enr.store, services.CacheMaintenanceConfig{
			Prefixes: []string{"poster", "trailer"},
		}, logging.WithComponent("cache")))
	}

	httpService := services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout)
	httpService.SetReadiness(handler)
	tree.AddAPIService(httpService)
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// The tree returns exactly one result, after a signal or a fatal error.
	var runErr error
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		runErr = fmt.Errorf("supervisor tree: %w", err)
	}
	if ctx.Err() != nil {
		logging.Info().Msg("Received shutdown signal")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}
	return runErr
}

func recommendConfig(cfg *config.Config) recommend.Config {
	rc := recommend.DefaultConfig()
	if cfg.Recommend.DefaultK > 0 {
		rc.DefaultK = cfg.Recommend.DefaultK
	}
	if cfg.Recommend.FilterK > 0 {
		rc.FilterK = cfg.Recommend.FilterK
	}
	if cfg.Recommend.MaxK > 0 {
		rc.MaxK = cfg.Recommend.MaxK
	}
	if cfg.Recommend.RequestTimeout > 0 {
		rc.RequestTimeout = cfg.Recommend.RequestTimeout
	}
	rc.LocationFilterFirst = cfg.Recommend.LocationFilterFirst
	rc.IncludeUnenriched = cfg.Recommend.IncludeUnenriched
	return rc
}

func middlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mc := api.DefaultChiMiddlewareConfig()
	mc.CORSAllowedOrigins = cfg.Security.CORSOrigins
	if cfg.Security.RateLimitReqs > 0 {
		mc.RateLimitRequests = cfg.Security.RateLimitReqs
	}
	if cfg.Security.RateLimitWindow > 0 {
		mc.RateLimitWindow = cfg.Security.RateLimitWindow
	}
	mc.RateLimitDisabled = cfg.Security.RateLimitDisabled
	return mc
}
