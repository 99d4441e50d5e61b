// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package enrich

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/metrics"
)

// Cache types used as metric labels and key prefixes.
const (
	CachePoster  = "poster"
	CacheTrailer = "trailer"
)

// CacheOptions configures the lookup caches.
type CacheOptions struct {
	TTL time.Duration
	// NegativeTTL applies to empty answers; 0 means they are not cached.
	NegativeTTL time.Duration
	// MaxEntries bounds the in-memory tier; 0 means unbounded.
	MaxEntries int
	// Store is the optional persistent tier.
	Store  *cache.BadgerStore
	Logger zerolog.Logger
}

// tiered answers from memory, then from the badger store, then from the
// wrapped lookup. Only successful lookups are cached.
type tiered struct {
	kind   string
	memory *cache.Cache[string]
	store  *cache.BadgerStore
	ttl    time.Duration
	negTTL time.Duration
	logger zerolog.Logger
}

func newTiered(kind string, opts CacheOptions) *tiered {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return &tiered{
		kind:   kind,
		memory: cache.New[string](opts.TTL, opts.MaxEntries),
		store:  opts.Store,
		ttl:    opts.TTL,
		negTTL: opts.NegativeTTL,
		logger: opts.Logger.With().Str("component", "enrich-cache").Str("cache_type", kind).Logger(),
	}
}

func (t *tiered) key(k string) string { return t.kind + ":" + k }

func (t *tiered) get(key string) (string, bool) {
	if v, ok := t.memory.Get(key); ok {
		metrics.RecordCacheLookup(t.kind, true)
		return v, true
	}
	if t.store != nil {
		v, ok, err := t.store.Get(key)
		if err != nil {
			t.logger.Warn().Err(err).Str("key", key).Msg("Persistent cache read failed")
		} else if ok {
			// promote; the memory tier expires no later than the default TTL
			t.memory.Set(key, v)
			metrics.RecordCacheLookup(t.kind, true)
			return v, true
		}
	}
	metrics.RecordCacheLookup(t.kind, false)
	return "", false
}

func (t *tiered) put(key, value string) {
	ttl := t.ttl
	if value == "" {
		if t.negTTL <= 0 {
			return
		}
		ttl = t.negTTL
	}
	t.memory.SetWithTTL(key, value, ttl)
	metrics.CacheSize.WithLabelValues(t.kind).Set(float64(t.memory.Len()))
	if t.store != nil {
		if err := t.store.Set(key, value, ttl); err != nil {
			t.logger.Warn().Err(err).Str("key", key).Msg("Persistent cache write failed")
		}
	}
}

func (t *tiered) close() { t.memory.Close() }

// CachedPosterLookup caches a PosterLookup by IMDb link.
type CachedPosterLookup struct {
	next  PosterLookup
	cache *tiered
}

// NewCachedPosterLookup wraps next.
func NewCachedPosterLookup(next PosterLookup, opts CacheOptions) *CachedPosterLookup {
	return &CachedPosterLookup{next: next, cache: newTiered(CachePoster, opts)}
}

// Poster implements PosterLookup.
func (c *CachedPosterLookup) Poster(ctx context.Context, imdbLink string) (string, error) {
	key := c.cache.key(imdbLink)
	if v, ok := c.cache.get(key); ok {
		return v, nil
	}
	v, err := c.next.Poster(ctx, imdbLink)
	if err != nil {
		return "", err
	}
	c.cache.put(key, v)
	return v, nil
}

// Close stops the in-memory sweeper. The badger store is owned by the caller.
func (c *CachedPosterLookup) Close() { c.cache.close() }

// CachedTrailerLookup caches a TrailerLookup by title.
type CachedTrailerLookup struct {
	next  TrailerLookup
	cache *tiered
}

// NewCachedTrailerLookup wraps next.
func NewCachedTrailerLookup(next TrailerLookup, opts CacheOptions) *CachedTrailerLookup {
	return &CachedTrailerLookup{next: next, cache: newTiered(CacheTrailer, opts)}
}

// Trailer implements TrailerLookup.
func (c *CachedTrailerLookup) Trailer(ctx context.Context, title string) (string, error) {
	key := c.cache.key(title)
	if v, ok := c.cache.get(key); ok {
		return v, nil
	}
	v, err := c.next.Trailer(ctx, title)
	if err != nil {
		return "", err
	}
	c.cache.put(key, v)
	return v, nil
}

// Close stops the in-memory sweeper.
func (c *CachedTrailerLookup) Close() { c.cache.close() }
