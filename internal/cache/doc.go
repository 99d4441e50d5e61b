// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package cache provides the two tiers of the poster and trailer lookup cache.

Cache is a generic, thread-safe in-memory map with per-entry TTL, an
optional size bound and a background sweep. It sits in front of every
external lookup so repeated recommendations do not repeat OMDb and YouTube
calls.

BadgerStore is an optional persistent tier backed by BadgerDB. Entries keep
their TTL in badger itself, so values survive restarts and expire on their
own. Keys are namespaced by lookup kind ("poster:", "trailer:"); Count and
RunGC are used by the cache maintenance service.

# Usage

	mem := cache.New[string](24*time.Hour, 10000)
	defer mem.Close()
	mem.Set("poster:tt0499549", url)

	store, err := cache.OpenBadgerStore("/data/lookup-cache")
	if err != nil {
	    return err
	}
	defer store.Close()
	_ = store.Set("poster:tt0499549", url, 7*24*time.Hour)

An empty path opens an in-memory badger database, which tests use.
*/
package cache
