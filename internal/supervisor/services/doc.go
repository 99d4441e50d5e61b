// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package services provides suture.Service wrappers for long-running
// components: the HTTP server, persistent cache maintenance and the uptime
// gauge. Each Serve returns ctx.Err() on cancellation and an error on
// failure so that suture restarts it.
package services
