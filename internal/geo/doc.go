// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package geo resolves client addresses to catalog country names for the
// location-based recommendation flows.
//
// Providers (ipapi.co, ip-api.com) are tried in order. Private and invalid
// addresses, provider errors and timeouts all resolve to "", which callers
// treat as "no location".
package geo
