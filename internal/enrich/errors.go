// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package enrich

import (
	"errors"
	"fmt"
)

// ErrInvalidIMDbLink is returned for links without an IMDb title segment.
var ErrInvalidIMDbLink = errors.New("enrich: link has no imdb id")

// ExternalLookupError reports a failed call to a metadata service: a
// transport error, a non-2xx status, an undecodable body or a rejection by
// the service's circuit breaker. The pipeline absorbs it per record.
type ExternalLookupError struct {
	Service    string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *ExternalLookupError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s lookup failed: status %d: %v", e.Service, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s lookup failed: %v", e.Service, e.Err)
}

func (e *ExternalLookupError) Unwrap() error { return e.Err }

func lookupErr(service string, status int, err error) error {
	return &ExternalLookupError{Service: service, StatusCode: status, Err: err}
}
