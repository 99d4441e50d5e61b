// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"errors"
	"fmt"

	"github.com/tomtom215/marquee/internal/recommend/index"
)

// ErrIndexNotReady is returned when the similarity index has not been fitted.
// It indicates a startup bug, not a bad request.
var ErrIndexNotReady = index.ErrNotReady

// InvalidArgumentError reports a malformed request parameter.
type InvalidArgumentError struct {
	Param string
	Value string
	Err   error
}

func (e *InvalidArgumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Param, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Param, e.Value)
}

func (e *InvalidArgumentError) Unwrap() error { return e.Err }

// DetailAssemblyError reports that a detail record could not be built,
// either because the title is unknown (Field is empty) or because a
// required field is missing.
type DetailAssemblyError struct {
	Title string
	Field string
}

func (e *DetailAssemblyError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("no movie titled %q", e.Title)
	}
	return fmt.Sprintf("movie %q has no %s", e.Title, e.Field)
}

// IsInvalidArgument reports whether err is an *InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var target *InvalidArgumentError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a *DetailAssemblyError.
func IsNotFound(err error) bool {
	var target *DetailAssemblyError
	return errors.As(err, &target)
}

// outcome classifies err for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsInvalidArgument(err):
		return "invalid"
	case IsNotFound(err):
		return "not_found"
	case errors.Is(err, ErrIndexNotReady):
		return "not_ready"
	default:
		return "error"
	}
}
