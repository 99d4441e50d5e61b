// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package validation provides struct validation using go-playground/validator v10.
// It provides a thread-safe singleton validator instance and the request structs
// the HTTP handlers bind query parameters into.
//
// Field names in errors are the `query` tag names, so messages read
// "k must be at most 1000" rather than "K must be at most 1000".
//
// Example usage:
//
//	req := validation.YearRequest{Year: r.URL.Query().Get("year")}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
