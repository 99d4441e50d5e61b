// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/validation"
)

// maxFormBytes bounds POST form bodies.
const maxFormBytes = 64 << 10

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in the success envelope.
func respondSuccess(w http.ResponseWriter, r *http.Request, start time.Time, data interface{}, meta models.Metadata) {
	meta.Timestamp = time.Now()
	meta.QueryTimeMS = time.Since(start).Milliseconds()
	meta.RequestID = logging.RequestIDFromContext(r.Context())
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   models.StatusSuccess,
		Data:     data,
		Metadata: meta,
	})
}

// respondError writes the error envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status: models.StatusError,
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// validateRequest validates a bound request struct and writes a 400 on
// failure. It reports whether the handler may proceed.
func validateRequest(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	verr := validation.ValidateStruct(req)
	if verr == nil {
		return true
	}
	apiErr := verr.ToAPIError()
	respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
	return false
}

// parseIntParam reads an integer query parameter. A missing value yields def;
// a malformed one is reported as a validation error.
func parseIntParam(w http.ResponseWriter, r *http.Request, key string, def int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation,
			key+" must be an integer",
			map[string]interface{}{"field": key, "value": raw})
		return 0, false
	}
	return n, true
}

// formOrQuery reads key from a POST form, falling back to the query string.
func formOrQuery(w http.ResponseWriter, r *http.Request, formKey, queryKey string) string {
	if r.Method == http.MethodPost {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		if err := r.ParseForm(); err == nil {
			if v := r.PostForm.Get(formKey); v != "" {
				return v
			}
		}
	}
	return r.URL.Query().Get(queryKey)
}

// respondRecommendError maps recommender errors to HTTP responses.
func respondRecommendError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *recommend.InvalidArgumentError
	switch {
	case errors.As(err, &invalid):
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, invalid.Error(),
			map[string]interface{}{"field": invalid.Param, "value": invalid.Value})
	case recommend.IsNotFound(err):
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, detailsNotFoundMessage, nil)
	case errors.Is(err, recommend.ErrIndexNotReady):
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeServiceUnavailable, "Recommendations are not available yet.", nil)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, models.ErrCodeTimeout, "The request took too long.", nil)
	default:
		logging.Ctx(r.Context()).Error().Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "Internal server error.", nil)
	}
}
