// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tomtom215/marquee/internal/geo"
	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/validation"
)

const detailsNotFoundMessage = "Movie details not found."

// Recommender is the set of recommendation operations the handlers serve.
// *recommend.Recommender implements it.
type Recommender interface {
	AutoRecommendations(ctx context.Context, location string, k int) ([]recommend.EnrichedRecommendation, error)
	RecommendationsWithTrailer(ctx context.Context, title, location string, k int) ([]recommend.EnrichedRecommendation, error)
	FilteredRecommendations(ctx context.Context, filterType, value string, k int) ([]recommend.EnrichedRecommendation, error)
	FilteredRecommendationsByYear(ctx context.Context, year string, k int) ([]recommend.EnrichedRecommendation, error)
	FullDetails(ctx context.Context, title string) (*recommend.DetailRecord, error)
	Autocomplete(term string) []string
}

var _ Recommender = (*recommend.Recommender)(nil)

// Locator resolves a client IP to a catalog country name, or "".
// *geo.Resolver implements it.
type Locator interface {
	Country(ctx context.Context, ip string) string
}

var _ Locator = (*geo.Resolver)(nil)

// HandlerOptions carries the handler's static inputs.
type HandlerOptions struct {
	Version string
	// CatalogSize is reported by the health endpoint.
	CatalogSize int
	// Locator may be nil, which disables geolocation for /auto.
	Locator Locator
}

// Handler serves the recommendation endpoints.
type Handler struct {
	rec       Recommender
	locator   Locator
	version   string
	catalogN  int
	startTime time.Time
	ready     atomic.Bool
}

// NewHandler creates a handler. The handler reports not ready until
// SetReady(true) is called.
func NewHandler(rec Recommender, opts HandlerOptions) *Handler {
	return &Handler{
		rec:       rec,
		locator:   opts.Locator,
		version:   opts.Version,
		catalogN:  opts.CatalogSize,
		startTime: time.Now(),
	}
}

// SetReady flips the readiness probe.
func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// HealthLive handles the liveness probe.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady returns 200 only once the catalog and index are serving.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.ready.Load()
	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: models.HealthStatus{
			Status:        status,
			Version:       h.version,
			CatalogSize:   h.catalogN,
			IndexReady:    ready,
			UptimeSeconds: time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Recommendations handles GET and POST /api/v1/recommendations.
// POST accepts the title as the form field movieTitle.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	k, ok := parseIntParam(w, r, "k", 0)
	if !ok {
		return
	}
	req := validation.RecommendRequest{
		Title:    formOrQuery(w, r, "movieTitle", "title"),
		Location: r.URL.Query().Get("location"),
		K:        k,
	}
	if !validateRequest(w, r, &req) {
		return
	}

	recs, err := h.rec.RecommendationsWithTrailer(r.Context(), req.Title, req.Location, req.K)
	if err != nil {
		respondRecommendError(w, r, err)
		return
	}
	respondList(w, r, start, recs, req.Location)
}

// AutoRecommendations handles GET /api/v1/recommendations/auto. Without an
// explicit location the client's country is looked up.
func (h *Handler) AutoRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	k, ok := parseIntParam(w, r, "k", 0)
	if !ok {
		return
	}
	req := validation.AutoRequest{
		Location: strings.TrimSpace(r.URL.Query().Get("location")),
		K:        k,
	}
	if !validateRequest(w, r, &req) {
		return
	}
	if req.Location == "" && h.locator != nil {
		req.Location = h.locator.Country(r.Context(), geo.ClientIP(r))
	}

	recs, err := h.rec.AutoRecommendations(r.Context(), req.Location, req.K)
	if err != nil {
		respondRecommendError(w, r, err)
		return
	}
	respondList(w, r, start, recs, req.Location)
}

// FilteredRecommendations handles GET /api/v1/recommendations/filtered.
func (h *Handler) FilteredRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	k, ok := parseIntParam(w, r, "k", 0)
	if !ok {
		return
	}
	q := r.URL.Query()
	req := validation.FilterRequest{
		FilterType:  q.Get("filterType"),
		FilterValue: q.Get("filterValue"),
		K:           k,
	}
	if !validateRequest(w, r, &req) {
		return
	}

	recs, err := h.rec.FilteredRecommendations(r.Context(), req.FilterType, req.FilterValue, req.K)
	if err != nil {
		respondRecommendError(w, r, err)
		return
	}
	respondList(w, r, start, recs, "")
}

// YearRecommendations handles GET /api/v1/recommendations/year.
func (h *Handler) YearRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	k, ok := parseIntParam(w, r, "k", 0)
	if !ok {
		return
	}
	req := validation.YearRequest{Year: r.URL.Query().Get("year"), K: k}
	if !validateRequest(w, r, &req) {
		return
	}

	recs, err := h.rec.FilteredRecommendationsByYear(r.Context(), req.Year, req.K)
	if err != nil {
		respondRecommendError(w, r, err)
		return
	}
	respondList(w, r, start, recs, "")
}

// MovieDetails handles GET and POST /api/v1/movies/details.
// POST accepts the title as the form field movie_title.
func (h *Handler) MovieDetails(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := validation.DetailsRequest{Title: formOrQuery(w, r, "movie_title", "title")}
	if !validateRequest(w, r, &req) {
		return
	}

	details, err := h.rec.FullDetails(r.Context(), req.Title)
	if err != nil {
		respondRecommendError(w, r, err)
		return
	}
	respondSuccess(w, r, start, details, models.Metadata{})
}

// Autocomplete handles GET /api/v1/autocomplete. An empty term gives an
// empty list; limit 0 means no limit.
func (h *Handler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit, ok := parseIntParam(w, r, "limit", 0)
	if !ok {
		return
	}
	req := validation.AutocompleteRequest{Term: r.URL.Query().Get("term"), Limit: limit}
	if !validateRequest(w, r, &req) {
		return
	}

	titles := h.rec.Autocomplete(req.Term)
	if req.Limit > 0 && len(titles) > req.Limit {
		titles = titles[:req.Limit]
	}
	n := len(titles)
	respondSuccess(w, r, start, titles, models.Metadata{Count: &n})
}

func respondList(w http.ResponseWriter, r *http.Request, start time.Time, recs []recommend.EnrichedRecommendation, location string) {
	if recs == nil {
		recs = []recommend.EnrichedRecommendation{}
	}
	n := len(recs)
	respondSuccess(w, r, start, recs, models.Metadata{Count: &n, Location: location})
}
