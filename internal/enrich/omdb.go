// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package enrich

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/resilience"
)

// ServiceOMDb labels OMDb metrics and errors.
const ServiceOMDb = "omdb"

// omdbNoValue is what OMDb returns for fields it has no data for.
const omdbNoValue = "N/A"

// PosterLookup resolves a poster URL from an IMDb title link. An empty
// string with a nil error means the service has no poster.
type PosterLookup interface {
	Poster(ctx context.Context, imdbLink string) (string, error)
}

// OMDbConfig configures OMDbClient.
type OMDbConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// RateLimit is requests per second; 0 disables throttling.
	RateLimit float64
	Client    *http.Client
}

// OMDbClient fetches posters from the OMDb API.
type OMDbClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
	breaker *resilience.Breaker[string]
}

type omdbResponse struct {
	Title    string `json:"Title"`
	Poster   string `json:"Poster"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// NewOMDbClient creates an OMDb client.
func NewOMDbClient(cfg OMDbConfig) *OMDbClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: cfg.Timeout * 2}
	}
	c := &OMDbClient{
		client:  cfg.Client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		breaker: resilience.NewBreaker[string]("omdb-api", resilience.BreakerSettings{}),
	}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c
}

// IMDbID extracts the title id from links such as
// http://www.imdb.com/title/tt0499549/?ref_=fn_tt_tt_1, which is the
// second-to-last path segment.
func IMDbID(link string) (string, error) {
	parts := strings.Split(strings.TrimSpace(link), "/")
	if len(parts) < 2 {
		return "", ErrInvalidIMDbLink
	}
	id := parts[len(parts)-2]
	if id == "" {
		return "", ErrInvalidIMDbLink
	}
	return id, nil
}

// Poster implements PosterLookup.
func (c *OMDbClient) Poster(ctx context.Context, imdbLink string) (string, error) {
	id, err := IMDbID(imdbLink)
	if err != nil {
		return "", lookupErr(ServiceOMDb, 0, err)
	}

	start := time.Now()
	poster, err := c.breaker.ExecuteContext(ctx, func(ctx context.Context) (string, error) {
		return c.fetch(ctx, id)
	})
	elapsed := time.Since(start)

	switch {
	case resilience.IsRejected(err):
		metrics.RecordEnrichLookup(ServiceOMDb, "rejected", elapsed)
		return "", lookupErr(ServiceOMDb, 0, err)
	case resilience.IsAbandoned(err):
		metrics.RecordEnrichLookup(ServiceOMDb, "canceled", elapsed)
		return "", lookupErr(ServiceOMDb, 0, ctx.Err())
	case err != nil:
		metrics.RecordEnrichLookup(ServiceOMDb, "error", elapsed)
		return "", err
	case poster == "":
		metrics.RecordEnrichLookup(ServiceOMDb, "empty", elapsed)
	default:
		metrics.RecordEnrichLookup(ServiceOMDb, "found", elapsed)
	}
	return poster, nil
}

func (c *OMDbClient) fetch(ctx context.Context, id string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", lookupErr(ServiceOMDb, 0, fmt.Errorf("rate limiter: %w", err))
		}
	}

	q := url.Values{}
	q.Set("i", id)
	q.Set("apikey", c.apiKey)
	reqURL := c.baseURL + "/?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return "", lookupErr(ServiceOMDb, 0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", lookupErr(ServiceOMDb, 0, fmt.Errorf("failed to query OMDb: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", lookupErr(ServiceOMDb, resp.StatusCode, errors.New("unexpected status"))
	}

	var result omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", lookupErr(ServiceOMDb, resp.StatusCode, fmt.Errorf("failed to decode OMDb response: %w", err))
	}

	poster := strings.TrimSpace(result.Poster)
	if poster == omdbNoValue {
		poster = ""
	}
	return poster, nil
}
