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

	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/resilience"
)

// ServiceYouTube labels YouTube metrics and errors.
const ServiceYouTube = "youtube"

// TrailerLookup resolves a trailer video id for a title. An empty string
// with a nil error means no video matched.
type TrailerLookup interface {
	Trailer(ctx context.Context, title string) (string, error)
}

// YouTubeConfig configures YouTubeClient.
type YouTubeConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Client  *http.Client
}

// YouTubeClient searches the YouTube Data API for trailers.
type YouTubeClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	breaker *resilience.Breaker[string]
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			Kind    string `json:"kind"`
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// NewYouTubeClient creates a YouTube search client.
func NewYouTubeClient(cfg YouTubeConfig) *YouTubeClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: cfg.Timeout * 2}
	}
	return &YouTubeClient{
		client:  cfg.Client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		breaker: resilience.NewBreaker[string]("youtube-api", resilience.BreakerSettings{}),
	}
}

// TrailerQuery is the search phrase used for title.
func TrailerQuery(title string) string {
	return title + " official trailer"
}

// Trailer implements TrailerLookup.
func (c *YouTubeClient) Trailer(ctx context.Context, title string) (string, error) {
	start := time.Now()
	id, err := c.breaker.ExecuteContext(ctx, func(ctx context.Context) (string, error) {
		return c.search(ctx, title)
	})
	elapsed := time.Since(start)

	switch {
	case resilience.IsRejected(err):
		metrics.RecordEnrichLookup(ServiceYouTube, "rejected", elapsed)
		return "", lookupErr(ServiceYouTube, 0, err)
	case resilience.IsAbandoned(err):
		metrics.RecordEnrichLookup(ServiceYouTube, "canceled", elapsed)
		return "", lookupErr(ServiceYouTube, 0, ctx.Err())
	case err != nil:
		metrics.RecordEnrichLookup(ServiceYouTube, "error", elapsed)
		return "", err
	case id == "":
		metrics.RecordEnrichLookup(ServiceYouTube, "empty", elapsed)
	default:
		metrics.RecordEnrichLookup(ServiceYouTube, "found", elapsed)
	}
	return id, nil
}

func (c *YouTubeClient) search(ctx context.Context, title string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("q", TrailerQuery(title))
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("maxResults", "1")
	q.Set("key", c.apiKey)
	reqURL := c.baseURL + "/search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return "", lookupErr(ServiceYouTube, 0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", lookupErr(ServiceYouTube, 0, fmt.Errorf("failed to query YouTube: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", lookupErr(ServiceYouTube, resp.StatusCode, errors.New("unexpected status"))
	}

	var result youtubeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", lookupErr(ServiceYouTube, resp.StatusCode, fmt.Errorf("failed to decode YouTube response: %w", err))
	}
	if len(result.Items) == 0 {
		return "", nil
	}
	return result.Items[0].ID.VideoID, nil
}
