// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package geo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/marquee/internal/resilience"
)

// Provider names, as accepted in GeoConfig.Providers.
const (
	ProviderIPAPICo = "ipapi.co"
	ProviderIPAPI   = "ip-api"
)

// ErrRateLimited is returned when a provider's local request budget is spent.
var ErrRateLimited = errors.New("geo: provider rate limit exceeded")

// Location is a geolocation result.
type Location struct {
	IP          string
	CountryCode string // ISO 3166-1 alpha-2
	Country     string // English name, when the provider returns one
}

// Provider defines the interface for geolocation lookup services.
type Provider interface {
	// Lookup returns the location of ip. It returns an error if the lookup
	// fails or the address is invalid.
	Lookup(ctx context.Context, ip string) (*Location, error)

	// Name returns the provider name for logging and metrics.
	Name() string

	// IsAvailable reports whether the provider can currently be used.
	IsAvailable() bool
}

// ========================================
// ipapi.co Provider
// ========================================

// IPAPICoProvider implements Provider using https://ipapi.co.
type IPAPICoProvider struct {
	client  *http.Client
	baseURL string
	breaker *resilience.Breaker[*Location]
}

type ipapiCoResponse struct {
	IP          string `json:"ip"`
	Country     string `json:"country"` // ISO code
	CountryName string `json:"country_name"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}

// NewIPAPICoProvider creates an ipapi.co provider. An empty baseURL uses the
// public endpoint.
func NewIPAPICoProvider(baseURL string, timeout time.Duration) *IPAPICoProvider {
	if baseURL == "" {
		baseURL = "https://ipapi.co"
	}
	return &IPAPICoProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		breaker: resilience.NewBreaker[*Location]("ipapi-co", resilience.BreakerSettings{}),
	}
}

// Name returns the provider name.
func (p *IPAPICoProvider) Name() string { return ProviderIPAPICo }

// IsAvailable returns true; ipapi.co needs no key.
func (p *IPAPICoProvider) IsAvailable() bool { return true }

// Lookup queries ipapi.co for the country of ip.
func (p *IPAPICoProvider) Lookup(ctx context.Context, ip string) (*Location, error) {
	if net.ParseIP(ip) == nil {
		return nil, fmt.Errorf("invalid IP address: %s", ip)
	}
	return p.breaker.ExecuteContext(ctx, func(ctx context.Context) (*Location, error) {
		return p.query(ctx, ip)
	})
}

func (p *IPAPICoProvider) query(ctx context.Context, ip string) (*Location, error) {
	url := fmt.Sprintf("%s/%s/json/", p.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query ipapi.co: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ipapi.co returned status %d", resp.StatusCode)
	}

	var result ipapiCoResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode ipapi.co response: %w", err)
	}
	if result.Error {
		return nil, fmt.Errorf("ipapi.co lookup failed: %s", result.Reason)
	}
	return &Location{IP: ip, CountryCode: result.Country, Country: result.CountryName}, nil
}

// ========================================
// ip-api.com Provider (Free, No API Key)
// ========================================

// IPAPIProvider implements Provider using the free ip-api.com service.
// Rate limit: 45 requests per minute (free tier, no API key required).
type IPAPIProvider struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	breaker *resilience.Breaker[*Location]
}

type ipAPIResponse struct {
	Status      string `json:"status"`      // "success" or "fail"
	Message     string `json:"message"`     // Error message if status is "fail"
	Country     string `json:"country"`     // Country name
	CountryCode string `json:"countryCode"` // ISO 3166-1 alpha-2 country code
	Query       string `json:"query"`       // IP address queried
}

// NewIPAPIProvider creates an ip-api.com provider. An empty baseURL uses the
// public endpoint.
func NewIPAPIProvider(baseURL string, timeout time.Duration) *IPAPIProvider {
	if baseURL == "" {
		baseURL = "http://ip-api.com/json"
	}
	return &IPAPIProvider{
		client: &http.Client{Timeout: timeout},
		// ip-api.com allows 45 requests per minute on free tier
		limiter: rate.NewLimiter(rate.Every(time.Minute/45), 45),
		baseURL: strings.TrimRight(baseURL, "/"),
		breaker: resilience.NewBreaker[*Location]("ip-api", resilience.BreakerSettings{}),
	}
}

// Name returns the provider name.
func (p *IPAPIProvider) Name() string { return ProviderIPAPI }

// IsAvailable returns true (ip-api.com doesn't require API key).
func (p *IPAPIProvider) IsAvailable() bool { return true }

// Lookup queries ip-api.com for the country of ip.
func (p *IPAPIProvider) Lookup(ctx context.Context, ip string) (*Location, error) {
	if !p.limiter.Allow() {
		return nil, ErrRateLimited
	}
	if net.ParseIP(ip) == nil {
		return nil, fmt.Errorf("invalid IP address: %s", ip)
	}
	return p.breaker.ExecuteContext(ctx, func(ctx context.Context) (*Location, error) {
		return p.query(ctx, ip)
	})
}

func (p *IPAPIProvider) query(ctx context.Context, ip string) (*Location, error) {
	url := fmt.Sprintf("%s/%s?fields=status,message,country,countryCode,query", p.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query ip-api.com: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ip-api.com returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode ip-api.com response: %w", err)
	}
	if result.Status != "success" {
		return nil, fmt.Errorf("ip-api.com lookup failed: %s", result.Message)
	}
	return &Location{IP: ip, CountryCode: result.CountryCode, Country: result.Country}, nil
}

// NewProviders builds providers by name in the given order. Unknown names
// are an error.
func NewProviders(names []string, timeout time.Duration) ([]Provider, error) {
	out := make([]Provider, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case ProviderIPAPICo:
			out = append(out, NewIPAPICoProvider("", timeout))
		case ProviderIPAPI, "ip-api.com":
			out = append(out, NewIPAPIProvider("", timeout))
		default:
			return nil, fmt.Errorf("unknown geolocation provider %q", name)
		}
	}
	return out, nil
}
