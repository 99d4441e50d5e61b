// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package geo

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/metrics"
)

const cacheType = "geolocation"

// DefaultCountryAliases maps ISO codes to the country names used in the
// catalog.
var DefaultCountryAliases = map[string]string{
	"US": "USA",
	"GB": "UK",
}

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	Timeout time.Duration
	// CountryAliases maps ISO codes to catalog country names. Codes without
	// an alias resolve to the provider's English country name.
	CountryAliases map[string]string
	CacheTTL       time.Duration
	Logger         zerolog.Logger
}

// Resolver turns client addresses into catalog country names, trying
// providers in order. It never fails: any problem resolves to "".
type Resolver struct {
	providers []Provider
	aliases   map[string]string
	timeout   time.Duration
	cache     *cache.Cache[string]
	logger    zerolog.Logger
}

// NewResolver creates a resolver over providers.
//
//nolint:gocritic // config passed by value
func NewResolver(cfg ResolverConfig, providers ...Provider) *Resolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	aliases := make(map[string]string, len(DefaultCountryAliases)+len(cfg.CountryAliases))
	for k, v := range DefaultCountryAliases {
		aliases[k] = v
	}
	for k, v := range cfg.CountryAliases {
		aliases[strings.ToUpper(k)] = v
	}
	return &Resolver{
		providers: providers,
		aliases:   aliases,
		timeout:   cfg.Timeout,
		cache:     cache.New[string](cfg.CacheTTL, 10000),
		logger:    cfg.Logger.With().Str("component", "geo").Logger(),
	}
}

// Close stops the cache sweeper.
func (r *Resolver) Close() { r.cache.Close() }

// Country returns the catalog country for ip, or "" when it cannot be
// determined.
func (r *Resolver) Country(ctx context.Context, ip string) string {
	ip = normalizeIPAddress(strings.TrimSpace(ip))
	if !IsValidPublicIP(ip) {
		r.logger.Debug().Str("ip", ip).Msg("IP is private or invalid, no location")
		return ""
	}

	if country, ok := r.cache.Get(ip); ok {
		metrics.RecordCacheLookup(cacheType, true)
		return country
	}
	metrics.RecordCacheLookup(cacheType, false)

	for _, p := range r.providers {
		if !p.IsAvailable() {
			continue
		}
		loc, err := r.lookup(ctx, p, ip)
		if err != nil {
			r.logger.Debug().Err(err).Str("provider", p.Name()).Str("ip", ip).Msg("Geolocation provider failed")
			continue
		}
		country := r.countryName(loc)
		if country == "" {
			continue
		}
		r.cache.Set(ip, country)
		return country
	}
	return ""
}

func (r *Resolver) lookup(ctx context.Context, p Provider, ip string) (*Location, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	loc, err := p.Lookup(ctx, ip)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.RecordGeolocationLookup(p.Name(), outcome, time.Since(start))
	return loc, err
}

func (r *Resolver) countryName(loc *Location) string {
	if loc == nil {
		return ""
	}
	code := strings.ToUpper(loc.CountryCode)
	if name, ok := r.aliases[code]; ok {
		return name
	}
	if loc.Country != "" {
		return loc.Country
	}
	return code
}

// ClientIP returns the originating client address of req: the first entry
// of X-Forwarded-For when present, otherwise the connection's remote host.
func ClientIP(req *http.Request) string {
	if fwd := req.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(req.RemoteAddr); err == nil {
		return host
	}
	return req.RemoteAddr
}

var privatePrefixes = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("169.254.0.0/16"),
	netip.MustParsePrefix("::1/128"),   // IPv6 loopback
	netip.MustParsePrefix("fc00::/7"),  // IPv6 unique local
	netip.MustParsePrefix("fe80::/10"), // IPv6 link-local
}

// IsPrivateIP reports whether ip is in a private, loopback or link-local
// range. Invalid addresses are not private.
func IsPrivateIP(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range privatePrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// IsValidPublicIP reports whether ip is a routable address.
func IsValidPublicIP(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil || addr.IsUnspecified() {
		return false
	}
	return !IsPrivateIP(ip)
}

// normalizeIPAddress strips a port from host:port and [v6]:port forms.
func normalizeIPAddress(ipAddr string) string {
	if strings.HasPrefix(ipAddr, "[") {
		if idx := strings.LastIndex(ipAddr, "]:"); idx != -1 {
			return ipAddr[1:idx]
		}
		return strings.Trim(ipAddr, "[]")
	}
	if strings.Count(ipAddr, ":") == 1 {
		host, _, _ := strings.Cut(ipAddr, ":")
		return host
	}
	return ipAddr
}
