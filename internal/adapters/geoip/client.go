package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	"github.com/dgraph-io/ristretto"
	"github.com/raosunjoy/nexvestxr-backend/internal/core/ports/clients"
)

// Client resolves IP addresses through an ip-api.com style endpoint, with a
// ristretto cache in front so repeated lookups for the same address skip the
// network entirely.
type Client struct {
	http    *http.Client
	baseURL string
	cache   *ristretto.Cache
}

func NewClient(httpClient *http.Client, baseURL string, maxCachedIPs int64) (*Client, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxCachedIPs,
		MaxCost:     maxCachedIPs,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create geoip cache failed: %w", err)
	}
	return &Client{http: httpClient, baseURL: baseURL, cache: cache}, nil
}

type lookupResponse struct {
	Status      string `json:"status"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	Timezone    string `json:"timezone"`
	Message     string `json:"message"`
}

// Lookup resolves the IP to a location. Results, including negative ones, are
// not cached on error; only successful lookups populate the cache.
func (c *Client) Lookup(ctx context.Context, ipAddress string) (*clients.GeoLocation, error) {
	addr, err := netip.ParseAddr(ipAddress)
	if err != nil {
		return nil, fmt.Errorf("geoip: invalid address %q: %w", ipAddress, err)
	}
	// Private and loopback addresses can never resolve to a country, so fail
	// fast instead of spending a network call.
	if addr.IsPrivate() || addr.IsLoopback() || addr.IsUnspecified() || addr.IsLinkLocalUnicast() {
		return nil, fmt.Errorf("geoip: non-routable address %s", ipAddress)
	}

	if cached, ok := c.cache.Get(ipAddress); ok {
		if loc, ok := cached.(clients.GeoLocation); ok {
			return &loc, nil
		}
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/" + ipAddress
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geoip status: %s", resp.Status)
	}

	var lr lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, err
	}
	if lr.Status != "success" {
		return nil, fmt.Errorf("geoip lookup failed: %s", lr.Message)
	}

	loc := clients.GeoLocation{
		Country:     lr.Country,
		CountryCode: lr.CountryCode,
		Timezone:    lr.Timezone,
	}
	c.cache.Set(ipAddress, loc, 1)
	return &loc, nil
}

// Close releases the cache resources.
func (c *Client) Close() { c.cache.Close() }
