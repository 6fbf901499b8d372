package catalog

import (
	"errors"
	"localfinder/internal/adapters/cache"
	"localfinder/internal/ports"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultPageSize = 10
	defaultRadius   = 5000
)

// Staleness windows per endpoint. A cached body older than its window is
// refetched on next use; nothing else invalidates it.
type TTLs struct {
	Search         time.Duration
	Detail         time.Duration
	Featured       time.Duration
	Categories     time.Duration
	Geocode        time.Duration
	ReverseGeocode time.Duration
}

func DefaultTTLs() TTLs {
	return TTLs{
		Search:         60 * time.Second,
		Detail:         60 * time.Second,
		Featured:       60 * time.Second,
		Categories:     5 * time.Minute,
		Geocode:        10 * time.Minute,
		ReverseGeocode: 5 * time.Minute,
	}
}

// Client implements PlaceCatalog and Geocoder over the places REST API.
//
// It coordinates:
//   - Input checks (missing inputs never reach the network)
//   - Coalescing of identical in-flight requests
//   - A response cache with per-endpoint staleness
//   - An optional persistent geocode cache
//
// The client does not retry. It is safe for concurrent use.
type Client struct {
	session      *http.Client
	baseURL      string
	timeout      time.Duration
	ttl          TTLs
	responses    ports.ResponseCache
	geocodeCache ports.GeocodeCache
	flight       singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.session = hc }
}

// WithTimeout sets the ceiling on a single network call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithResponseCache(rc ports.ResponseCache) Option {
	return func(c *Client) { c.responses = rc }
}

func WithGeocodeCache(gc ports.GeocodeCache) Option {
	return func(c *Client) { c.geocodeCache = gc }
}

func WithTTLs(t TTLs) Option {
	return func(c *Client) { c.ttl = t }
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("catalog client: base url is empty")
	}

	c := &Client{
		baseURL: baseURL,
		timeout: defaultTimeout,
		ttl:     DefaultTTLs(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.session == nil {
		c.session = &http.Client{Timeout: c.timeout}
	}
	if c.responses == nil {
		c.responses = cache.NewMemoryResponseCache()
	}

	return c, nil
}
