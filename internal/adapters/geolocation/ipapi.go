package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"localfinder/internal/domain"
	"localfinder/internal/platform/obs"
	"net/http"
	"strings"
	"time"
)

const defaultLocateTimeout = 10 * time.Second

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// IPAPIGeolocator approximates the device position from its public IP using
// an ip-api.com compatible JSON endpoint.
type IPAPIGeolocator struct {
	session  *http.Client
	endpoint string
}

func NewIPAPIGeolocator(endpoint string, timeout time.Duration) (*IPAPIGeolocator, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("ip geolocator: endpoint is empty")
	}
	if timeout <= 0 {
		timeout = defaultLocateTimeout
	}

	return &IPAPIGeolocator{
		session:  &http.Client{Timeout: timeout},
		endpoint: endpoint,
	}, nil
}

// Locate returns the approximate coordinate. Every failure wraps
// domain.ErrLocationUnavailable.
func (g *IPAPIGeolocator) Locate(ctx context.Context) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, "geolocation.Locate")(&err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint, nil)
	if err != nil {
		return domain.Coordinate{}, unavailable("create request: %v", err)
	}
	q := req.URL.Query()
	q.Set("fields", "status,message,lat,lon")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := g.session.Do(req)
	if err != nil {
		return domain.Coordinate{}, unavailable("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinate{}, unavailable("unexpected status: %d", resp.StatusCode)
	}

	var decoded ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinate{}, unavailable("decode response: %v", err)
	}

	if decoded.Status != "success" {
		msg := decoded.Message
		if msg == "" {
			msg = "lookup failed"
		}
		return domain.Coordinate{}, unavailable("%s", msg)
	}

	c := domain.Coordinate{Lat: decoded.Lat, Lon: decoded.Lon}
	if err := c.Validate(); err != nil {
		return domain.Coordinate{}, unavailable("%v", err)
	}

	return c, nil
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrLocationUnavailable, fmt.Sprintf(format, args...))
}
