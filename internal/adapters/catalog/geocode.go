package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"localfinder/internal/adapters/cache"
	"localfinder/internal/domain"
	"localfinder/internal/platform/obs"
	"net/url"
)

// Geocode resolves free text ("Makati", "221B Baker St") to a coordinate.
// Hits in the persistent geocode cache skip the network entirely.
func (c *Client) Geocode(ctx context.Context, text string) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, "catalog.Geocode")(&err)

	norm := cache.NormalizeQuery(text)
	if norm == "" {
		return domain.Coordinate{}, domain.ErrInputsNotReady
	}

	if c.geocodeCache != nil {
		hits, err := c.geocodeCache.GetMany(ctx, []string{norm})
		if err != nil {
			obs.Logger("catalog").Warnw("geocode cache read failed", "query", norm, "err", err)
		} else if coord, ok := hits[norm]; ok {
			return coord, nil
		}
	}

	params := url.Values{}
	params.Set("location", norm)

	r := request{
		op:     "geocode",
		key:    "geocode|" + norm,
		path:   "/places/geocode",
		params: params,
		ttl:    c.ttl.Geocode,
	}

	body, err := c.fetch(ctx, r)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("geocode %q: %w", norm, err)
	}

	var decoded geocodeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		c.invalidate(ctx, r)
		return domain.Coordinate{}, fmt.Errorf("geocode %q: %w", norm, decodeError(r.op, err))
	}
	if !decoded.Success || decoded.Data == nil {
		return domain.Coordinate{}, fmt.Errorf("geocode %q: %w", norm, domain.ErrNotFound)
	}

	coord := *decoded.Data
	if err := coord.Validate(); err != nil {
		return domain.Coordinate{}, fmt.Errorf("geocode %q: %w", norm, err)
	}

	if c.geocodeCache != nil {
		if err := c.geocodeCache.PutMany(ctx, map[string]domain.Coordinate{norm: coord}); err != nil {
			obs.Logger("catalog").Warnw("geocode cache write failed", "query", norm, "err", err)
		}
	}

	return coord, nil
}

// ReverseGeocode labels a coordinate with its city and state.
func (c *Client) ReverseGeocode(ctx context.Context, at *domain.Coordinate) (domain.LocationName, error) {
	if at == nil {
		return domain.LocationName{}, domain.ErrInputsNotReady
	}

	r := request{
		op:     "reverse_geocode",
		key:    "location-name|" + at.String(),
		path:   "/places/reverse-geocode",
		params: coordParams(*at),
		ttl:    c.ttl.ReverseGeocode,
	}

	body, err := c.fetch(ctx, r)
	if err != nil {
		return domain.LocationName{}, fmt.Errorf("reverse geocode %s: %w", at, err)
	}

	var decoded reverseGeocodeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		c.invalidate(ctx, r)
		return domain.LocationName{}, fmt.Errorf("reverse geocode %s: %w", at, decodeError(r.op, err))
	}
	if decoded.Data == nil {
		return domain.LocationName{}, nil
	}

	return *decoded.Data, nil
}
