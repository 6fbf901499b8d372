package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"localfinder/internal/domain"
	"net/url"
	"strconv"
	"strings"
)

// Search returns one page of places around q.Coordinate matching q.Text.
func (c *Client) Search(ctx context.Context, q domain.SearchQuery) (domain.SearchResult, error) {
	if !q.Ready() {
		return domain.SearchResult{}, domain.ErrInputsNotReady
	}

	if err := q.Coordinate.Validate(); err != nil {
		return domain.SearchResult{}, fmt.Errorf("search places: %w", err)
	}

	q.Text = strings.TrimSpace(q.Text)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.RadiusMeters <= 0 {
		q.RadiusMeters = defaultRadius
	}

	params := coordParams(*q.Coordinate)
	params.Set("q", q.Text)
	params.Set("radius", strconv.Itoa(q.RadiusMeters))
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.PageSize))

	r := request{
		op:     "search",
		key:    q.Key(),
		path:   "/places/search",
		params: params,
		ttl:    c.ttl.Search,
	}

	body, err := c.fetch(ctx, r)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("search places %q: %w", q.Text, err)
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		c.invalidate(ctx, r)
		return domain.SearchResult{}, fmt.Errorf("search places %q: %w", q.Text, decodeError(r.op, err))
	}

	places := placesToDomain(decoded.Data, q.Coordinate)

	var page domain.Pagination
	if decoded.Pagination != nil {
		page = *decoded.Pagination
	} else {
		page = singlePage(len(places), q.Page)
	}

	return domain.SearchResult{Places: places, Pagination: page}, nil
}

// Detail returns a single place. An unknown id yields domain.ErrNotFound.
func (c *Client) Detail(ctx context.Context, id string) (domain.Place, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Place{}, domain.ErrInputsNotReady
	}

	r := request{
		op:   "detail",
		key:  "place-detail|" + id,
		path: "/places/" + url.PathEscape(id),
		ttl:  c.ttl.Detail,
	}

	body, err := c.fetch(ctx, r)
	if err != nil {
		return domain.Place{}, fmt.Errorf("place detail %q: %w", id, err)
	}

	var decoded placeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		c.invalidate(ctx, r)
		return domain.Place{}, fmt.Errorf("place detail %q: %w", id, decodeError(r.op, err))
	}
	if decoded.Data == nil || decoded.Data.ID == "" {
		return domain.Place{}, fmt.Errorf("place detail %q: %w", id, domain.ErrNotFound)
	}

	return decoded.Data.toDomain(nil), nil
}

// Featured returns highlighted places near at.
func (c *Client) Featured(ctx context.Context, at *domain.Coordinate) ([]domain.Place, error) {
	if at == nil {
		return nil, domain.ErrInputsNotReady
	}

	r := request{
		op:     "featured",
		key:    "featured-places|" + at.String(),
		path:   "/places/featured",
		params: coordParams(*at),
		ttl:    c.ttl.Featured,
	}

	body, err := c.fetch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("featured places: %w", err)
	}

	var decoded placeListResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		c.invalidate(ctx, r)
		return nil, fmt.Errorf("featured places: %w", decodeError(r.op, err))
	}

	return placesToDomain(decoded.Data, at), nil
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	r := request{
		op:   "categories",
		key:  "categories",
		path: "/places/categories",
		ttl:  c.ttl.Categories,
	}

	body, err := c.fetch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}

	var decoded categoriesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		c.invalidate(ctx, r)
		return nil, fmt.Errorf("categories: %w", decodeError(r.op, err))
	}

	if decoded.Data == nil {
		return []domain.Category{}, nil
	}
	return decoded.Data, nil
}

func coordParams(c domain.Coordinate) url.Values {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(c.Lon, 'f', -1, 64))
	return params
}

// Pagination for backends that return a bare list.
func singlePage(n, page int) domain.Pagination {
	return domain.Pagination{
		TotalCount:  n,
		TotalPages:  1,
		CurrentPage: page,
		HasPrevPage: page > 1,
	}
}

func decodeError(op string, err error) *domain.FetchError {
	return &domain.FetchError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
}
