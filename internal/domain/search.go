package domain

import (
	"fmt"
	"strings"
)

// SearchQuery identifies one page of search results.
// Two queries with the same Key are the same request.
type SearchQuery struct {
	Text         string
	Coordinate   *Coordinate
	RadiusMeters int
	Page         int
	PageSize     int
}

// Ready reports whether the query has the inputs a search needs.
func (q SearchQuery) Ready() bool {
	return q.Coordinate != nil && strings.TrimSpace(q.Text) != ""
}

// Key is the canonical request identity over all five fields.
func (q SearchQuery) Key() string {
	var lat, lon float64
	if q.Coordinate != nil {
		lat, lon = q.Coordinate.Lat, q.Coordinate.Lon
	}
	return fmt.Sprintf(
		"places-search|%g|%g|%s|%d|%d|%d",
		lat, lon, strings.TrimSpace(q.Text), q.RadiusMeters, q.Page, q.PageSize,
	)
}

// Pagination as reported by the backend for the last fetched page.
type Pagination struct {
	TotalCount  int  `json:"totalCount"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
	HasPrevPage bool `json:"hasPrevPage"`
	HasNextPage bool `json:"hasNextPage"`
}

type SearchResult struct {
	Places     []Place
	Pagination Pagination
}
