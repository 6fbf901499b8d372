package ports

import (
	"context"
	"localfinder/internal/domain"
)

// Contract for reading places from the catalog backend.
//
// Every method returns domain.ErrInputsNotReady without doing any I/O when a
// required input is missing.
type PlaceCatalog interface {
	Search(ctx context.Context, q domain.SearchQuery) (domain.SearchResult, error)
	Detail(ctx context.Context, id string) (domain.Place, error)
	Featured(ctx context.Context, at *domain.Coordinate) ([]domain.Place, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

// Forward and reverse geocoding against the catalog backend.
type Geocoder interface {
	Geocode(ctx context.Context, text string) (domain.Coordinate, error)
	ReverseGeocode(ctx context.Context, at *domain.Coordinate) (domain.LocationName, error)
}
