package ports

import (
	"context"
	"localfinder/internal/domain"
)

// Port: the single process-wide persisted coordinate.
type LocationStore interface {
	// Load returns ok=false when nothing has been persisted.
	Load(ctx context.Context) (c domain.Coordinate, ok bool, err error)
	Save(ctx context.Context, c domain.Coordinate) error
	Clear(ctx context.Context) error
}

// Port: resolves the current position of the device/user.
// Failures should wrap domain.ErrLocationUnavailable.
type Geolocator interface {
	Locate(ctx context.Context) (domain.Coordinate, error)
}
