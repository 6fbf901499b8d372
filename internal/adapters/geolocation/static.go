package geolocation

import (
	"context"
	"localfinder/internal/domain"
	"sync"
)

// StaticGeolocator always answers with a fixed coordinate, or with Err when
// set. A zero StaticGeolocator behaves like a device without geolocation.
type StaticGeolocator struct {
	mu    sync.Mutex
	coord *domain.Coordinate
	err   error
	calls int
}

func NewStaticGeolocator(c domain.Coordinate) *StaticGeolocator {
	return &StaticGeolocator{coord: &c}
}

// NewUnsupportedGeolocator fails every lookup with the given reason.
func NewUnsupportedGeolocator(reason string) *StaticGeolocator {
	return &StaticGeolocator{err: unavailable("%s", reason)}
}

func (s *StaticGeolocator) Locate(ctx context.Context) (domain.Coordinate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if err := ctx.Err(); err != nil {
		return domain.Coordinate{}, unavailable("%v", err)
	}
	if s.err != nil {
		return domain.Coordinate{}, s.err
	}
	if s.coord == nil {
		return domain.Coordinate{}, unavailable("geolocation is not supported")
	}
	return *s.coord, nil
}

// Calls reports how many lookups were made.
func (s *StaticGeolocator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
