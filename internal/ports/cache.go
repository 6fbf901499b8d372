package ports

import (
	"context"
	"localfinder/internal/domain"
	"time"
)

// Short-lived cache of encoded catalog responses keyed by request identity.
type ResponseCache interface {
	// Get returns ok=false on a miss or once the entry is older than its ttl.
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Persistent cache mapping normalized place text to coordinates.
type GeocodeCache interface {
	GetMany(ctx context.Context, texts []string) (map[string]domain.Coordinate, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinate) error
}
