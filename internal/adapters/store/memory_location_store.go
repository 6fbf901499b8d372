package store

import (
	"context"
	"localfinder/internal/domain"
	"sync"
)

// In-memory LocationStore, used in tests and when persistence is disabled.
type MemoryLocationStore struct {
	mu  sync.Mutex
	c   domain.Coordinate
	set bool
}

func NewMemoryLocationStore() *MemoryLocationStore {
	return &MemoryLocationStore{}
}

func (m *MemoryLocationStore) Load(context.Context) (domain.Coordinate, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.c, m.set, nil
}

func (m *MemoryLocationStore) Save(_ context.Context, c domain.Coordinate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c, m.set = c, true
	return nil
}

func (m *MemoryLocationStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c, m.set = domain.Coordinate{}, false
	return nil
}
