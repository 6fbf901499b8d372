package location

import (
	"context"
	"errors"
	"fmt"
	"localfinder/internal/domain"
	"localfinder/internal/platform/obs"
	"localfinder/internal/ports"
	"sync"

	"go.uber.org/zap"
)

// State is a snapshot of the provider for rendering.
type State struct {
	Coordinate *domain.Coordinate
	// IsDefault is set while the coordinate is the fixed fallback.
	IsDefault bool
	Manual    bool
	Loading   bool
	// Err is the last unresolved ErrLocationUnavailable, nil once dismissed
	// or superseded by a successful lookup or manual override.
	Err error
}

// Provider resolves and caches the user's coordinate.
//
// Manual overrides always win: each one bumps a generation counter, and an
// automatic lookup that started under an older generation is discarded when
// it completes.
type Provider struct {
	store    ports.LocationStore
	geo      ports.Geolocator
	fallback domain.Coordinate
	log      *zap.SugaredLogger

	// mu also serializes writes to store so that the persisted value always
	// matches the generation that won.
	mu        sync.Mutex
	current   *domain.Coordinate
	isDefault bool
	manual    bool
	manualGen uint64
	inflight  int
	lastErr   error
}

// NewProvider builds a provider. geo may be nil for environments without any
// geolocation source.
func NewProvider(store ports.LocationStore, geo ports.Geolocator, fallback domain.Coordinate) *Provider {
	return &Provider{
		store:    store,
		geo:      geo,
		fallback: fallback,
		log:      obs.Logger("location"),
	}
}

// Current returns the coordinate in use, ok=false before anything resolved.
func (p *Provider) Current() (domain.Coordinate, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return domain.Coordinate{}, false
	}
	return *p.current, true
}

func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := State{
		IsDefault: p.isDefault,
		Manual:    p.manual,
		Loading:   p.inflight > 0,
		Err:       p.lastErr,
	}
	if p.current != nil {
		c := *p.current
		s.Coordinate = &c
	}
	return s
}

// Activate is the first-use path: a persisted coordinate is used as is;
// otherwise the geolocator is asked. On failure the fallback coordinate is
// returned together with an error wrapping domain.ErrLocationUnavailable.
// The error is informational; the returned coordinate is always usable.
func (p *Provider) Activate(ctx context.Context) (domain.Coordinate, error) {
	saved, ok, err := p.store.Load(ctx)
	if err != nil {
		p.log.Warnw("load persisted location failed", "err", err)
	}

	if ok {
		p.mu.Lock()
		defer p.mu.Unlock()

		// A manual override may already have landed.
		if p.current == nil || p.isDefault {
			p.current = &saved
			p.isDefault = false
		}
		return *p.current, nil
	}

	return p.resolve(ctx)
}

// Refresh asks the geolocator for a fresh position. On success it replaces
// any previous coordinate, manual or not, unless a manual override is made
// while the lookup is in flight.
func (p *Provider) Refresh(ctx context.Context) (domain.Coordinate, error) {
	return p.resolve(ctx)
}

// SetManual overrides the coordinate and persists it.
func (p *Provider) SetManual(ctx context.Context, c domain.Coordinate) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("set manual location: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.manualGen++
	p.current = &c
	p.isDefault = false
	p.manual = true
	p.lastErr = nil

	if err := p.store.Save(ctx, c); err != nil {
		p.log.Warnw("persist manual location failed", "err", err)
	}
	return nil
}

// DismissNotice clears the last location failure.
func (p *Provider) DismissNotice() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastErr = nil
}

func (p *Provider) resolve(ctx context.Context) (domain.Coordinate, error) {
	p.mu.Lock()
	gen := p.manualGen
	p.inflight++
	p.mu.Unlock()

	var c domain.Coordinate
	var err error
	if p.geo == nil {
		err = fmt.Errorf("%w: geolocation is not supported", domain.ErrLocationUnavailable)
	} else {
		c, err = p.geo.Locate(ctx)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inflight--

	if gen != p.manualGen {
		p.log.Debugw("discarding automatic location resolved after manual override", "err", err)
		return *p.current, nil
	}

	if err == nil {
		err = c.Validate()
	}
	if err != nil {
		if !errors.Is(err, domain.ErrLocationUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrLocationUnavailable, err)
		}
		p.lastErr = err
		if p.current == nil {
			f := p.fallback
			p.current = &f
			p.isDefault = true
		}
		p.log.Infow("location unavailable, keeping current coordinate", "err", err, "default", p.isDefault)
		return *p.current, err
	}

	p.current = &c
	p.isDefault = false
	p.manual = false
	p.lastErr = nil

	if err := p.store.Save(ctx, c); err != nil {
		p.log.Warnw("persist location failed", "err", err)
	}
	return c, nil
}
