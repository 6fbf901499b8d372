package results

import (
	"context"
	"errors"
	"fmt"
	"localfinder/internal/domain"
	"localfinder/internal/platform/obs"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type Status string

const (
	// StatusPending means the inputs for a search are not there yet.
	StatusPending Status = "pending"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	// StatusEmpty means the fetched page has nothing left after filtering.
	StatusEmpty Status = "empty"
	StatusReady Status = "ready"
)

const (
	defaultPageSize = 10
	defaultRadius   = 5000
)

// Searcher is the catalog call the controller depends on.
type Searcher interface {
	Search(ctx context.Context, q domain.SearchQuery) (domain.SearchResult, error)
}

type Options struct {
	PageSize     int
	RadiusMeters int
}

type phase int

const (
	phasePending phase = iota
	phaseLoading
	phaseFailed
	phaseLoaded
)

// Controller owns the search-results state shared by the list and the map:
// query text, coordinate, page, filters and the active selection.
//
// The mutex guards state transitions only. It is never held across a
// catalog call, so Snapshot keeps answering while a fetch is outstanding.
type Controller struct {
	search   Searcher
	pageSize int
	radius   int
	log      *zap.SugaredLogger

	mu           sync.Mutex
	text         string
	coord        *domain.Coordinate
	page         int
	filter       domain.FilterState
	selected     string
	suppressAuto bool

	phase      phase
	err        error
	raw        []domain.Place
	view       []domain.Place
	pagination *domain.Pagination

	// seq identifies the latest issued fetch; older responses are dropped.
	seq uint64
}

func NewController(search Searcher, opts Options) *Controller {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.RadiusMeters <= 0 {
		opts.RadiusMeters = defaultRadius
	}

	return &Controller{
		search:   search,
		pageSize: opts.PageSize,
		radius:   opts.RadiusMeters,
		log:      obs.Logger("results"),
		page:     1,
		filter:   domain.DefaultFilterState(),
	}
}

// SetQuery starts a new search for text from page 1.
func (c *Controller) SetQuery(ctx context.Context, text string) error {
	c.mu.Lock()
	c.text = strings.TrimSpace(text)
	c.resetLocked(1)
	c.mu.Unlock()

	return c.load(ctx)
}

// SetPage moves to page n, clamped to the known page range.
func (c *Controller) SetPage(ctx context.Context, n int) error {
	c.mu.Lock()
	c.page = clampPage(n, c.pagination)
	c.selected = ""
	c.suppressAuto = false
	c.mu.Unlock()

	return c.load(ctx)
}

// SetLocation searches the same text around a new coordinate from page 1.
func (c *Controller) SetLocation(ctx context.Context, coord domain.Coordinate) error {
	if err := coord.Validate(); err != nil {
		return fmt.Errorf("set location: %w", err)
	}

	c.mu.Lock()
	c.coord = &coord
	c.resetLocked(1)
	c.mu.Unlock()

	return c.load(ctx)
}

// Open applies the query and page from a /search URL. Nothing is fetched when
// both match the loaded page.
func (c *Controller) Open(ctx context.Context, text string, page int) error {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	switch {
	case text != c.text:
		c.text = text
		c.resetLocked(max(1, page))
	case clampPage(page, c.pagination) != c.page:
		c.page = clampPage(page, c.pagination)
		c.selected = ""
		c.suppressAuto = false
	case c.phase == phaseLoaded || c.phase == phaseLoading:
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	return c.load(ctx)
}

// Retry re-issues the current request.
func (c *Controller) Retry(ctx context.Context) error {
	return c.load(ctx)
}

// SetFilter merges patch into the filters and re-derives the view. It never
// fetches.
func (c *Controller) SetFilter(patch domain.FilterPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.filter.Merge(patch)
	if err != nil {
		return fmt.Errorf("set filter: %w", err)
	}
	c.filter = next
	c.deriveLocked()
	return nil
}

// SelectPlace makes id the active place if it is in the current view.
func (c *Controller) SelectPlace(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if indexOf(c.view, id) < 0 {
		return false
	}
	c.selected = id
	c.suppressAuto = false
	return true
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Query:    c.text,
		Page:     c.page,
		PageSize: c.pageSize,
		Filter:   c.filter,
		Status:   c.statusLocked(),
		Err:      c.err,
		Places:   c.view,
		Selected: c.selected,
	}
	if c.coord != nil {
		coord := *c.coord
		s.Coordinate = &coord
	}
	if c.pagination != nil && c.phase == phaseLoaded {
		p := *c.pagination
		s.Pagination = &p
		w := NewWindow(p, c.page, c.pageSize)
		s.Window = &w
	}
	return s
}

func (c *Controller) resetLocked(page int) {
	c.page = page
	c.selected = ""
	c.suppressAuto = false
	c.pagination = nil
}

func (c *Controller) queryLocked() domain.SearchQuery {
	return domain.SearchQuery{
		Text:         c.text,
		Coordinate:   c.coord,
		RadiusMeters: c.radius,
		Page:         c.page,
		PageSize:     c.pageSize,
	}
}

func (c *Controller) deriveLocked() {
	c.view = Derive(c.raw, c.filter)
	c.selected, c.suppressAuto = reconcile(c.view, c.selected, c.suppressAuto)
}

func (c *Controller) statusLocked() Status {
	switch c.phase {
	case phaseLoading:
		return StatusLoading
	case phaseFailed:
		return StatusError
	case phaseLoaded:
		if len(c.view) == 0 {
			return StatusEmpty
		}
		return StatusReady
	}
	return StatusPending
}

func (c *Controller) load(ctx context.Context) (err error) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	q := c.queryLocked()

	c.raw = nil
	c.err = nil
	if !q.Ready() {
		c.phase = phasePending
		c.deriveLocked()
		c.mu.Unlock()
		return nil
	}
	c.phase = phaseLoading
	c.deriveLocked()
	c.mu.Unlock()

	defer obs.Time(ctx, "results.load")(&err)

	res, err := c.search.Search(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.log.Debugw("discarding stale search response", "key", q.Key(), "seq", seq, "latest", c.seq)
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrInputsNotReady):
		c.phase = phasePending
		return nil
	case err != nil:
		c.phase = phaseFailed
		c.err = err
		return fmt.Errorf("load results: %s: %w", q.Key(), err)
	}

	p := res.Pagination
	p.CurrentPage = q.Page
	c.pagination = &p
	c.raw = res.Places
	c.phase = phaseLoaded
	c.suppressAuto = false
	c.deriveLocked()
	return nil
}
