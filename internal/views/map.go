package views

import (
	"localfinder/internal/domain"
	"localfinder/internal/results"
	"sync"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const (
	DefaultZoom = 14
	// LocateZoom is used when recentering on the user's own position.
	LocateZoom = 15
	minZoom    = 1
	maxZoom    = 19
)

type Marker struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	Rating     *float64 `json:"rating,omitempty"`
	PriceLevel string   `json:"priceLevel,omitempty"`
	Active     bool     `json:"active"`
}

// Bounds is a lat/lon box in degrees.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

type MapModel struct {
	Center  domain.Coordinate `json:"center"`
	Zoom    int               `json:"zoom"`
	Markers []Marker          `json:"markers"`
	// Bounds covers every marker; nil when there are none.
	Bounds *Bounds `json:"bounds,omitempty"`
}

// MapView holds the programmatic viewport. Which marker is active always
// comes from the snapshot.
type MapView struct {
	sel Selector

	mu     sync.Mutex
	center *domain.Coordinate
	zoom   int
}

func NewMapView(sel Selector) *MapView {
	return &MapView{sel: sel, zoom: DefaultZoom}
}

// Click handles a marker click.
func (m *MapView) Click(id string) bool {
	return m.sel.SelectPlace(id)
}

// SetView recenters the map. A zero zoom keeps the current one.
func (m *MapView) SetView(c domain.Coordinate, zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.center = &c
	if zoom != 0 {
		m.zoom = clampZoom(zoom)
	}
}

func (m *MapView) Zoom(delta int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.zoom = clampZoom(m.zoom + delta)
	return m.zoom
}

// FocusActive centers on the active place of s, if any.
func (m *MapView) FocusActive(s results.Snapshot) bool {
	p, ok := s.Active()
	if !ok {
		return false
	}
	m.SetView(p.Location, 0)
	return true
}

// RenderMap builds markers from the same derived view the list renders.
// Without an explicit view the map centers on the search coordinate.
func RenderMap(s results.Snapshot, m *MapView) MapModel {
	m.mu.Lock()
	model := MapModel{Zoom: m.zoom}
	if m.center != nil {
		model.Center = *m.center
	}
	explicit := m.center != nil
	m.mu.Unlock()

	if !explicit && s.Coordinate != nil {
		model.Center = *s.Coordinate
	}

	model.Markers = make([]Marker, 0, len(s.Places))
	for _, p := range s.Places {
		model.Markers = append(model.Markers, Marker{
			ID:         p.ID,
			Name:       p.Name,
			Lat:        p.Location.Lat,
			Lon:        p.Location.Lon,
			Rating:     p.Rating,
			PriceLevel: p.PriceLevel,
			Active:     p.ID == s.Selected,
		})
	}
	model.Bounds = markerBounds(s.Places)
	return model
}

func markerBounds(places []domain.Place) *Bounds {
	if len(places) == 0 {
		return nil
	}

	rect := s2.EmptyRect()
	for _, p := range places {
		rect = rect.AddPoint(p.Location.LatLng())
	}
	// Give a single marker a little room instead of a zero-area box.
	if rect.IsPoint() {
		rect = rect.ExpandedByDistance(0.0005 * s1.Degree)
	}

	return &Bounds{
		South: rect.Lo().Lat.Degrees(),
		West:  rect.Lo().Lng.Degrees(),
		North: rect.Hi().Lat.Degrees(),
		East:  rect.Hi().Lng.Degrees(),
	}
}

func clampZoom(z int) int {
	return min(max(z, minZoom), maxZoom)
}
