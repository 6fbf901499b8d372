package views

import (
	"fmt"
	"localfinder/internal/domain"
	"localfinder/internal/results"
)

// Selector is the single place selection is written to. Both views route
// clicks through it so neither holds its own selection.
type Selector interface {
	SelectPlace(id string) bool
}

const fetchFailedMessage = "Failed to load places. Please try again."

type Card struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category,omitempty"`
	PriceLevel    string   `json:"priceLevel,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	ReviewCount   *int     `json:"reviewCount,omitempty"`
	Status        string   `json:"status,omitempty"`
	StatusLabel   string   `json:"statusLabel,omitempty"`
	DistanceLabel string   `json:"distance,omitempty"`
	Image         string   `json:"image,omitempty"`
	Href          string   `json:"href"`
	Active        bool     `json:"active"`
	// Dimmed is set for closed places that are shown because openNow is off.
	Dimmed bool `json:"dimmed,omitempty"`
}

type ListModel struct {
	Query   string         `json:"query"`
	Header  string         `json:"header"`
	Status  results.Status `json:"status"`
	Message string         `json:"message,omitempty"`
	// CanRetry offers the manual retry affordance after a failed fetch.
	CanRetry bool            `json:"canRetry"`
	Cards    []Card          `json:"cards"`
	Pager    *results.Window `json:"pager,omitempty"`
}

// RenderList builds the result list from a controller snapshot.
func RenderList(s results.Snapshot) ListModel {
	m := ListModel{
		Query:  s.Query,
		Status: s.Status,
		Cards:  make([]Card, 0, len(s.Places)),
		Pager:  s.Window,
	}

	for _, p := range s.Places {
		m.Cards = append(m.Cards, newCard(p, p.ID == s.Selected))
	}

	switch s.Status {
	case results.StatusPending:
		m.Message = "Waiting for your location."
	case results.StatusLoading:
		m.Message = "Loading places..."
	case results.StatusError:
		m.Message = fetchFailedMessage
		m.CanRetry = true
	case results.StatusEmpty:
		m.Message = "No places found. Try adjusting your filters."
	}
	m.Header = header(s)
	return m
}

func newCard(p domain.Place, active bool) Card {
	return Card{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		PriceLevel:    p.PriceLevel,
		Rating:        p.Rating,
		ReviewCount:   p.ReviewCount,
		Status:        string(p.Status),
		StatusLabel:   p.Status.Label(),
		DistanceLabel: p.DistanceLabel,
		Image:         p.Image,
		Href:          PlaceHref(p.ID),
		Active:        active,
		Dimmed:        p.Status == domain.StatusClosed,
	}
}

func header(s results.Snapshot) string {
	if s.Query == "" {
		return "Places nearby"
	}
	if s.Pagination == nil {
		return fmt.Sprintf("Results for %q", s.Query)
	}
	return fmt.Sprintf("%d places for %q", s.Pagination.TotalCount, s.Query)
}

// ListView forwards card clicks to the shared selector.
type ListView struct {
	sel Selector
}

func NewListView(sel Selector) *ListView {
	return &ListView{sel: sel}
}

func (l *ListView) Click(id string) bool {
	return l.sel.SelectPlace(id)
}
