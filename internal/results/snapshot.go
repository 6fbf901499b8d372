package results

import "localfinder/internal/domain"

// Snapshot is an immutable copy of the controller state. Places is the
// derived view; the slice is shared but never written to.
type Snapshot struct {
	Query      string
	Coordinate *domain.Coordinate
	Page       int
	PageSize   int
	Filter     domain.FilterState
	Status     Status
	Err        error
	Places     []domain.Place
	Selected   string
	// Pagination and Window are nil until a page has been loaded.
	Pagination *domain.Pagination
	Window     *Window
}

// Active returns the selected place.
func (s Snapshot) Active() (domain.Place, bool) {
	if s.Selected == "" {
		return domain.Place{}, false
	}
	if i := indexOf(s.Places, s.Selected); i >= 0 {
		return s.Places[i], true
	}
	return domain.Place{}, false
}
