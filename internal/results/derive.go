package results

import (
	"cmp"
	"localfinder/internal/domain"
	"slices"
)

// Derive filters and sorts one fetched page. It never mutates places and
// always returns a fresh slice.
func Derive(places []domain.Place, f domain.FilterState) []domain.Place {
	out := make([]domain.Place, 0, len(places))
	for _, p := range places {
		if keep(p, f) {
			out = append(out, p)
		}
	}

	switch f.SortBy {
	case domain.SortDistance:
		slices.SortStableFunc(out, func(a, b domain.Place) int {
			return cmp.Compare(a.DistanceValue, b.DistanceValue)
		})
	case domain.SortRating:
		slices.SortStableFunc(out, byRatingDesc)
	}
	return out
}

func keep(p domain.Place, f domain.FilterState) bool {
	if f.OpenNow && p.Status == domain.StatusClosed {
		return false
	}
	if f.MaxPriceLevel > 0 && domain.PriceRank(p.PriceLevel) > f.MaxPriceLevel {
		return false
	}
	if f.MinRating > 0 && (p.Rating == nil || *p.Rating < f.MinRating) {
		return false
	}
	return true
}

// Unrated places sort after rated ones.
func byRatingDesc(a, b domain.Place) int {
	switch {
	case a.Rating == nil && b.Rating == nil:
		return 0
	case a.Rating == nil:
		return 1
	case b.Rating == nil:
		return -1
	}
	return cmp.Compare(*b.Rating, *a.Rating)
}

// reconcile keeps the selection pointing into view.
//
// A selection whose place left the view is cleared and auto-selection is
// suppressed until the next page lands or the user selects explicitly. With
// nothing selected the first visible place is picked.
func reconcile(view []domain.Place, selected string, suppress bool) (string, bool) {
	if selected != "" {
		if indexOf(view, selected) >= 0 {
			return selected, suppress
		}
		return "", true
	}
	if !suppress && len(view) > 0 {
		return view[0].ID, false
	}
	return "", suppress
}

func indexOf(view []domain.Place, id string) int {
	return slices.IndexFunc(view, func(p domain.Place) bool { return p.ID == id })
}
