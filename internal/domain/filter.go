package domain

import "fmt"

type SortBy string

const (
	SortRecommended SortBy = "recommended"
	SortDistance    SortBy = "distance"
	SortRating      SortBy = "rating"
)

// Allowed MinRating thresholds. Zero means no threshold.
var ratingThresholds = []float64{0, 3, 3.5, 4, 4.5}

// FilterState is purely client-side: it never reaches the backend and never
// changes which page of server results is loaded.
type FilterState struct {
	OpenNow bool   `json:"openNow"`
	SortBy  SortBy `json:"sortBy"`
	// 0 means any price, otherwise the highest allowed PriceRank.
	MaxPriceLevel int `json:"maxPriceLevel"`
	// 0 means no minimum.
	MinRating float64 `json:"minRating"`
}

func DefaultFilterState() FilterState {
	return FilterState{
		OpenNow:       true,
		SortBy:        SortRecommended,
		MaxPriceLevel: 0,
		MinRating:     0,
	}
}

// FilterPatch is a partial FilterState; nil fields are left untouched.
type FilterPatch struct {
	OpenNow       *bool    `json:"openNow,omitempty"`
	SortBy        *SortBy  `json:"sortBy,omitempty"`
	MaxPriceLevel *int     `json:"maxPriceLevel,omitempty"`
	MinRating     *float64 `json:"minRating,omitempty"`
}

func (f FilterState) Validate() error {
	switch f.SortBy {
	case SortRecommended, SortDistance, SortRating:
	default:
		return fmt.Errorf("%w: sortBy %q", ErrInvalidFilter, f.SortBy)
	}

	if f.MaxPriceLevel < 0 || f.MaxPriceLevel > 3 {
		return fmt.Errorf("%w: maxPriceLevel %d", ErrInvalidFilter, f.MaxPriceLevel)
	}

	for _, t := range ratingThresholds {
		if f.MinRating == t {
			return nil
		}
	}
	return fmt.Errorf("%w: minRating %v", ErrInvalidFilter, f.MinRating)
}

// Merge applies p on top of f. The result is validated; on error f is
// returned unchanged.
func (f FilterState) Merge(p FilterPatch) (FilterState, error) {
	next := f
	if p.OpenNow != nil {
		next.OpenNow = *p.OpenNow
	}
	if p.SortBy != nil {
		next.SortBy = *p.SortBy
	}
	if p.MaxPriceLevel != nil {
		next.MaxPriceLevel = *p.MaxPriceLevel
	}
	if p.MinRating != nil {
		next.MinRating = *p.MinRating
	}

	if err := next.Validate(); err != nil {
		return f, err
	}
	return next, nil
}
