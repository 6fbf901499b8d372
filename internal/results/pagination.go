package results

import (
	"fmt"
	"localfinder/internal/domain"
)

const maxPageButtons = 5

// Window is the pager shown under the list.
type Window struct {
	Label   string `json:"label"`
	Pages   []int  `json:"pages"`
	Current int    `json:"current"`
	HasPrev bool   `json:"hasPrev"`
	HasNext bool   `json:"hasNext"`
	// ShowPager is false when everything fits on one page.
	ShowPager bool `json:"showPager"`
}

// NewWindow builds the pager for the page that was fetched. Counts come from
// the backend and ignore client-side filtering.
func NewWindow(p domain.Pagination, page, pageSize int) Window {
	return Window{
		Label:     WindowLabel(page, pageSize, p.TotalCount),
		Pages:     PageWindow(page, p.TotalPages),
		Current:   page,
		HasPrev:   p.HasPrevPage,
		HasNext:   p.HasNextPage,
		ShowPager: p.TotalPages > 1,
	}
}

// WindowLabel renders "Showing X–Y of N".
func WindowLabel(page, pageSize, total int) string {
	if total <= 0 || pageSize <= 0 {
		return "No results"
	}
	if page < 1 {
		page = 1
	}

	start := (page-1)*pageSize + 1
	end := min(page*pageSize, total)
	if start > end {
		start = end
	}
	return fmt.Sprintf("Showing %d–%d of %d", start, end, total)
}

// PageWindow returns at most five page numbers around current, sliding
// against either end of the range.
func PageWindow(current, totalPages int) []int {
	n := min(maxPageButtons, totalPages)
	if n <= 0 {
		return nil
	}

	var first int
	switch {
	case totalPages <= maxPageButtons, current <= 3:
		first = 1
	case current >= totalPages-2:
		first = totalPages - 4
	default:
		first = current - 2
	}

	pages := make([]int, n)
	for i := range pages {
		pages[i] = first + i
	}
	return pages
}

func clampPage(n int, p *domain.Pagination) int {
	if p != nil {
		n = min(n, max(1, p.TotalPages))
	}
	return max(1, n)
}
