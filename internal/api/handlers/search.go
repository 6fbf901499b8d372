package handlers

import (
	"context"
	"errors"
	"localfinder/internal/api/dto"
	"localfinder/internal/domain"
	"localfinder/internal/location"
	"localfinder/internal/platform/obs"
	"localfinder/internal/ports"
	"localfinder/internal/results"
	"localfinder/internal/views"
	"net/http"
	"strconv"
	"strings"
)

// SearchHandler drives the results controller. List and map clicks both end
// up in the controller's single selection.
type SearchHandler struct {
	Results      *results.Controller
	List         *views.ListView
	Map          *views.MapView
	Provider     *location.Provider
	Geocoder     ports.Geocoder
	DefaultQuery string
}

// Search serves GET /search?q=&page=.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		q = h.DefaultQuery
	}
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "page must be an integer")
			return
		}
		page = n
	}

	ctx := r.Context()
	h.logLoad(ctx, h.Results.Open(ctx, q, page))
	h.render(w, r)
}

// Filters merges a filter patch. Nothing is fetched.
func (h *SearchHandler) Filters(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	var patch domain.FilterPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := h.Results.SetFilter(patch); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.render(w, r)
}

// Select applies a card or marker click. Ids outside the current view are
// ignored.
func (h *SearchHandler) Select(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	var req dto.SelectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	switch req.Source {
	case "map":
		h.Map.Click(req.ID)
	case "", "list":
		h.List.Click(req.ID)
	default:
		writeError(w, r, http.StatusBadRequest, "source must be list or map")
		return
	}
	h.render(w, r)
}

// Retry re-issues the current search after a failure.
func (h *SearchHandler) Retry(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	ctx := r.Context()
	h.logLoad(ctx, h.Results.Retry(ctx))
	h.render(w, r)
}

func (h *SearchHandler) render(w http.ResponseWriter, r *http.Request) {
	s := h.Results.Snapshot()

	writeJSON(w, r, http.StatusOK, dto.SearchResponse{
		Query:    s.Query,
		Page:     s.Page,
		Filter:   s.Filter,
		Selected: s.Selected,
		Location: locationView(r.Context(), h.Provider, h.Geocoder),
		List:     views.RenderList(s),
		Map:      views.RenderMap(s, h.Map),
	})
}

// Fetch failures are rendered inline from the snapshot.
func (h *SearchHandler) logLoad(ctx context.Context, err error) {
	if err != nil {
		obs.Logger("api").Warnw("search failed", "req_id", obs.RequestID(ctx), "err", err)
	}
}

func isNotReady(err error) bool {
	return errors.Is(err, domain.ErrInputsNotReady)
}
