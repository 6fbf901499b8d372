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
	"net/http"
	"strings"
)

// LocationHandler reads and overrides the user's location. Every change is
// pushed into the results controller so the search follows it from page 1.
type LocationHandler struct {
	Provider *location.Provider
	Geocoder ports.Geocoder
	Results  *results.Controller
}

// Location serves GET (current state) and POST (manual override).
func (h *LocationHandler) Location(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, r, http.StatusOK, locationView(r.Context(), h.Provider, h.Geocoder))
	case http.MethodPost:
		h.setManual(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *LocationHandler) setManual(w http.ResponseWriter, r *http.Request) {
	var req dto.LocationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	var c domain.Coordinate

	switch {
	case req.Lat != nil && req.Lon != nil:
		c = domain.Coordinate{Lat: *req.Lat, Lon: *req.Lon}
	case strings.TrimSpace(req.Query) != "":
		var err error
		c, err = h.Geocoder.Geocode(ctx, req.Query)
		if err != nil {
			writeGeocodeError(w, r, err)
			return
		}
	default:
		writeError(w, r, http.StatusBadRequest, "lat and lon, or query, are required")
		return
	}

	if err := h.Provider.SetManual(ctx, c); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.follow(ctx, c)

	writeJSON(w, r, http.StatusOK, locationView(ctx, h.Provider, h.Geocoder))
}

// Refresh re-runs geolocation. A failure still answers 200 with the notice
// set, since the previous or default coordinate stays usable.
func (h *LocationHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	ctx := r.Context()
	c, err := h.Provider.Refresh(ctx)
	if err != nil {
		obs.Logger("api").Infow("location refresh failed", "req_id", obs.RequestID(ctx), "err", err)
	}
	h.follow(ctx, c)

	writeJSON(w, r, http.StatusOK, locationView(ctx, h.Provider, h.Geocoder))
}

// Dismiss clears the location failure notice.
func (h *LocationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	h.Provider.DismissNotice()
	writeJSON(w, r, http.StatusOK, locationView(r.Context(), h.Provider, h.Geocoder))
}

func (h *LocationHandler) follow(ctx context.Context, c domain.Coordinate) {
	if s := h.Results.Snapshot(); s.Coordinate != nil && *s.Coordinate == c {
		return
	}
	if err := h.Results.SetLocation(ctx, c); err != nil {
		obs.Logger("api").Infow("search after location change failed", "req_id", obs.RequestID(ctx), "err", err)
	}
}

func writeGeocodeError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *domain.FetchError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "location not found")
	case errors.Is(err, domain.ErrInputsNotReady):
		writeError(w, r, http.StatusBadRequest, "query is required")
	case errors.As(err, &fe):
		obs.Logger("api").Warnw("geocode failed", "req_id", obs.RequestID(r.Context()), "err", err)
		writeError(w, r, http.StatusBadGateway, "geocoding failed, try again")
	default:
		obs.Logger("api").Errorw("geocode failed", "req_id", obs.RequestID(r.Context()), "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// locationView renders the provider state. The reverse-geocoded name is
// best effort.
func locationView(ctx context.Context, p *location.Provider, g ports.Geocoder) dto.LocationResponse {
	st := p.State()

	res := dto.LocationResponse{
		Coordinate:     st.Coordinate,
		IsDefault:      st.IsDefault,
		Manual:         st.Manual,
		Loading:        st.Loading,
		EnableLocation: st.Coordinate == nil || st.IsDefault,
	}
	if st.Err != nil {
		res.Notice = st.Err.Error()
	}

	if st.Coordinate != nil {
		name, err := g.ReverseGeocode(ctx, st.Coordinate)
		if err != nil {
			obs.Logger("api").Debugw("reverse geocode failed", "req_id", obs.RequestID(ctx), "err", err)
		}
		res.Name = name.String()
	}
	return res
}
