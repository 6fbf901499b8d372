package handlers

import (
	"errors"
	"localfinder/internal/api/dto"
	"localfinder/internal/domain"
	"localfinder/internal/platform/obs"
	"localfinder/internal/ports"
	"localfinder/internal/views"
	"net/http"
	"strings"
)

const backToSearch = "/search"

// PlaceHandler renders the place detail page.
type PlaceHandler struct {
	Catalog ports.PlaceCatalog
	// PublicURL prefixes share links, e.g. "http://localhost:8080".
	PublicURL string
}

func (h *PlaceHandler) Detail(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()
	id := strings.TrimSpace(r.PathValue("id"))

	p, err := h.Catalog.Detail(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInputsNotReady):
		writeJSON(w, r, http.StatusNotFound, dto.PlaceDetailResponse{
			Status:   dto.DetailNotFound,
			Message:  "Place not found",
			BackHref: backToSearch,
		})
		return
	case err != nil:
		obs.Logger("api").Warnw("place detail failed", "req_id", obs.RequestID(ctx), "id", id, "err", err)
		writeJSON(w, r, http.StatusOK, dto.PlaceDetailResponse{
			Status:   dto.DetailError,
			Message:  "Failed to load place. Please try again.",
			CanRetry: true,
			BackHref: backToSearch,
		})
		return
	}

	place := toPlaceResponse(p)
	share := views.Share(p, strings.TrimRight(h.PublicURL, "/")+views.PlaceHref(p.ID))

	writeJSON(w, r, http.StatusOK, dto.PlaceDetailResponse{
		Status:        dto.DetailReady,
		BackHref:      backToSearch,
		Place:         &place,
		DirectionsURL: views.DirectionsURL(p.Location),
		WebsiteURL:    views.WebsiteURL(p.Website),
		Share:         &share,
	})
}

func toPlaceResponse(p domain.Place) dto.PlaceResponse {
	return dto.PlaceResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		PriceLevel:  p.PriceLevel,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		Status:      string(p.Status),
		StatusLabel: p.Status.Label(),
		Distance:    p.DistanceLabel,
		Lat:         p.Location.Lat,
		Lon:         p.Location.Lon,
		Image:       p.Image,
		Photos:      p.Photos,
		Address:     p.Address,
		Phone:       p.Phone,
		Website:     p.Website,
		Hours:       p.Hours,
		Href:        views.PlaceHref(p.ID),
	}
}
