package handlers

import (
	"localfinder/internal/api/dto"
	"localfinder/internal/domain"
	"localfinder/internal/location"
	"localfinder/internal/platform/obs"
	"localfinder/internal/ports"
	"net/http"
)

const quickCategoryCount = 6

// HomeHandler renders the landing page. Each section fails on its own.
type HomeHandler struct {
	Catalog  ports.PlaceCatalog
	Geocoder ports.Geocoder
	Provider *location.Provider
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()
	log := obs.Logger("api")
	res := dto.HomeResponse{
		Location:        locationView(ctx, h.Provider, h.Geocoder),
		QuickCategories: []domain.Category{},
		Categories:      []domain.Category{},
		Featured:        []dto.PlaceResponse{},
	}

	cats, err := h.Catalog.Categories(ctx)
	if err != nil {
		log.Warnw("categories failed", "req_id", obs.RequestID(ctx), "err", err)
		res.CategoriesError = "Failed to load categories."
	} else {
		res.Categories = cats
		res.QuickCategories = cats[:min(quickCategoryCount, len(cats))]
	}

	featured, err := h.Catalog.Featured(ctx, res.Location.Coordinate)
	switch {
	case err == nil:
		for _, p := range featured {
			res.Featured = append(res.Featured, toPlaceResponse(p))
		}
	case isNotReady(err):
		// no coordinate yet
	default:
		log.Warnw("featured failed", "req_id", obs.RequestID(ctx), "err", err)
		res.FeaturedError = "Failed to load places. Please try again."
	}

	writeJSON(w, r, http.StatusOK, res)
}
