package api

import (
	"localfinder/internal/api/handlers"
	"localfinder/internal/location"
	"localfinder/internal/ports"
	"localfinder/internal/results"
	"localfinder/internal/views"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Catalog  ports.PlaceCatalog
	Geocoder ports.Geocoder
	Location *location.Provider
	Results  *results.Controller

	DefaultQuery string
	PublicURL    string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	homeHandler := &handlers.HomeHandler{
		Catalog:  d.Catalog,
		Geocoder: d.Geocoder,
		Provider: d.Location,
	}
	searchHandler := &handlers.SearchHandler{
		Results:      d.Results,
		List:         views.NewListView(d.Results),
		Map:          views.NewMapView(d.Results),
		Provider:     d.Location,
		Geocoder:     d.Geocoder,
		DefaultQuery: d.DefaultQuery,
	}
	placeHandler := &handlers.PlaceHandler{
		Catalog:   d.Catalog,
		PublicURL: d.PublicURL,
	}
	locationHandler := &handlers.LocationHandler{
		Provider: d.Location,
		Geocoder: d.Geocoder,
		Results:  d.Results,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/{$}", homeHandler.Home)
	mux.HandleFunc("/search", searchHandler.Search)
	mux.HandleFunc("/search/filters", searchHandler.Filters)
	mux.HandleFunc("/search/select", searchHandler.Select)
	mux.HandleFunc("/search/retry", searchHandler.Retry)
	mux.HandleFunc("/place/{id}", placeHandler.Detail)
	mux.HandleFunc("/location", locationHandler.Location)
	mux.HandleFunc("/location/refresh", locationHandler.Refresh)
	mux.HandleFunc("/location/dismiss", locationHandler.Dismiss)

	return requestIDMiddleware(loggingMiddleware(mux))
}
