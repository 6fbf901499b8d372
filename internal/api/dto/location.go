package dto

import "localfinder/internal/domain"

// LocationRequest sets a manual location either by coordinate or by a text
// query that is geocoded first.
type LocationRequest struct {
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
	Query string   `json:"query"`
}

type LocationResponse struct {
	Coordinate *domain.Coordinate `json:"coordinate"`
	Name       string             `json:"name,omitempty"`
	IsDefault  bool               `json:"isDefault"`
	Manual     bool               `json:"manual"`
	Loading    bool               `json:"loading"`
	// Notice is the dismissible location failure message.
	Notice string `json:"notice,omitempty"`
	// EnableLocation asks the user to turn on location access.
	EnableLocation bool `json:"enableLocation"`
}
