package dto

import (
	"localfinder/internal/domain"
	"localfinder/internal/views"
)

type PlaceResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Category    string            `json:"category,omitempty"`
	PriceLevel  string            `json:"priceLevel,omitempty"`
	Rating      *float64          `json:"rating,omitempty"`
	ReviewCount *int              `json:"reviewCount,omitempty"`
	Status      string            `json:"status,omitempty"`
	StatusLabel string            `json:"statusLabel,omitempty"`
	Distance    string            `json:"distance,omitempty"`
	Lat         float64           `json:"lat"`
	Lon         float64           `json:"lon"`
	Image       string            `json:"image,omitempty"`
	Photos      []string          `json:"photos,omitempty"`
	Address     string            `json:"address,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	Website     string            `json:"website,omitempty"`
	Hours       []domain.Schedule `json:"hours,omitempty"`
	Href        string            `json:"href"`
}

// Detail page states.
const (
	DetailReady    = "ready"
	DetailError    = "error"
	DetailNotFound = "not_found"
)

type PlaceDetailResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	CanRetry bool   `json:"canRetry,omitempty"`
	BackHref string `json:"backHref"`

	Place         *PlaceResponse      `json:"place,omitempty"`
	DirectionsURL string              `json:"directionsUrl,omitempty"`
	WebsiteURL    string              `json:"websiteUrl,omitempty"`
	Share         *views.SharePayload `json:"share,omitempty"`
}
