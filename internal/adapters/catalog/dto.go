package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"localfinder/internal/domain"
	"strings"
)

// placeID accepts either a JSON string or number; ids are opaque strings
// on our side.
type placeID string

func (p *placeID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = placeID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("place id: %w", err)
	}
	*p = placeID(n.String())
	return nil
}

type placeDTO struct {
	ID            placeID           `json:"id"`
	Name          string            `json:"name"`
	Category      string            `json:"category"`
	PriceLevel    string            `json:"priceLevel"`
	Rating        *float64          `json:"rating"`
	ReviewCount   *int              `json:"reviewCount"`
	Status        string            `json:"status"`
	Distance      string            `json:"distance"`
	DistanceValue *float64          `json:"distanceValue"`
	Lat           float64           `json:"lat"`
	Lon           float64           `json:"lon"`
	Image         string            `json:"image"`
	Photos        []string          `json:"photos"`
	Address       string            `json:"address"`
	Phone         string            `json:"phone"`
	Website       string            `json:"website"`
	Hours         []domain.Schedule `json:"hours"`
}

// toDomain converts the wire shape. When the backend omits distanceValue and
// an origin is known, the great-circle distance in meters stands in for it.
func (p placeDTO) toDomain(origin *domain.Coordinate) domain.Place {
	loc := domain.Coordinate{Lat: p.Lat, Lon: p.Lon}

	var rating *float64
	if p.Rating != nil && *p.Rating >= 0 && *p.Rating <= 5 {
		r := *p.Rating
		rating = &r
	}

	var reviews *int
	if p.ReviewCount != nil && *p.ReviewCount >= 0 {
		n := *p.ReviewCount
		reviews = &n
	}

	var dist float64
	switch {
	case p.DistanceValue != nil:
		dist = *p.DistanceValue
	case origin != nil:
		dist = origin.DistanceMeters(loc)
	}

	return domain.Place{
		ID:            string(p.ID),
		Name:          p.Name,
		Category:      p.Category,
		PriceLevel:    strings.TrimSpace(p.PriceLevel),
		Rating:        rating,
		ReviewCount:   reviews,
		Status:        parseStatus(p.Status),
		DistanceValue: dist,
		DistanceLabel: p.Distance,
		Location:      loc,
		Image:         p.Image,
		Photos:        append([]string(nil), p.Photos...),
		Address:       p.Address,
		Phone:         p.Phone,
		Website:       p.Website,
		Hours:         append([]domain.Schedule(nil), p.Hours...),
	}
}

func parseStatus(s string) domain.PlaceStatus {
	switch st := domain.PlaceStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case domain.StatusOpen, domain.StatusClosingSoon, domain.StatusClosed:
		return st
	}
	return domain.StatusUnknown
}

func placesToDomain(in []placeDTO, origin *domain.Coordinate) []domain.Place {
	out := make([]domain.Place, 0, len(in))
	for _, p := range in {
		out = append(out, p.toDomain(origin))
	}
	return out
}

type searchResponse struct {
	Data       []placeDTO         `json:"data"`
	Pagination *domain.Pagination `json:"pagination"`
}

type placeResponse struct {
	Data *placeDTO `json:"data"`
}

type placeListResponse struct {
	Data []placeDTO `json:"data"`
}

type categoriesResponse struct {
	Data []domain.Category `json:"data"`
}

type geocodeResponse struct {
	Success bool               `json:"success"`
	Data    *domain.Coordinate `json:"data"`
}

type reverseGeocodeResponse struct {
	Data *domain.LocationName `json:"data"`
}
