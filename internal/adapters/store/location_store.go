package store

import (
	"encoding/json"
	"fmt"
	"localfinder/internal/domain"
)

// LocationKey is the single key under which the last known coordinate lives.
const LocationKey = "user-location"

func encodeLocation(c domain.Coordinate) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode location: %w", err)
	}
	return string(b), nil
}

// A stored value that does not decode, or decodes off the globe, is treated as
// absent rather than an error.
func decodeLocation(raw string) (domain.Coordinate, bool) {
	var c domain.Coordinate
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return domain.Coordinate{}, false
	}
	if err := c.Validate(); err != nil {
		return domain.Coordinate{}, false
	}
	return c, true
}
