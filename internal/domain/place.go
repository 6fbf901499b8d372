package domain

// Place open/closed status as reported by the backend.
type PlaceStatus string

const (
	StatusOpen        PlaceStatus = "open"
	StatusClosingSoon PlaceStatus = "closing-soon"
	StatusClosed      PlaceStatus = "closed"
	StatusUnknown     PlaceStatus = ""
)

const defaultPriceRank = 2

// Label returns the human readable status shown on cards.
func (s PlaceStatus) Label() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusClosingSoon:
		return "Closing Soon"
	case StatusClosed:
		return "Closed"
	}
	return ""
}

// Schedule is one line of opening hours, e.g. {"Monday", "9:00 AM - 10:00 PM"}.
type Schedule struct {
	Day   string `json:"day"`
	Hours string `json:"hours"`
}

// Place is a single result received from the catalog.
// It is treated as an immutable value: a new query supersedes the slice
// holding it, nothing mutates it in place.
type Place struct {
	ID            string
	Name          string
	Category      string
	PriceLevel    string
	Rating        *float64
	ReviewCount   *int
	Status        PlaceStatus
	DistanceValue float64
	DistanceLabel string
	Location      Coordinate

	Image   string
	Photos  []string
	Address string
	Phone   string
	Website string
	Hours   []Schedule
}

// PriceRank maps "$".."$$$" onto 1..3. Unknown or absent levels rank as 2.
func PriceRank(level string) int {
	switch level {
	case "$":
		return 1
	case "$$":
		return 2
	case "$$$":
		return 3
	}
	return defaultPriceRank
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// LocationName is the reverse-geocoded label of a coordinate.
type LocationName struct {
	City  string `json:"city"`
	State string `json:"state,omitempty"`
}

func (n LocationName) String() string {
	if n.City == "" {
		return ""
	}
	if n.State == "" {
		return n.City
	}
	return n.City + ", " + n.State
}
