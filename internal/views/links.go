package views

import (
	"fmt"
	"localfinder/internal/domain"
	"net/url"
	"strings"
)

// PlaceHref is the client route of a place detail page.
func PlaceHref(id string) string {
	return "/place/" + url.PathEscape(id)
}

// DirectionsURL is the external maps deep link to c.
func DirectionsURL(c domain.Coordinate) string {
	return fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%g,%g", c.Lat, c.Lon)
}

// WebsiteURL adds a scheme to bare hostnames such as "example.com".
func WebsiteURL(site string) string {
	site = strings.TrimSpace(site)
	if site == "" || strings.HasPrefix(site, "http") {
		return site
	}
	return "https://" + site
}

// SharePayload is handed to a native share sheet; clients without one copy
// URL to the clipboard.
type SharePayload struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

func Share(p domain.Place, pageURL string) SharePayload {
	return SharePayload{
		Title: p.Name,
		Text:  "Check out " + p.Name,
		URL:   pageURL,
	}
}
