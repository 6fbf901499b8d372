package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"localfinder/internal/adapters/geolocation"
	"localfinder/internal/adapters/store"
	"localfinder/internal/api/dto"
	"localfinder/internal/domain"
	"localfinder/internal/location"
	"localfinder/internal/results"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

var manila = domain.Coordinate{Lat: 14.5995, Lon: 120.9842}

func rating(v float64) *float64 { return &v }

type fakeCatalog struct {
	mu        sync.Mutex
	places    []domain.Place
	searchErr error
	catErr    error
	searches  []domain.SearchQuery
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{places: []domain.Place{
		{ID: "42", Name: "Kape Tayo", Status: domain.StatusOpen, Rating: rating(4.6), DistanceValue: 300,
			Location: domain.Coordinate{Lat: 14.60, Lon: 120.98}, Website: "kapetayo.ph"},
		{ID: "7", Name: "Brew Lab", Status: domain.StatusOpen, Rating: rating(4.1), DistanceValue: 120,
			Location: domain.Coordinate{Lat: 14.61, Lon: 120.99}},
		{ID: "9", Name: "Night Cap", Status: domain.StatusClosed, Rating: rating(4.9), DistanceValue: 50,
			Location: domain.Coordinate{Lat: 14.59, Lon: 120.97}},
	}}
}

func (f *fakeCatalog) Search(_ context.Context, q domain.SearchQuery) (domain.SearchResult, error) {
	if !q.Ready() {
		return domain.SearchResult{}, domain.ErrInputsNotReady
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, q)
	if f.searchErr != nil {
		return domain.SearchResult{}, f.searchErr
	}
	return domain.SearchResult{
		Places: f.places,
		Pagination: domain.Pagination{
			TotalCount:  len(f.places),
			TotalPages:  1,
			CurrentPage: q.Page,
		},
	}, nil
}

func (f *fakeCatalog) setErrors(search, categories error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchErr = search
	f.catErr = categories
}

func (f *fakeCatalog) searchLog() []domain.SearchQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.SearchQuery(nil), f.searches...)
}

func (f *fakeCatalog) Detail(_ context.Context, id string) (domain.Place, error) {
	for _, p := range f.places {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Place{}, &domain.FetchError{Op: "places.detail", StatusCode: 404, Err: domain.ErrNotFound}
}

func (f *fakeCatalog) Featured(_ context.Context, at *domain.Coordinate) ([]domain.Place, error) {
	if at == nil {
		return nil, domain.ErrInputsNotReady
	}
	return f.places[:2], nil
}

func (f *fakeCatalog) Categories(context.Context) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.catErr != nil {
		return nil, f.catErr
	}
	cats := make([]domain.Category, 8)
	for i := range cats {
		cats[i] = domain.Category{ID: string(rune('a' + i)), Name: "Category"}
	}
	return cats, nil
}

func (f *fakeCatalog) Geocode(_ context.Context, text string) (domain.Coordinate, error) {
	if strings.EqualFold(text, "makati") {
		return domain.Coordinate{Lat: 14.5547, Lon: 121.0244}, nil
	}
	return domain.Coordinate{}, domain.ErrNotFound
}

func (f *fakeCatalog) ReverseGeocode(context.Context, *domain.Coordinate) (domain.LocationName, error) {
	return domain.LocationName{City: "Manila", State: "Metro Manila"}, nil
}

type fixture struct {
	srv      *httptest.Server
	catalog  *fakeCatalog
	results  *results.Controller
	provider *location.Provider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	cat := newFakeCatalog()
	prov := location.NewProvider(store.NewMemoryLocationStore(), geolocation.NewStaticGeolocator(manila), manila)
	c, err := prov.Activate(ctx)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}

	ctrl := results.NewController(cat, results.Options{})
	if err := ctrl.SetLocation(ctx, c); err != nil {
		t.Fatalf("set location: %v", err)
	}

	srv := httptest.NewServer(NewRouter(Deps{
		Catalog:      cat,
		Geocoder:     cat,
		Location:     prov,
		Results:      ctrl,
		DefaultQuery: "restaurants",
		PublicURL:    "http://localhost:8080",
	}))
	t.Cleanup(srv.Close)

	return &fixture{srv: srv, catalog: cat, results: ctrl, provider: prov}
}

func (f *fixture) do(t *testing.T, method, path, body string, out any) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, f.srv.URL+path, bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	var body map[string]string
	resp := f.do(t, http.MethodGet, "/health", "", &body)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("status = %d body = %v", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID")
	}

	resp = f.do(t, http.MethodPost, "/health", "", nil)
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health = %d, want 405", resp.StatusCode)
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	f := newFixture(t)

	req, _ := http.NewRequest(http.MethodGet, f.srv.URL+"/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("X-Request-ID = %q", got)
	}
}

func TestSearchRendersListAndMap(t *testing.T) {
	f := newFixture(t)

	var res dto.SearchResponse
	resp := f.do(t, http.MethodGet, "/search?q=coffee&page=1", "", &res)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	if res.Query != "coffee" || res.Page != 1 {
		t.Fatalf("query=%q page=%d", res.Query, res.Page)
	}
	if res.List.Status != results.StatusReady || len(res.List.Cards) != 2 {
		t.Fatalf("list status=%s cards=%d", res.List.Status, len(res.List.Cards))
	}
	if len(res.Map.Markers) != len(res.List.Cards) {
		t.Fatalf("markers=%d cards=%d", len(res.Map.Markers), len(res.List.Cards))
	}
	if res.Selected != "42" || !res.List.Cards[0].Active || !res.Map.Markers[0].Active {
		t.Fatalf("first place not auto-selected: %q", res.Selected)
	}
	if res.List.Pager == nil || res.List.Pager.Label != "Showing 1–3 of 3" {
		t.Fatalf("pager = %+v", res.List.Pager)
	}
	if res.Location.Name != "Manila, Metro Manila" {
		t.Fatalf("location name = %q", res.Location.Name)
	}
}

func TestSearchDefaultsQuery(t *testing.T) {
	f := newFixture(t)

	var res dto.SearchResponse
	f.do(t, http.MethodGet, "/search", "", &res)
	if res.Query != "restaurants" {
		t.Fatalf("query = %q, want restaurants", res.Query)
	}

	resp := f.do(t, http.MethodGet, "/search?page=abc", "", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad page = %d, want 400", resp.StatusCode)
	}
}

func TestSelectFromMapUpdatesList(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/search?q=coffee", "", nil)

	var res dto.SearchResponse
	f.do(t, http.MethodPost, "/search/select", `{"id":"7","source":"map"}`, &res)

	if res.Selected != "7" {
		t.Fatalf("selected = %q, want 7", res.Selected)
	}
	for _, c := range res.List.Cards {
		if c.Active != (c.ID == "7") {
			t.Fatalf("card %s active=%v", c.ID, c.Active)
		}
	}

	// Filtered-out places cannot be selected.
	f.do(t, http.MethodPost, "/search/select", `{"id":"9","source":"list"}`, &res)
	if res.Selected != "7" {
		t.Fatalf("selected = %q after selecting a closed place", res.Selected)
	}

	resp := f.do(t, http.MethodPost, "/search/select", `{"id":"7","source":"sidebar"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad source = %d", resp.StatusCode)
	}
}

func TestFiltersDoNotFetch(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/search?q=coffee", "", nil)
	before := len(f.catalog.searchLog())

	var res dto.SearchResponse
	resp := f.do(t, http.MethodPost, "/search/filters", `{"openNow":false,"sortBy":"distance"}`, &res)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(res.List.Cards) != 3 || res.List.Cards[0].ID != "9" {
		t.Fatalf("cards = %+v", res.List.Cards)
	}
	if len(f.catalog.searchLog()) != before {
		t.Fatal("filter change hit the catalog")
	}

	resp = f.do(t, http.MethodPost, "/search/filters", `{"sortBy":"cheapest"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid sort = %d, want 400", resp.StatusCode)
	}
	resp = f.do(t, http.MethodPost, "/search/filters", `{"colour":"red"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown field = %d, want 400", resp.StatusCode)
	}
}

func TestSearchFailureIsInlineAndRetryable(t *testing.T) {
	f := newFixture(t)
	f.catalog.setErrors(&domain.FetchError{Op: "places.search", StatusCode: 503}, nil)

	var res dto.SearchResponse
	resp := f.do(t, http.MethodGet, "/search?q=coffee", "", &res)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 with inline error", resp.StatusCode)
	}
	if res.List.Status != results.StatusError || !res.List.CanRetry {
		t.Fatalf("list = %+v", res.List)
	}

	f.catalog.setErrors(nil, nil)

	f.do(t, http.MethodPost, "/search/retry", "", &res)
	if res.List.Status != results.StatusReady {
		t.Fatalf("after retry status = %s", res.List.Status)
	}
}

func TestPlaceDetail(t *testing.T) {
	f := newFixture(t)

	var res dto.PlaceDetailResponse
	resp := f.do(t, http.MethodGet, "/place/42", "", &res)
	if resp.StatusCode != http.StatusOK || res.Status != dto.DetailReady {
		t.Fatalf("status = %d %s", resp.StatusCode, res.Status)
	}
	if res.DirectionsURL != "https://www.google.com/maps/dir/?api=1&destination=14.6,120.98" {
		t.Fatalf("directions = %q", res.DirectionsURL)
	}
	if res.WebsiteURL != "https://kapetayo.ph" {
		t.Fatalf("website = %q", res.WebsiteURL)
	}
	if res.Share == nil || res.Share.URL != "http://localhost:8080/place/42" {
		t.Fatalf("share = %+v", res.Share)
	}

	res = dto.PlaceDetailResponse{}
	resp = f.do(t, http.MethodGet, "/place/nope", "", &res)
	if resp.StatusCode != http.StatusNotFound || res.Status != dto.DetailNotFound || res.BackHref != "/search" {
		t.Fatalf("missing place = %d %+v", resp.StatusCode, res)
	}
}

func TestManualLocationDrivesSearch(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/search?q=coffee", "", nil)

	var loc dto.LocationResponse
	resp := f.do(t, http.MethodPost, "/location", `{"query":"Makati"}`, &loc)
	if resp.StatusCode != http.StatusOK || !loc.Manual {
		t.Fatalf("status = %d loc = %+v", resp.StatusCode, loc)
	}

	s := f.results.Snapshot()
	want := domain.Coordinate{Lat: 14.5547, Lon: 121.0244}
	if s.Coordinate == nil || *s.Coordinate != want || s.Page != 1 {
		t.Fatalf("results coordinate = %v page = %d", s.Coordinate, s.Page)
	}
	log := f.catalog.searchLog()
	last := log[len(log)-1]
	if *last.Coordinate != want {
		t.Fatalf("last search at %+v, want %+v", *last.Coordinate, want)
	}

	resp = f.do(t, http.MethodPost, "/location", `{"query":"Atlantis"}`, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown place = %d, want 404", resp.StatusCode)
	}

	resp = f.do(t, http.MethodPost, "/location", `{"lat":95,"lon":0}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid coordinate = %d, want 400", resp.StatusCode)
	}

	resp = f.do(t, http.MethodPost, "/location", `{}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty body = %d, want 400", resp.StatusCode)
	}
}

func TestLocationRefreshFailureKeepsCoordinate(t *testing.T) {
	f := newFixture(t)
	// Swap in a provider whose geolocation always fails.
	prov := location.NewProvider(store.NewMemoryLocationStore(), geolocation.NewUnsupportedGeolocator("denied"), manila)
	srv := httptest.NewServer(NewRouter(Deps{
		Catalog:  f.catalog,
		Geocoder: f.catalog,
		Location: prov,
		Results:  f.results,
	}))
	defer srv.Close()
	f.srv = srv

	var loc dto.LocationResponse
	resp := f.do(t, http.MethodPost, "/location/refresh", "", &loc)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if loc.Coordinate == nil || *loc.Coordinate != manila || !loc.IsDefault || loc.Notice == "" || !loc.EnableLocation {
		t.Fatalf("location = %+v", loc)
	}

	loc = dto.LocationResponse{}
	f.do(t, http.MethodPost, "/location/dismiss", "", &loc)
	if loc.Notice != "" {
		t.Fatalf("notice after dismiss = %q", loc.Notice)
	}
}

func TestHomeSectionsFailIndependently(t *testing.T) {
	f := newFixture(t)
	f.catalog.setErrors(nil, errors.Join(domain.ErrTimeout, errors.New("deadline")))

	var res dto.HomeResponse
	resp := f.do(t, http.MethodGet, "/", "", &res)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if res.CategoriesError == "" || len(res.Categories) != 0 {
		t.Fatalf("categories = %+v err = %q", res.Categories, res.CategoriesError)
	}
	if len(res.Featured) != 2 || res.FeaturedError != "" {
		t.Fatalf("featured = %d err = %q", len(res.Featured), res.FeaturedError)
	}

	f.catalog.setErrors(nil, nil)
	res = dto.HomeResponse{}
	f.do(t, http.MethodGet, "/", "", &res)
	if len(res.QuickCategories) != 6 || len(res.Categories) != 8 {
		t.Fatalf("quick = %d all = %d", len(res.QuickCategories), len(res.Categories))
	}
}

func TestUnknownPathIs404(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodGet, "/nowhere", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
