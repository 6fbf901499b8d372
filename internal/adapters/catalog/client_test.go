package catalog

import (
	"context"
	"errors"
	"fmt"
	"localfinder/internal/domain"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const searchBody = `{
  "data": [
    {"id": 42, "name": "Kape Tayo", "category": "Cafe", "priceLevel": "$", "rating": 4.6,
     "reviewCount": 120, "status": "open", "distance": "0.3 km", "distanceValue": 300,
     "lat": 14.6, "lon": 120.98},
    {"id": "b-7", "name": "Late Bar", "category": "Bar", "priceLevel": "$$$",
     "status": "closed", "lat": 14.61, "lon": 120.99}
  ],
  "pagination": {"totalCount": 12, "totalPages": 2, "currentPage": 1, "hasPrevPage": false, "hasNextPage": true}
}`

func here() *domain.Coordinate { return &domain.Coordinate{Lat: 14.5995, Lon: 120.9842} }

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/api", opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestSearchDecodesPlacesAndPagination(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/places/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, searchBody)
	}))

	res, err := c.Search(context.Background(), domain.SearchQuery{
		Text: "coffee", Coordinate: here(), RadiusMeters: 5000, Page: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "lat=14.5995&limit=10&lon=120.9842&page=1&q=coffee&radius=5000"
	if gotQuery != want {
		t.Fatalf("query = %q, want %q", gotQuery, want)
	}

	if len(res.Places) != 2 {
		t.Fatalf("got %d places, want 2", len(res.Places))
	}
	p := res.Places[0]
	if p.ID != "42" || p.Status != domain.StatusOpen || p.DistanceValue != 300 {
		t.Fatalf("first place = %+v", p)
	}
	if p.Rating == nil || *p.Rating != 4.6 {
		t.Fatalf("rating = %v, want 4.6", p.Rating)
	}

	// Missing distanceValue falls back to distance from the query origin.
	if d := res.Places[1].DistanceValue; d < 1000 || d > 2000 {
		t.Fatalf("computed distance = %.0f, want ~1.5km", d)
	}
	if res.Places[1].Rating != nil {
		t.Fatalf("absent rating decoded as %v", *res.Places[1].Rating)
	}

	if res.Pagination.TotalCount != 12 || !res.Pagination.HasNextPage {
		t.Fatalf("pagination = %+v", res.Pagination)
	}
}

func TestMissingInputsSkipNetwork(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	ctx := context.Background()

	if _, err := c.Search(ctx, domain.SearchQuery{Text: "coffee"}); !errors.Is(err, domain.ErrInputsNotReady) {
		t.Errorf("search without coordinate: err = %v", err)
	}
	if _, err := c.Search(ctx, domain.SearchQuery{Text: " ", Coordinate: here()}); !errors.Is(err, domain.ErrInputsNotReady) {
		t.Errorf("search without text: err = %v", err)
	}
	if _, err := c.Detail(ctx, ""); !errors.Is(err, domain.ErrInputsNotReady) {
		t.Errorf("detail without id: err = %v", err)
	}
	if _, err := c.Featured(ctx, nil); !errors.Is(err, domain.ErrInputsNotReady) {
		t.Errorf("featured without coordinate: err = %v", err)
	}
	if _, err := c.Geocode(ctx, "   "); !errors.Is(err, domain.ErrInputsNotReady) {
		t.Errorf("geocode without text: err = %v", err)
	}
	if _, err := c.ReverseGeocode(ctx, nil); !errors.Is(err, domain.ErrInputsNotReady) {
		t.Errorf("reverse geocode without coordinate: err = %v", err)
	}

	if n := hits.Load(); n != 0 {
		t.Fatalf("network calls = %d, want 0", n)
	}
}

func TestConcurrentIdenticalSearchesCoalesce(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})

	// Zero TTLs disable the response cache so only coalescing can dedupe.
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		fmt.Fprint(w, searchBody)
	}), WithTTLs(TTLs{}))

	q := domain.SearchQuery{Text: "coffee", Coordinate: here(), RadiusMeters: 5000, Page: 1, PageSize: 10}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]domain.SearchResult, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Search(context.Background(), q)
		}(i)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hits.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := hits.Load(); n != 1 {
		t.Fatalf("network calls = %d, want 1", n)
	}
	for i := range errs {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if len(results[i].Places) != 2 {
			t.Fatalf("caller %d got %d places", i, len(results[i].Places))
		}
	}
}

func TestSearchServedFromCacheWithinStalenessWindow(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, searchBody)
	}))

	q := domain.SearchQuery{Text: "coffee", Coordinate: here(), Page: 1, PageSize: 10}
	for i := 0; i < 3; i++ {
		if _, err := c.Search(context.Background(), q); err != nil {
			t.Fatalf("search %d: %v", i, err)
		}
	}

	q.Page = 2
	if _, err := c.Search(context.Background(), q); err != nil {
		t.Fatalf("search page 2: %v", err)
	}

	if n := hits.Load(); n != 2 {
		t.Fatalf("network calls = %d, want 2 (one per distinct key)", n)
	}
}

func TestDetailNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"place not found"}`, http.StatusNotFound)
	}))

	_, err := c.Detail(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	var fe *domain.FetchError
	if !errors.As(err, &fe) || fe.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %v, want FetchError with 404", err)
	}
}

func TestServerErrorIsFetchError(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.Categories(context.Background())

	var fe *domain.FetchError
	if !errors.As(err, &fe) || fe.StatusCode != http.StatusBadGateway {
		t.Fatalf("err = %v, want FetchError 502", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Fatal("502 must not be reported as not found")
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("network calls = %d, want 1 (no retries)", n)
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}), WithTimeout(50*time.Millisecond))

	_, err := c.Featured(context.Background(), here())
	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

type fakeGeocodeCache struct {
	mu   sync.Mutex
	rows map[string]domain.Coordinate
}

func (f *fakeGeocodeCache) GetMany(_ context.Context, texts []string) (map[string]domain.Coordinate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]domain.Coordinate{}
	for _, t := range texts {
		if c, ok := f.rows[t]; ok {
			out[t] = c
		}
	}
	return out, nil
}

func (f *fakeGeocodeCache) PutMany(_ context.Context, results map[string]domain.Coordinate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, v := range results {
		f.rows[k] = v
	}
	return nil
}

func TestGeocodeUsesPersistentCache(t *testing.T) {
	var hits atomic.Int32
	gc := &fakeGeocodeCache{rows: map[string]domain.Coordinate{}}

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if got := r.URL.Query().Get("location"); got != "makati city" {
			t.Errorf("location = %q", got)
		}
		fmt.Fprint(w, `{"success": true, "data": {"lat": 14.5547, "lon": 121.0244}}`)
	}), WithGeocodeCache(gc), WithTTLs(TTLs{}))

	ctx := context.Background()
	first, err := c.Geocode(ctx, "  Makati   City")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	second, err := c.Geocode(ctx, "makati city")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}

	if first != second || first.Lat != 14.5547 {
		t.Fatalf("coordinates = %+v / %+v", first, second)
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("network calls = %d, want 1", n)
	}
}

func TestGeocodeUnsuccessfulIsNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": false}`)
	}))

	if _, err := c.Geocode(context.Background(), "atlantis"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReverseGeocodeAndCategories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/places/reverse-geocode", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"city": "Manila", "state": "Metro Manila"}}`)
	})
	mux.HandleFunc("/api/places/categories", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [{"id": "cafe", "name": "Cafes", "icon": "local_cafe"}]}`)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	name, err := c.ReverseGeocode(ctx, here())
	if err != nil {
		t.Fatalf("reverse geocode: %v", err)
	}
	if name.String() != "Manila, Metro Manila" {
		t.Fatalf("name = %q", name.String())
	}

	cats, err := c.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != 1 || cats[0].ID != "cafe" {
		t.Fatalf("categories = %+v", cats)
	}
}
