package main

import (
	"context"
	"database/sql"
	"errors"
	"localfinder/internal/adapters/cache"
	"localfinder/internal/adapters/catalog"
	"localfinder/internal/adapters/geolocation"
	"localfinder/internal/adapters/store"
	"localfinder/internal/api"
	"localfinder/internal/config"
	"localfinder/internal/domain"
	"localfinder/internal/location"
	"localfinder/internal/platform/db"
	"localfinder/internal/platform/obs"
	"localfinder/internal/ports"
	"localfinder/internal/results"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

const geolocationTimeout = 10 * time.Second

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres, Redis, the places API) behind
// ports and starts the HTTP server.
func main() {
	cfg, loadedEnv := config.Load()

	if err := obs.Init(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer obs.Sync()
	log := obs.Logger("main")

	if !loadedEnv {
		log.Info("No .env file found (using environment variables)")
	}

	if err := run(cfg); err != nil {
		log.Errorw("server stopped", "err", err)
		obs.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	log := obs.Logger("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, locStore, geoCache, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Redis shares the response cache between instances; without it every
	// process keeps its own in memory.
	var responses ports.ResponseCache = cache.NewMemoryResponseCache()
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisResponseCacheFromURL(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rc.Close()
		responses = rc
	}

	client, err := catalog.NewClient(cfg.PlacesAPIURL,
		catalog.WithTimeout(cfg.RequestTimeout),
		catalog.WithResponseCache(responses),
		catalog.WithGeocodeCache(geoCache),
	)
	if err != nil {
		return err
	}

	geo, err := newGeolocator(cfg)
	if err != nil {
		return err
	}

	fallback := domain.Coordinate{Lat: cfg.DefaultLat, Lon: cfg.DefaultLon}
	if err := fallback.Validate(); err != nil {
		return err
	}

	provider := location.NewProvider(locStore, geo, fallback)
	here, err := provider.Activate(ctx)
	if err != nil {
		// Non-fatal: the fallback coordinate is in use.
		log.Warnw("location unavailable, using default", "err", err, "coordinate", here.String())
	}

	controller := results.NewController(client, results.Options{
		PageSize:     cfg.PageSize,
		RadiusMeters: cfg.SearchRadiusMeters,
	})
	if err := controller.SetLocation(ctx, here); err != nil {
		return err
	}

	router := api.NewRouter(api.Deps{
		Catalog:      client,
		Geocoder:     client,
		Location:     provider,
		Results:      controller,
		DefaultQuery: cfg.DefaultQuery,
		PublicURL:    cfg.PublicURL,
	})

	// Write timeout leaves room for a catalog call at its full ceiling.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("Server listening", "addr", srv.Addr, "places_api", cfg.PlacesAPIURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStorage picks Postgres when DATABASE_URL is set and a local SQLite file
// otherwise. The schema is created on startup for local runs.
func openStorage(cfg *config.Config) (*sql.DB, ports.LocationStore, ports.GeocodeCache, error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := store.InitPostgresSchema(conn); err != nil {
			conn.Close()
			return nil, nil, nil, err
		}
		return conn, store.NewSQLLocationStore(conn), cache.NewSQLGeocodeCache(conn), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, nil, nil, err
	}
	conn, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := store.InitSchema(conn); err != nil {
		conn.Close()
		return nil, nil, nil, err
	}
	return conn, store.NewSqliteLocationStore(conn), cache.NewSqliteGeocodeCache(conn), nil
}

func newGeolocator(cfg *config.Config) (ports.Geolocator, error) {
	switch cfg.Geolocator {
	case "ipapi":
		return geolocation.NewIPAPIGeolocator(cfg.GeolocatorURL, geolocationTimeout)
	case "static":
		return geolocation.NewStaticGeolocator(domain.Coordinate{Lat: cfg.DefaultLat, Lon: cfg.DefaultLon}), nil
	case "none", "":
		return nil, nil
	}
	return nil, errors.New("GEOLOCATOR must be ipapi, static or none")
}
