package main

import (
	"context"
	"database/sql"
	"localfinder/internal/adapters/store"
	"localfinder/internal/config"
	"localfinder/internal/platform/db"
	"localfinder/internal/platform/obs"
	"localfinder/internal/ports"
	"os"
)

// dbtool prepares the persisted-state schema. With the "reset-location"
// argument it also forgets the stored user location.
func main() {
	cfg, loadedEnv := config.Load()
	_ = obs.Init(cfg.LogLevel)
	defer obs.Sync()
	log := obs.Logger("dbtool")

	if !loadedEnv {
		log.Info("No .env file found (using environment variables)")
	}

	conn, locStore, err := open(cfg)
	if err != nil {
		log.Fatalw("open database failed", "err", err)
	}
	defer conn.Close()

	log.Info("Schema ready.")

	if len(os.Args) > 1 && os.Args[1] == "reset-location" {
		if err := locStore.Clear(context.Background()); err != nil {
			log.Fatalw("reset location failed", "err", err)
		}
		log.Info("Persisted location cleared.")
	}
}

func open(cfg *config.Config) (*sql.DB, ports.LocationStore, error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		obs.Logger("dbtool").Info("Initializing Postgres schema...")
		if err := store.InitPostgresSchema(conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return conn, store.NewSQLLocationStore(conn), nil
	}

	conn, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	obs.Logger("dbtool").Infow("Initializing SQLite schema...", "path", cfg.DBPath)
	if err := store.InitSchema(conn); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, store.NewSqliteLocationStore(conn), nil
}
