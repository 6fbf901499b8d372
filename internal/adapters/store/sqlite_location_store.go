package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"localfinder/internal/domain"
)

// SQLite-backed implementation of the LocationStore port.
type SqliteLocationStore struct{ DB *sql.DB }

func NewSqliteLocationStore(db *sql.DB) *SqliteLocationStore {
	return &SqliteLocationStore{DB: db}
}

// Return the persisted coordinate, ok=false when none is stored.
func (s *SqliteLocationStore) Load(ctx context.Context) (domain.Coordinate, bool, error) {
	if s.DB == nil {
		return domain.Coordinate{}, false, errors.New("sqlite location store: DB is nil")
	}

	var raw string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?;`, LocationKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinate{}, false, nil
	}
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("load location: query kv_store: %w", err)
	}

	c, ok := decodeLocation(raw)
	return c, ok, nil
}

func (s *SqliteLocationStore) Save(ctx context.Context, c domain.Coordinate) error {
	if s.DB == nil {
		return errors.New("sqlite location store: DB is nil")
	}

	raw, err := encodeLocation(c)
	if err != nil {
		return err
	}

	query := `
	INSERT OR REPLACE INTO kv_store (
		key,
		value,
		updated_at
	)
	VALUES (?, ?, CURRENT_TIMESTAMP);
	`
	if _, err := s.DB.ExecContext(ctx, query, LocationKey, raw); err != nil {
		return fmt.Errorf("save location: upsert kv_store: %w", err)
	}
	return nil
}

func (s *SqliteLocationStore) Clear(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("sqlite location store: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?;`, LocationKey); err != nil {
		return fmt.Errorf("clear location: delete from kv_store: %w", err)
	}
	return nil
}
