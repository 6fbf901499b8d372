package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"localfinder/internal/domain"
	"localfinder/internal/platform/obs"
)

// Postgres-backed implementation of the LocationStore port.
type SQLLocationStore struct{ DB *sql.DB }

func NewSQLLocationStore(db *sql.DB) *SQLLocationStore {
	return &SQLLocationStore{DB: db}
}

func (s *SQLLocationStore) Load(ctx context.Context) (_ domain.Coordinate, _ bool, err error) {
	defer obs.Time(ctx, "location.store.Load")(&err)

	if s.DB == nil {
		return domain.Coordinate{}, false, errors.New("sql location store: DB is nil")
	}

	var raw string
	err = s.DB.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = $1;`, LocationKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinate{}, false, nil
	}
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("load location: query kv_store: %w", err)
	}

	c, ok := decodeLocation(raw)
	return c, ok, nil
}

func (s *SQLLocationStore) Save(ctx context.Context, c domain.Coordinate) error {
	if s.DB == nil {
		return errors.New("sql location store: DB is nil")
	}

	raw, err := encodeLocation(c)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO kv_store (key, value)
	VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE
	SET value = EXCLUDED.value,
		updated_at = now();
	`
	if _, err := s.DB.ExecContext(ctx, query, LocationKey, raw); err != nil {
		return fmt.Errorf("save location: upsert kv_store: %w", err)
	}
	return nil
}

func (s *SQLLocationStore) Clear(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("sql location store: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1;`, LocationKey); err != nil {
		return fmt.Errorf("clear location: delete from kv_store: %w", err)
	}
	return nil
}
