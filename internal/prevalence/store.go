// internal/prevalence/store.go

// Package prevalence reads weekly regional prevalence from postgres with a
// redis cache in front, falling back from a region to the national series.
package prevalence

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"
)

const selectWeekly = `
	SELECT prevalence
	FROM cdc_weekly_prevalence
	WHERE region = $1 AND iso_week = $2`

// Store reads the prevalence table.
type Store interface {
	Weekly(ctx context.Context, region string, week int) (float64, bool, error)
}

// Cache holds prevalence values by key. *database.RedisClient implements it.
type Cache interface {
	GetFloat(ctx context.Context, key string) (float64, bool, error)
	SetFloat(ctx context.Context, key string, v float64, expiration time.Duration) error
}

// PostgresStore is a Store over cdc_weekly_prevalence.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Weekly returns the prevalence for (region, week). A missing row is
// (0, false, nil).
func (s *PostgresStore) Weekly(ctx context.Context, region string, week int) (float64, bool, error) {
	var v float64
	err := s.db.QueryRowContext(ctx, selectWeekly, region, week).Scan(&v)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query weekly prevalence %s/%d: %w", region, week, err)
	}
	return v, true, nil
}

