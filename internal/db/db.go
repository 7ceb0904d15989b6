package db

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"contentflow/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Ping verifies the database connection.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// SeedDevEvents inserts a few historical events for development. Skips days
// that already have an identical entry.
func (d *DB) SeedDevEvents(ctx context.Context) error {
	events := []struct {
		date    string
		title   string
		cities  []string
		states  []string
		regions []string
	}{
		{"2024-01-25", "Aniversário de São Paulo", []string{"São Paulo"}, nil, nil},
		{"2024-03-01", "Aniversário do Rio de Janeiro", []string{"Rio de Janeiro"}, nil, nil},
		{"2024-06-24", "São João", nil, nil, []string{"Nordeste"}},
		{"2024-09-07", "Independência do Brasil", nil, nil, nil},
	}

	query := `
		INSERT INTO historical_events (event_date, title, cities, states, regions)
		SELECT $1::date, $2, $3, $4, $5
		WHERE NOT EXISTS (
			SELECT 1 FROM historical_events WHERE event_date = $1::date AND title = $2
		)
	`

	for _, e := range events {
		if _, err := d.Pool.Exec(ctx, query, e.date, e.title, e.cities, e.states, e.regions); err != nil {
			return fmt.Errorf("failed to seed event %s: %w", e.title, err)
		}
	}

	return nil
}
