package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"contentflow/internal/models"
)

func scanAgency(row pgx.Row) (*models.Agency, error) {
	var a models.Agency
	err := row.Scan(&a.ID, &a.Name, &a.Slug, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAgencyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAgency creates a new agency tenant.
func (d *DB) CreateAgency(ctx context.Context, a *models.Agency) error {
	query := `
		INSERT INTO agencies (name, slug)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query, a.Name, a.Slug).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

// GetAgencyByID retrieves an agency by ID.
func (d *DB) GetAgencyByID(ctx context.Context, id uuid.UUID) (*models.Agency, error) {
	query := `SELECT id, name, slug, created_at, updated_at FROM agencies WHERE id = $1`
	return scanAgency(d.Pool.QueryRow(ctx, query, id))
}

// GetAgencyBySlug retrieves an agency by slug.
func (d *DB) GetAgencyBySlug(ctx context.Context, slug string) (*models.Agency, error) {
	query := `SELECT id, name, slug, created_at, updated_at FROM agencies WHERE slug = $1`
	return scanAgency(d.Pool.QueryRow(ctx, query, slug))
}

// EnsureAgency creates the agency if the slug is unknown and returns it
// either way. Used when seeding from the YAML config.
func (d *DB) EnsureAgency(ctx context.Context, name, slug string) (*models.Agency, error) {
	a := &models.Agency{Name: name, Slug: slug}
	err := d.CreateAgency(ctx, a)
	if errors.Is(err, ErrDuplicateSlug) {
		return d.GetAgencyBySlug(ctx, slug)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
