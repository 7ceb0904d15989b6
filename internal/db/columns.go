package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"contentflow/internal/models"
)

const columnColumns = `id, agency_id, column_id, name, color, ord, is_system,
	created_at, updated_at`

func scanColumn(row pgx.Row) (*models.ColumnDefinition, error) {
	var c models.ColumnDefinition
	err := row.Scan(
		&c.ID,
		&c.AgencyID,
		&c.ColumnID,
		&c.Name,
		&c.Color,
		&c.Order,
		&c.IsSystem,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrColumnNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListColumns returns an agency's kanban columns in display order.
func (d *DB) ListColumns(ctx context.Context, agencyID uuid.UUID) ([]models.ColumnDefinition, error) {
	query := `
		SELECT ` + columnColumns + `
		FROM kanban_columns
		WHERE agency_id = $1
		ORDER BY ord, created_at
	`
	rows, err := d.Pool.Query(ctx, query, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []models.ColumnDefinition
	for rows.Next() {
		c, err := scanColumn(rows)
		if err != nil {
			return nil, err
		}
		cols = append(cols, *c)
	}
	return cols, rows.Err()
}

// GetColumn retrieves a column definition by its row ID.
func (d *DB) GetColumn(ctx context.Context, id uuid.UUID) (*models.ColumnDefinition, error) {
	query := `SELECT ` + columnColumns + ` FROM kanban_columns WHERE id = $1`
	return scanColumn(d.Pool.QueryRow(ctx, query, id))
}

// UpsertColumn creates or updates a column definition, keyed on
// (agency_id, column_id). System flags are preserved on update.
func (d *DB) UpsertColumn(ctx context.Context, c *models.ColumnDefinition) error {
	query := `
		INSERT INTO kanban_columns (agency_id, column_id, name, color, ord, is_system)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (agency_id, column_id) DO UPDATE
		SET name = EXCLUDED.name, color = EXCLUDED.color, ord = EXCLUDED.ord,
			updated_at = now()
		RETURNING id, is_system, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		c.AgencyID, c.ColumnID, c.Name, c.Color, c.Order, c.IsSystem,
	).Scan(&c.ID, &c.IsSystem, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateColumn
		}
		return err
	}
	return nil
}

// DeleteColumn removes a column. System columns are refused.
func (d *DB) DeleteColumn(ctx context.Context, id uuid.UUID) error {
	col, err := d.GetColumn(ctx, id)
	if err != nil {
		return err
	}
	if col.IsSystem {
		return ErrSystemColumn
	}

	tag, err := d.Pool.Exec(ctx, `DELETE FROM kanban_columns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrColumnNotFound
	}
	return nil
}

// SeedDefaultColumns inserts the system columns for an agency. Existing
// columns are left untouched.
func (d *DB) SeedDefaultColumns(ctx context.Context, agencyID uuid.UUID) error {
	query := `
		INSERT INTO kanban_columns (agency_id, column_id, name, color, ord, is_system)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (agency_id, column_id) DO NOTHING
	`
	for _, c := range models.DefaultColumns(agencyID) {
		if _, err := d.Pool.Exec(ctx, query, agencyID, c.ColumnID, c.Name, c.Color, c.Order); err != nil {
			return err
		}
	}
	return nil
}
