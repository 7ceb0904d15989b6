package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"contentflow/internal/models"
)

const clientColumns = `id, agency_id, name, responsible_approver_id,
	cities, states, regions, created_at, updated_at`

func scanClient(row pgx.Row) (*models.Client, error) {
	var c models.Client
	err := row.Scan(
		&c.ID,
		&c.AgencyID,
		&c.Name,
		&c.ResponsibleApproverID,
		&c.Cities,
		&c.States,
		&c.Regions,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateClient creates a new client under an agency.
func (d *DB) CreateClient(ctx context.Context, c *models.Client) error {
	query := `
		INSERT INTO clients (agency_id, name, cities, states, regions)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	cities, states, regions := c.Cities, c.States, c.Regions
	if cities == nil {
		cities = []string{}
	}
	if states == nil {
		states = []string{}
	}
	if regions == nil {
		regions = []string{}
	}
	return d.Pool.QueryRow(ctx, query,
		c.AgencyID, c.Name, cities, states, regions,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// GetClient retrieves a client by ID.
func (d *DB) GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return scanClient(d.Pool.QueryRow(ctx, query, id))
}

// ListClients returns all clients of an agency.
func (d *DB) ListClients(ctx context.Context, agencyID uuid.UUID) ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE agency_id = $1 ORDER BY name`
	rows, err := d.Pool.Query(ctx, query, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

// SetResponsibleApprover designates the user allowed to approve this
// client's content.
func (d *DB) SetResponsibleApprover(ctx context.Context, clientID, userID uuid.UUID) error {
	query := `
		UPDATE clients
		SET responsible_approver_id = $2, updated_at = now()
		WHERE id = $1
		RETURNING id
	`
	var got uuid.UUID
	err := d.Pool.QueryRow(ctx, query, clientID, userID).Scan(&got)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrClientNotFound
	}
	return err
}
