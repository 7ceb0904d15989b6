package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"contentflow/internal/models"
)

const userColumns = `id, sub, email, name, picture, role, agency_id, client_id,
	created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var agencyID *uuid.UUID
	err := row.Scan(
		&u.ID,
		&u.Sub,
		&u.Email,
		&u.Name,
		&u.Picture,
		&u.Role,
		&agencyID,
		&u.ClientID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if agencyID != nil {
		u.AgencyID = *agencyID
	}
	return &u, nil
}

// UpsertUser creates or updates a user by OIDC subject.
func (d *DB) UpsertUser(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (sub, email, name, picture, role, agency_id, client_id)
		VALUES ($1, $2, $3, $4, COALESCE(NULLIF($5, ''), 'member'), $6, $7)
		ON CONFLICT (sub) DO UPDATE
		SET email = EXCLUDED.email, name = EXCLUDED.name,
			picture = EXCLUDED.picture, updated_at = now()
		RETURNING id, role, agency_id, client_id, created_at, updated_at
	`
	var agencyID *uuid.UUID
	if u.AgencyID != uuid.Nil {
		agencyID = &u.AgencyID
	}
	var gotAgency *uuid.UUID
	err := d.Pool.QueryRow(ctx, query,
		u.Sub, u.Email, u.Name, u.Picture, u.Role, agencyID, u.ClientID,
	).Scan(&u.ID, &u.Role, &gotAgency, &u.ClientID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return err
	}
	if gotAgency != nil {
		u.AgencyID = *gotAgency
	}
	return nil
}

// GetUserBySub retrieves a user by OIDC subject identifier.
func (d *DB) GetUserBySub(ctx context.Context, sub string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE sub = $1`
	return scanUser(d.Pool.QueryRow(ctx, query, sub))
}

// GetUserByID retrieves a user by ID.
func (d *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(d.Pool.QueryRow(ctx, query, id))
}

// UpdateUserAgency assigns a user to an agency.
func (d *DB) UpdateUserAgency(ctx context.Context, userID, agencyID uuid.UUID) error {
	query := `
		UPDATE users SET agency_id = $2, updated_at = now()
		WHERE id = $1
		RETURNING id
	`
	var got uuid.UUID
	err := d.Pool.QueryRow(ctx, query, userID, agencyID).Scan(&got)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}

// GetAgencyStaffEmails returns the email addresses of an agency's staff,
// used for transition alert notifications.
func (d *DB) GetAgencyStaffEmails(ctx context.Context, agencyID uuid.UUID) ([]string, error) {
	query := `
		SELECT email FROM users
		WHERE agency_id = $1 AND role IN ('member', 'manager', 'admin') AND email <> ''
	`
	rows, err := d.Pool.Query(ctx, query, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}
