package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"contentflow/internal/models"
)

const creativeRequestColumns = `id, agency_id, client_id, title, request_type,
	job_status, text_content, caption_text, observations, reference_files,
	deadline, fulfilled_by_content_id, created_at, updated_at`

func scanCreativeRequest(row pgx.Row) (*models.CreativeRequest, error) {
	var r models.CreativeRequest
	err := row.Scan(
		&r.ID,
		&r.AgencyID,
		&r.ClientID,
		&r.Title,
		&r.RequestType,
		&r.JobStatus,
		&r.TextContent,
		&r.CaptionText,
		&r.Observations,
		&r.ReferenceFiles,
		&r.Deadline,
		&r.FulfilledByContentID,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCreativeRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateCreativeRequest inserts a new creative request in pending status.
func (d *DB) CreateCreativeRequest(ctx context.Context, r *models.CreativeRequest) error {
	query := `
		INSERT INTO creative_requests
			(agency_id, client_id, title, request_type, text_content,
			 caption_text, observations, reference_files, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, job_status, created_at, updated_at
	`
	files := r.ReferenceFiles
	if files == nil {
		files = []string{}
	}
	return d.Pool.QueryRow(ctx, query,
		r.AgencyID,
		r.ClientID,
		r.Title,
		r.RequestType,
		r.TextContent,
		r.CaptionText,
		r.Observations,
		files,
		r.Deadline,
	).Scan(&r.ID, &r.JobStatus, &r.CreatedAt, &r.UpdatedAt)
}

// GetCreativeRequest retrieves a creative request by ID.
func (d *DB) GetCreativeRequest(ctx context.Context, id uuid.UUID) (*models.CreativeRequest, error) {
	query := `SELECT ` + creativeRequestColumns + ` FROM creative_requests WHERE id = $1`
	return scanCreativeRequest(d.Pool.QueryRow(ctx, query, id))
}

// ListPendingCreativeRequests lists open requests for an agency, optionally
// filtered to a single client.
func (d *DB) ListPendingCreativeRequests(ctx context.Context, agencyID uuid.UUID, clientID *uuid.UUID) ([]models.CreativeRequest, error) {
	query := `
		SELECT ` + creativeRequestColumns + `
		FROM creative_requests
		WHERE agency_id = $1 AND job_status <> 'completed'
			AND ($2::uuid IS NULL OR client_id = $2)
		ORDER BY COALESCE(deadline, created_at), created_at, id
	`
	rows, err := d.Pool.Query(ctx, query, agencyID, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []models.CreativeRequest
	for rows.Next() {
		r, err := scanCreativeRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *r)
	}
	return reqs, rows.Err()
}

// UpdateCreativeRequestStatus moves a request through pending → in_progress
// → completed.
func (d *DB) UpdateCreativeRequestStatus(ctx context.Context, id uuid.UUID, jobStatus string) error {
	query := `
		UPDATE creative_requests
		SET job_status = $2, updated_at = now()
		WHERE id = $1
		RETURNING id
	`
	var got uuid.UUID
	err := d.Pool.QueryRow(ctx, query, id, jobStatus).Scan(&got)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrCreativeRequestNotFound
	}
	return err
}

// FulfillCreativeRequest marks a request completed and records the content
// piece produced for it. The link is explicit, never inferred.
func (d *DB) FulfillCreativeRequest(ctx context.Context, id, contentID uuid.UUID) error {
	query := `
		UPDATE creative_requests
		SET job_status = 'completed', fulfilled_by_content_id = $2, updated_at = now()
		WHERE id = $1
		RETURNING id
	`
	var got uuid.UUID
	err := d.Pool.QueryRow(ctx, query, id, contentID).Scan(&got)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrCreativeRequestNotFound
	}
	return err
}
