package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"contentflow/internal/models"
)

// CreateAdjustmentRequest inserts an immutable adjustment request row.
func (d *DB) CreateAdjustmentRequest(ctx context.Context, r *models.AdjustmentRequest) error {
	query := `
		INSERT INTO adjustment_requests (content_id, reason, details, version, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	var createdBy *uuid.UUID
	if r.CreatedBy != uuid.Nil {
		createdBy = &r.CreatedBy
	}
	return d.Pool.QueryRow(ctx, query,
		r.ContentID, r.Reason, r.Details, r.Version, createdBy,
	).Scan(&r.ID, &r.CreatedAt)
}

// RecordChangesRequested inserts the adjustment request and moves the piece
// into its new workflow state in one transaction. A failed status update
// rolls the adjustment row back with it.
func (d *DB) RecordChangesRequested(ctx context.Context, p *models.ContentPiece, r *models.AdjustmentRequest) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var createdBy *uuid.UUID
	if r.CreatedBy != uuid.Nil {
		createdBy = &r.CreatedBy
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO adjustment_requests (content_id, reason, details, version, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.ContentID, r.Reason, r.Details, r.Version, createdBy).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		UPDATE content_pieces
		SET status = $2, version = $3, auto_publish = $4,
			scheduled_publish_at = $5, published_at = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, p.ID, p.Status, p.Version, p.AutoPublish, p.ScheduledPublishAt, p.PublishedAt).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrContentNotFound
	}
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetAdjustmentRequest retrieves one adjustment request with parent info
// when the parent still exists (the content reference is weak).
func (d *DB) GetAdjustmentRequest(ctx context.Context, id uuid.UUID) (*models.AdjustmentRequest, error) {
	query := `
		SELECT r.id, r.content_id, r.reason, r.details, r.version,
			COALESCE(r.created_by, '00000000-0000-0000-0000-000000000000'), r.created_at,
			COALESCE(p.client_id, '00000000-0000-0000-0000-000000000000'),
			COALESCE(p.title, ''), p.scheduled_at, p.created_at
		FROM adjustment_requests r
		LEFT JOIN content_pieces p ON p.id = r.content_id
		WHERE r.id = $1
	`
	var r models.AdjustmentRequest
	err := d.Pool.QueryRow(ctx, query, id).Scan(
		&r.ID, &r.ContentID, &r.Reason, &r.Details, &r.Version,
		&r.CreatedBy, &r.CreatedAt,
		&r.ClientID, &r.ContentTitle, &r.ParentScheduledAt, &r.ParentCreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAdjustmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListAdjustmentRequestsForContent returns the full additive history for a
// piece, oldest first.
func (d *DB) ListAdjustmentRequestsForContent(ctx context.Context, contentID uuid.UUID) ([]models.AdjustmentRequest, error) {
	query := `
		SELECT id, content_id, reason, details, version,
			COALESCE(created_by, '00000000-0000-0000-0000-000000000000'), created_at
		FROM adjustment_requests
		WHERE content_id = $1
		ORDER BY created_at, id
	`
	rows, err := d.Pool.Query(ctx, query, contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []models.AdjustmentRequest
	for rows.Next() {
		var r models.AdjustmentRequest
		if err := rows.Scan(&r.ID, &r.ContentID, &r.Reason, &r.Details, &r.Version,
			&r.CreatedBy, &r.CreatedAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, r)
	}
	return reqs, rows.Err()
}

// ListAdjustmentRequestsInWindow returns adjustment requests whose parent
// piece was created after the window start, joined with the parent for
// aggregation. Requests with a dangling content_id are skipped: without a
// parent they have no client scope to render under.
func (d *DB) ListAdjustmentRequestsInWindow(ctx context.Context, agencyID uuid.UUID, clientID *uuid.UUID, windowStart time.Time) ([]models.AdjustmentRequest, error) {
	query := `
		SELECT r.id, r.content_id, r.reason, r.details, r.version,
			COALESCE(r.created_by, '00000000-0000-0000-0000-000000000000'), r.created_at,
			p.client_id, p.title, p.scheduled_at, p.created_at
		FROM adjustment_requests r
		JOIN content_pieces p ON p.id = r.content_id
		WHERE p.agency_id = $1 AND p.created_at >= $2
			AND ($3::uuid IS NULL OR p.client_id = $3)
		ORDER BY r.created_at, r.id
	`
	rows, err := d.Pool.Query(ctx, query, agencyID, windowStart, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []models.AdjustmentRequest
	for rows.Next() {
		var r models.AdjustmentRequest
		if err := rows.Scan(&r.ID, &r.ContentID, &r.Reason, &r.Details, &r.Version,
			&r.CreatedBy, &r.CreatedAt,
			&r.ClientID, &r.ContentTitle, &r.ParentScheduledAt, &r.ParentCreatedAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, r)
	}
	return reqs, rows.Err()
}
