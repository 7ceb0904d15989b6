package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"contentflow/internal/models"
)

// contentColumns is the standard column list for content piece queries.
const contentColumns = `p.id, p.agency_id, p.client_id, p.owner_id, p.title, p.caption,
	p.format, p.status, p.scheduled_at, p.deadline, p.version, p.channels,
	p.auto_publish, p.scheduled_publish_at, p.published_at, p.supplier_link,
	(SELECT COUNT(*) FROM content_media m WHERE m.content_id = p.id),
	p.created_at, p.updated_at`

// scanContentPiece scans a row into a ContentPiece struct.
func scanContentPiece(row pgx.Row) (*models.ContentPiece, error) {
	var p models.ContentPiece
	var ownerID *uuid.UUID
	err := row.Scan(
		&p.ID,
		&p.AgencyID,
		&p.ClientID,
		&ownerID,
		&p.Title,
		&p.Caption,
		&p.Format,
		&p.Status,
		&p.ScheduledAt,
		&p.Deadline,
		&p.Version,
		&p.Channels,
		&p.AutoPublish,
		&p.ScheduledPublishAt,
		&p.PublishedAt,
		&p.SupplierLink,
		&p.MediaCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}
	if ownerID != nil {
		p.OwnerID = *ownerID
	}
	return &p, nil
}

// scanContentPieces scans multiple rows into a slice of ContentPieces.
func scanContentPieces(rows pgx.Rows) ([]models.ContentPiece, error) {
	defer rows.Close()

	var pieces []models.ContentPiece
	for rows.Next() {
		p, err := scanContentPiece(rows)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, *p)
	}

	return pieces, rows.Err()
}

// CreateContentPiece creates a new content piece in draft status.
func (d *DB) CreateContentPiece(ctx context.Context, p *models.ContentPiece) error {
	query := `
		INSERT INTO content_pieces
			(agency_id, client_id, owner_id, title, caption, format, status,
			 scheduled_at, deadline, channels, supplier_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, version, created_at, updated_at
	`

	status := p.Status
	if status == "" {
		status = models.StatusDraft
	}
	format := p.Format
	if format == "" {
		format = models.FormatPost
	}
	channels := p.Channels
	if channels == nil {
		channels = []string{}
	}

	return d.Pool.QueryRow(ctx, query,
		p.AgencyID,
		p.ClientID,
		p.OwnerID,
		p.Title,
		p.Caption,
		format,
		status,
		p.ScheduledAt,
		p.Deadline,
		channels,
		p.SupplierLink,
	).Scan(&p.ID, &p.Version, &p.CreatedAt, &p.UpdatedAt)
}

// GetContentPiece retrieves a content piece by ID.
func (d *DB) GetContentPiece(ctx context.Context, id uuid.UUID) (*models.ContentPiece, error) {
	query := `SELECT ` + contentColumns + ` FROM content_pieces p WHERE p.id = $1`
	return scanContentPiece(d.Pool.QueryRow(ctx, query, id))
}

// ListContentPieces lists content pieces for an agency, optionally filtered
// to a single client, ordered by scheduled date.
func (d *DB) ListContentPieces(ctx context.Context, agencyID uuid.UUID, clientID *uuid.UUID) ([]models.ContentPiece, error) {
	query := `
		SELECT ` + contentColumns + `
		FROM content_pieces p
		WHERE p.agency_id = $1 AND ($2::uuid IS NULL OR p.client_id = $2)
		ORDER BY p.scheduled_at, p.created_at, p.id
	`
	rows, err := d.Pool.Query(ctx, query, agencyID, clientID)
	if err != nil {
		return nil, err
	}
	return scanContentPieces(rows)
}

// UpdateContentWorkflow persists the workflow fields of a piece in a single
// row update: status, version, auto-publish flags and the publish timestamps.
func (d *DB) UpdateContentWorkflow(ctx context.Context, p *models.ContentPiece) error {
	query := `
		UPDATE content_pieces
		SET status = $2, version = $3, auto_publish = $4,
			scheduled_publish_at = $5, published_at = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		p.ID, p.Status, p.Version, p.AutoPublish, p.ScheduledPublishAt, p.PublishedAt,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrContentNotFound
	}
	return err
}

// UpdateContentSchedule moves a piece to a new scheduled date.
func (d *DB) UpdateContentSchedule(ctx context.Context, id uuid.UUID, scheduledAt time.Time) error {
	query := `
		UPDATE content_pieces
		SET scheduled_at = $2, updated_at = now()
		WHERE id = $1
		RETURNING id
	`
	var got uuid.UUID
	err := d.Pool.QueryRow(ctx, query, id, scheduledAt).Scan(&got)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrContentNotFound
	}
	return err
}

// DeleteContentPiece removes a piece. Media and comments cascade through
// foreign keys; adjustment requests keep their dangling content_id.
func (d *DB) DeleteContentPiece(ctx context.Context, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM content_pieces WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrContentNotFound
	}
	return nil
}

// GetDueAutoPublish returns scheduled pieces whose auto-publish time has
// arrived, oldest first.
func (d *DB) GetDueAutoPublish(ctx context.Context, now time.Time, limit int) ([]models.ContentPiece, error) {
	query := `
		SELECT ` + contentColumns + `
		FROM content_pieces p
		WHERE p.status = 'scheduled' AND p.auto_publish
			AND p.scheduled_publish_at IS NOT NULL AND p.scheduled_publish_at <= $1
		ORDER BY p.scheduled_publish_at
		LIMIT $2
	`
	rows, err := d.Pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	return scanContentPieces(rows)
}

// AddContentMedia attaches a media asset to a piece.
func (d *DB) AddContentMedia(ctx context.Context, m *models.ContentMedia) error {
	query := `
		INSERT INTO content_media (content_id, file_url, file_type, display_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return d.Pool.QueryRow(ctx, query,
		m.ContentID, m.FileURL, m.FileType, m.DisplayOrder,
	).Scan(&m.ID, &m.CreatedAt)
}

// UpdateContentFields updates the caption-and-media-adjacent fields that do
// not participate in the workflow state machine.
func (d *DB) UpdateContentFields(ctx context.Context, id uuid.UUID, title, caption string, channels []string, deadline *time.Time, supplierLink *string) error {
	if channels == nil {
		channels = []string{}
	}
	query := `
		UPDATE content_pieces
		SET title = $2, caption = $3, channels = $4, deadline = $5,
			supplier_link = $6, updated_at = now()
		WHERE id = $1
		RETURNING id
	`
	var got uuid.UUID
	err := d.Pool.QueryRow(ctx, query, id, title, caption, channels, deadline, supplierLink).Scan(&got)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrContentNotFound
	}
	return err
}
