package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"contentflow/internal/models"
)

func TestCreateContentPieceDefaults(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	agency, client, owner := seedWorkspace(t, db)
	piece := seedPiece(t, db, agency, client, owner, "Launch teaser", "", time.Now().Add(48*time.Hour))

	if piece.ID == uuid.Nil {
		t.Error("CreateContentPiece() did not set ID")
	}
	if piece.Version != 1 {
		t.Errorf("CreateContentPiece() version = %d, want 1", piece.Version)
	}

	got, err := db.GetContentPiece(context.Background(), piece.ID)
	if err != nil {
		t.Fatalf("GetContentPiece() error = %v", err)
	}
	if got.Status != models.StatusDraft {
		t.Errorf("new piece status = %q, want %q", got.Status, models.StatusDraft)
	}
	if got.Format != models.FormatPost {
		t.Errorf("new piece format = %q, want %q", got.Format, models.FormatPost)
	}
}

func TestGetContentPieceNotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.GetContentPiece(context.Background(), uuid.New())
	if err != ErrContentNotFound {
		t.Errorf("GetContentPiece() error = %v, want ErrContentNotFound", err)
	}
}

func TestListContentPiecesOrderAndScope(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	agency, client, owner := seedWorkspace(t, db)

	base := time.Now().Truncate(time.Second)
	seedPiece(t, db, agency, client, owner, "later", models.StatusDraft, base.Add(72*time.Hour))
	seedPiece(t, db, agency, client, owner, "sooner", models.StatusDraft, base.Add(24*time.Hour))

	other := &models.Client{AgencyID: agency.ID, Name: "Other Client"}
	if err := db.CreateClient(ctx, other); err != nil {
		t.Fatalf("CreateClient() error = %v", err)
	}
	seedPiece(t, db, agency, other, owner, "other client", models.StatusDraft, base.Add(2*time.Hour))

	all, err := db.ListContentPieces(ctx, agency.ID, nil)
	if err != nil {
		t.Fatalf("ListContentPieces() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListContentPieces() len = %d, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].ScheduledAt.Before(all[i-1].ScheduledAt) {
			t.Errorf("ListContentPieces() not ordered by scheduled date at index %d", i)
		}
	}

	scoped, err := db.ListContentPieces(ctx, agency.ID, &client.ID)
	if err != nil {
		t.Fatalf("ListContentPieces() scoped error = %v", err)
	}
	if len(scoped) != 2 {
		t.Errorf("ListContentPieces() scoped len = %d, want 2", len(scoped))
	}
}

func TestUpdateContentWorkflowRoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	agency, client, owner := seedWorkspace(t, db)
	piece := seedPiece(t, db, agency, client, owner, "workflow", models.StatusApproved, time.Now().Add(24*time.Hour))

	at := time.Now().Add(12 * time.Hour).Truncate(time.Second)
	piece.Status = models.StatusScheduled
	piece.AutoPublish = true
	piece.ScheduledPublishAt = &at

	if err := db.UpdateContentWorkflow(ctx, piece); err != nil {
		t.Fatalf("UpdateContentWorkflow() error = %v", err)
	}

	got, err := db.GetContentPiece(ctx, piece.ID)
	if err != nil {
		t.Fatalf("GetContentPiece() error = %v", err)
	}
	if got.Status != models.StatusScheduled {
		t.Errorf("status = %q, want %q", got.Status, models.StatusScheduled)
	}
	if !got.AutoPublish {
		t.Error("auto_publish not persisted")
	}
	if got.ScheduledPublishAt == nil || !got.ScheduledPublishAt.Equal(at) {
		t.Errorf("scheduled_publish_at = %v, want %v", got.ScheduledPublishAt, at)
	}
}

func TestGetDueAutoPublish(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	agency, client, owner := seedWorkspace(t, db)
	now := time.Now()

	due := seedPiece(t, db, agency, client, owner, "due", models.StatusScheduled, now)
	past := now.Add(-time.Hour)
	due.AutoPublish = true
	due.ScheduledPublishAt = &past
	if err := db.UpdateContentWorkflow(ctx, due); err != nil {
		t.Fatalf("UpdateContentWorkflow() error = %v", err)
	}

	notYet := seedPiece(t, db, agency, client, owner, "not yet", models.StatusScheduled, now)
	future := now.Add(time.Hour)
	notYet.AutoPublish = true
	notYet.ScheduledPublishAt = &future
	if err := db.UpdateContentWorkflow(ctx, notYet); err != nil {
		t.Fatalf("UpdateContentWorkflow() error = %v", err)
	}

	got, err := db.GetDueAutoPublish(ctx, now, 10)
	if err != nil {
		t.Fatalf("GetDueAutoPublish() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("GetDueAutoPublish() len = %d, want 1", len(got))
	}
	if got[0].ID != due.ID {
		t.Errorf("GetDueAutoPublish() returned %q, want %q", got[0].Title, due.Title)
	}
}

func TestDeleteContentPieceCascadesMedia(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	agency, client, owner := seedWorkspace(t, db)
	piece := seedPiece(t, db, agency, client, owner, "with media", models.StatusDraft, time.Now())

	media := &models.ContentMedia{
		ContentID: piece.ID,
		FileURL:   "https://cdn.example.com/a.jpg",
		FileType:  "image/jpeg",
	}
	if err := db.AddContentMedia(ctx, media); err != nil {
		t.Fatalf("AddContentMedia() error = %v", err)
	}

	if err := db.DeleteContentPiece(ctx, piece.ID); err != nil {
		t.Fatalf("DeleteContentPiece() error = %v", err)
	}

	var count int
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM content_media WHERE content_id = $1", piece.ID).Scan(&count); err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if count != 0 {
		t.Errorf("media rows after delete = %d, want 0", count)
	}
}

func TestAdjustmentRequestsSurviveContentDelete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	agency, client, owner := seedWorkspace(t, db)
	piece := seedPiece(t, db, agency, client, owner, "rejected", models.StatusChangesRequested, time.Now())

	adj := &models.AdjustmentRequest{
		ContentID: piece.ID,
		Reason:    "wrong color",
		Version:   1,
		CreatedBy: owner.ID,
	}
	if err := db.CreateAdjustmentRequest(ctx, adj); err != nil {
		t.Fatalf("CreateAdjustmentRequest() error = %v", err)
	}

	if err := db.DeleteContentPiece(ctx, piece.ID); err != nil {
		t.Fatalf("DeleteContentPiece() error = %v", err)
	}

	// The history row stays; resolving its parent reports not found
	var count int
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM adjustment_requests WHERE id = $1", adj.ID).Scan(&count); err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if count != 1 {
		t.Errorf("adjustment rows after content delete = %d, want 1", count)
	}
	if _, err := db.GetContentPiece(ctx, piece.ID); err != ErrContentNotFound {
		t.Errorf("GetContentPiece() after delete error = %v, want ErrContentNotFound", err)
	}
}

func TestRecordChangesRequestedCommitsBothRows(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	agency, client, owner := seedWorkspace(t, db)
	piece := seedPiece(t, db, agency, client, owner, "autumn launch", models.StatusInReview, time.Now())

	adj := &models.AdjustmentRequest{
		ContentID: piece.ID,
		Reason:    "wrong color",
		Version:   piece.Version,
		CreatedBy: owner.ID,
	}
	piece.Version++
	piece.Status = models.StatusChangesRequested
	if err := db.RecordChangesRequested(ctx, piece, adj); err != nil {
		t.Fatalf("RecordChangesRequested() error = %v", err)
	}
	if adj.ID == uuid.Nil {
		t.Error("adjustment ID not assigned")
	}

	got, err := db.GetContentPiece(ctx, piece.ID)
	if err != nil {
		t.Fatalf("GetContentPiece() error = %v", err)
	}
	if got.Status != models.StatusChangesRequested || got.Version != piece.Version {
		t.Errorf("piece after commit: status=%s version=%d", got.Status, got.Version)
	}
}

func TestRecordChangesRequestedRollsBackOnMissingPiece(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	// The content reference is weak, so the insert alone would succeed;
	// the failed status update has to take it down too.
	missing := uuid.New()
	adj := &models.AdjustmentRequest{
		ContentID: missing,
		Reason:    "wrong color",
	}
	err := db.RecordChangesRequested(ctx, &models.ContentPiece{ID: missing, Status: models.StatusChangesRequested}, adj)
	if err != ErrContentNotFound {
		t.Fatalf("RecordChangesRequested() error = %v, want ErrContentNotFound", err)
	}

	var count int
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM adjustment_requests WHERE content_id = $1", missing).Scan(&count); err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if count != 0 {
		t.Errorf("adjustment rows after rollback = %d, want 0", count)
	}
}

func TestTransitionCounts(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	if err := db.IncrementTransitionCount(ctx, models.StatusDraft, models.StatusInReview); err != nil {
		t.Fatalf("IncrementTransitionCount() error = %v", err)
	}
	if err := db.IncrementTransitionCount(ctx, models.StatusDraft, models.StatusInReview); err != nil {
		t.Fatalf("IncrementTransitionCount() second call error = %v", err)
	}

	counts, err := db.GetAllTransitionCounts(ctx)
	if err != nil {
		t.Fatalf("GetAllTransitionCounts() error = %v", err)
	}
	if len(counts) != 1 {
		t.Fatalf("GetAllTransitionCounts() len = %d, want 1", len(counts))
	}
	if counts[0].Count != 2 {
		t.Errorf("transition count = %d, want 2", counts[0].Count)
	}
}
