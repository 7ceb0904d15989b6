package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"contentflow/internal/apperr"
	"contentflow/internal/models"
)

type fakeDueSource struct {
	pieces []models.ContentPiece
}

func (f *fakeDueSource) GetDueAutoPublish(_ context.Context, _ time.Time, limit int) ([]models.ContentPiece, error) {
	if len(f.pieces) > limit {
		return f.pieces[:limit], nil
	}
	return f.pieces, nil
}

type fakePublisher struct {
	published []uuid.UUID
	failFor   map[uuid.UUID]error
}

func (f *fakePublisher) PublishNow(_ context.Context, contentID uuid.UUID, _ *models.User) (*models.ContentPiece, []string, error) {
	if err := f.failFor[contentID]; err != nil {
		return nil, nil, err
	}
	f.published = append(f.published, contentID)
	return &models.ContentPiece{ID: contentID, Status: models.StatusPublished}, nil, nil
}

func TestScanPublishesDuePieces(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	due := &fakeDueSource{pieces: []models.ContentPiece{{ID: a}, {ID: b}}}
	pub := &fakePublisher{}

	ap := NewAutoPublisher(due, pub, time.Minute)
	ap.scan(context.Background())

	if len(pub.published) != 2 {
		t.Fatalf("published %d pieces, want 2", len(pub.published))
	}
}

func TestScanSkipsFailuresAndContinues(t *testing.T) {
	bad := uuid.New()
	good := uuid.New()
	due := &fakeDueSource{pieces: []models.ContentPiece{{ID: bad}, {ID: good}}}
	pub := &fakePublisher{
		failFor: map[uuid.UUID]error{
			bad: apperr.InvalidTransition("publish", models.StatusPublished),
		},
	}

	ap := NewAutoPublisher(due, pub, time.Minute)
	ap.scan(context.Background())

	if len(pub.published) != 1 || pub.published[0] != good {
		t.Fatalf("published: %v", pub.published)
	}
}

func TestScanEmptySetIsQuiet(t *testing.T) {
	ap := NewAutoPublisher(&fakeDueSource{}, &fakePublisher{}, time.Minute)
	ap.scan(context.Background())
}
