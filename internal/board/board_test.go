package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"contentflow/internal/aggregate"
	"contentflow/internal/apperr"
	"contentflow/internal/models"
	"contentflow/internal/realtime"
)

var (
	agencyID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	clientID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	pieceID  = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

type fakeLoader struct {
	items []models.WorkItem
	calls int
}

func (f *fakeLoader) LoadWorkItems(_ context.Context, _ aggregate.Scope, _ aggregate.View, _ *aggregate.Filters) ([]models.WorkItem, error) {
	f.calls++
	out := make([]models.WorkItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeLoader) LoadRequestFeed(_ context.Context, _ aggregate.Scope, _ *aggregate.Filters) ([]models.WorkItem, error) {
	return nil, nil
}

type fakeColumns struct{}

func (fakeColumns) ListColumns(_ context.Context, agency uuid.UUID) ([]models.ColumnDefinition, error) {
	return models.DefaultColumns(agency), nil
}

type fakeMover struct {
	overrides   []string
	reschedules []time.Time
	failWith    error
}

func (m *fakeMover) ManualOverride(_ context.Context, _ uuid.UUID, newStatus string, _ *models.User) (*models.ContentPiece, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.overrides = append(m.overrides, newStatus)
	return &models.ContentPiece{ID: pieceID, Status: newStatus}, nil
}

func (m *fakeMover) Reschedule(_ context.Context, _ uuid.UUID, newDate time.Time, _ bool, _ *models.User) (*models.ContentPiece, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.reschedules = append(m.reschedules, newDate)
	return &models.ContentPiece{ID: pieceID}, nil
}

func contentItem(status string) models.WorkItem {
	return models.WorkItem{
		ID:       pieceID,
		ItemType: models.ItemTypeContent,
		Title:    "launch post",
		Status:   status,
		ClientID: clientID,
		Date:     time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC),
		Content:  &models.ContentPiece{ID: pieceID, Status: status},
	}
}

func newTestBoard(loader *fakeLoader, mover *fakeMover) *Board {
	return New(aggregate.Scope{AgencyID: agencyID}, loader, fakeColumns{}, mover, nil)
}

func TestRefreshPrimesSlices(t *testing.T) {
	loader := &fakeLoader{items: []models.WorkItem{contentItem(models.StatusDraft)}}
	b := newTestBoard(loader, &fakeMover{})

	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := b.Items(realtime.SliceContent); len(got) != 1 {
		t.Fatalf("content slice: got %d items, want 1", len(got))
	}
	if got := b.Columns(); len(got) == 0 {
		t.Fatal("columns slice empty after refresh")
	}
}

func TestStaleReloadDiscarded(t *testing.T) {
	loader := &fakeLoader{items: []models.WorkItem{contentItem(models.StatusDraft)}}
	b := newTestBoard(loader, &fakeMover{})

	// Take a sequence number, then supersede it before the reload lands.
	stale := reloadTask{slice: realtime.SliceContent, seq: b.nextSeq(realtime.SliceContent)}
	fresh := reloadTask{slice: realtime.SliceContent, seq: b.nextSeq(realtime.SliceContent)}

	loader.items = []models.WorkItem{contentItem(models.StatusInReview)}
	if err := b.reload(context.Background(), fresh); err != nil {
		t.Fatalf("fresh reload: %v", err)
	}

	loader.items = []models.WorkItem{contentItem(models.StatusDraft)}
	if err := b.reload(context.Background(), stale); err != nil {
		t.Fatalf("stale reload: %v", err)
	}

	items := b.Items(realtime.SliceContent)
	if len(items) != 1 || items[0].Status != models.StatusInReview {
		t.Fatalf("stale response overwrote a fresher one: %+v", items)
	}
}

func TestHandleEventIgnoresOtherAgencies(t *testing.T) {
	b := newTestBoard(&fakeLoader{}, &fakeMover{})

	b.HandleEvent(realtime.Event{
		AgencyID: uuid.MustParse("99999999-9999-9999-9999-999999999999"),
		Slice:    realtime.SliceContent,
	})
	select {
	case task := <-b.tasks:
		t.Fatalf("unexpected reload task enqueued: %+v", task)
	default:
	}

	b.HandleEvent(realtime.Event{AgencyID: agencyID, Slice: realtime.SliceContent})
	select {
	case <-b.tasks:
	default:
		t.Fatal("expected a reload task for the board's own agency")
	}
}

func TestDragEndAppliesAndPersists(t *testing.T) {
	loader := &fakeLoader{items: []models.WorkItem{contentItem(models.StatusDraft)}}
	mover := &fakeMover{}
	b := newTestBoard(loader, mover)
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	actor := &models.User{Role: models.RoleManager}
	if err := b.DragEnd(context.Background(), actor, pieceID, models.StatusInReview, nil); err != nil {
		t.Fatalf("DragEnd: %v", err)
	}

	items := b.Items(realtime.SliceContent)
	if items[0].Status != models.StatusInReview {
		t.Errorf("cache not updated: status %s", items[0].Status)
	}
	if len(mover.overrides) != 1 || mover.overrides[0] != models.StatusInReview {
		t.Errorf("override calls: %v", mover.overrides)
	}
}

func TestDragEndScheduledColumnWithDate(t *testing.T) {
	loader := &fakeLoader{items: []models.WorkItem{contentItem(models.StatusInReview)}}
	mover := &fakeMover{}
	b := newTestBoard(loader, mover)
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	day := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	actor := &models.User{Role: models.RoleAdmin}
	if err := b.DragEnd(context.Background(), actor, pieceID, models.ColumnScheduled, &day); err != nil {
		t.Fatalf("DragEnd: %v", err)
	}

	// The scheduled column maps onto approved.
	if len(mover.overrides) != 1 || mover.overrides[0] != models.StatusApproved {
		t.Errorf("override calls: %v", mover.overrides)
	}
	if len(mover.reschedules) != 1 || !mover.reschedules[0].Equal(day) {
		t.Errorf("reschedule calls: %v", mover.reschedules)
	}
}

func TestDragEndRollsBackOnFailure(t *testing.T) {
	loader := &fakeLoader{items: []models.WorkItem{contentItem(models.StatusDraft)}}
	mover := &fakeMover{failWith: apperr.PermissionDenied("nope")}
	b := newTestBoard(loader, mover)
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	actor := &models.User{Role: models.RoleMember}
	err := b.DragEnd(context.Background(), actor, pieceID, models.StatusPublished, nil)
	if err == nil {
		t.Fatal("expected the move to fail")
	}
	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.KindPermissionDenied {
		t.Errorf("error kind: %v", err)
	}

	items := b.Items(realtime.SliceContent)
	if items[0].Status != models.StatusDraft {
		t.Errorf("cache not rolled back: status %s", items[0].Status)
	}
}

func TestDragEndRejectsRequestsColumn(t *testing.T) {
	loader := &fakeLoader{items: []models.WorkItem{contentItem(models.StatusDraft)}}
	b := newTestBoard(loader, &fakeMover{})
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	err := b.DragEnd(context.Background(), &models.User{Role: models.RoleAdmin}, pieceID, models.ColumnRequests, nil)
	if err == nil {
		t.Fatal("expected drop onto requests to be rejected")
	}
	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.KindValidation {
		t.Errorf("error kind: %v", err)
	}
}

func TestDragEndUnknownItem(t *testing.T) {
	b := newTestBoard(&fakeLoader{}, &fakeMover{})
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	err := b.DragEnd(context.Background(), &models.User{Role: models.RoleAdmin}, uuid.New(), models.StatusDraft, nil)
	if !errorsIsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func errorsIsNotFound(err error) bool {
	var ae *apperr.Error
	return errors.As(err, &ae) && ae.Kind == apperr.KindNotFound
}

func TestRegistryReusesBoard(t *testing.T) {
	loader := &fakeLoader{items: []models.WorkItem{contentItem(models.StatusDraft)}}
	reg := NewRegistry(context.Background(), func(uuid.UUID) *Board {
		return newTestBoard(loader, &fakeMover{})
	})

	first, err := reg.Get(context.Background(), agencyID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := reg.Get(context.Background(), agencyID)
	if err != nil {
		t.Fatalf("Get again: %v", err)
	}
	if first != second {
		t.Fatal("registry created a second board for the same agency")
	}
	if loader.calls != 1 {
		t.Fatalf("priming loads: got %d, want 1", loader.calls)
	}
}

func TestRegistryDispatchSkipsUnknownAgency(t *testing.T) {
	reg := NewRegistry(context.Background(), func(uuid.UUID) *Board {
		return newTestBoard(&fakeLoader{}, &fakeMover{})
	})
	// No board open for this agency; the event has nowhere to go.
	reg.Dispatch(realtime.Event{AgencyID: uuid.New(), Slice: realtime.SliceContent})
}
