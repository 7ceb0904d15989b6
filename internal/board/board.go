// Package board holds the server-side kanban state for one agency: cached
// slices of the board, reload reconciliation driven by bus events, and the
// drag-end move logic.
package board

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"contentflow/internal/aggregate"
	"contentflow/internal/apperr"
	"contentflow/internal/columns"
	"contentflow/internal/models"
	"contentflow/internal/realtime"
)

// Loader produces the work-item slices the board renders.
type Loader interface {
	LoadWorkItems(ctx context.Context, scope aggregate.Scope, view aggregate.View, filters *aggregate.Filters) ([]models.WorkItem, error)
	LoadRequestFeed(ctx context.Context, scope aggregate.Scope, filters *aggregate.Filters) ([]models.WorkItem, error)
}

// ColumnStore lists the agency's column definitions.
type ColumnStore interface {
	ListColumns(ctx context.Context, agencyID uuid.UUID) ([]models.ColumnDefinition, error)
}

// Mover persists a drag move. The workflow engine implements it.
type Mover interface {
	ManualOverride(ctx context.Context, contentID uuid.UUID, newStatus string, actor *models.User) (*models.ContentPiece, error)
	Reschedule(ctx context.Context, contentID uuid.UUID, newDate time.Time, dayOnly bool, actor *models.User) (*models.ContentPiece, error)
}

// Alerter delivers user-facing notifications for alert-worthy transitions.
// May be nil.
type Alerter interface {
	TransitionAlert(ctx context.Context, ev realtime.Event) error
}

type reloadTask struct {
	slice realtime.Slice
	seq   uint64
}

// Board is the per-agency kanban state. Bus events enqueue slice reloads;
// each carries a sequence number and responses superseded by a later enqueue
// for the same slice are discarded, so the cache never moves backwards.
type Board struct {
	scope  aggregate.Scope
	loader Loader
	cols   ColumnStore
	mover  Mover
	alert  Alerter

	tasks chan reloadTask

	mu          sync.Mutex
	seq         map[realtime.Slice]uint64
	columnDefs  []models.ColumnDefinition
	content     []models.WorkItem
	creatives   []models.WorkItem
	adjustments []models.WorkItem
}

// New creates a board for the given agency scope.
func New(scope aggregate.Scope, loader Loader, cols ColumnStore, mover Mover, alert Alerter) *Board {
	return &Board{
		scope:  scope,
		loader: loader,
		cols:   cols,
		mover:  mover,
		alert:  alert,
		tasks:  make(chan reloadTask, 64),
		seq:    make(map[realtime.Slice]uint64),
	}
}

// Refresh primes every slice. Called once on construction and available to
// handlers that want a guaranteed-fresh read.
func (b *Board) Refresh(ctx context.Context) error {
	for _, s := range []realtime.Slice{
		realtime.SliceColumns,
		realtime.SliceContent,
		realtime.SliceCreativeRequests,
		realtime.SliceAdjustmentRequests,
	} {
		if err := b.reload(ctx, reloadTask{slice: s, seq: b.nextSeq(s)}); err != nil {
			return err
		}
	}
	return nil
}

// HandleEvent reacts to a bus event: it enqueues a reload of the affected
// slice and raises a user alert when the transition warrants one. Events for
// other agencies are ignored.
func (b *Board) HandleEvent(ev realtime.Event) {
	if ev.AgencyID != b.scope.AgencyID {
		return
	}

	task := reloadTask{slice: ev.Slice, seq: b.nextSeq(ev.Slice)}
	select {
	case b.tasks <- task:
	default:
		slog.Warn("board reload queue full, dropping task", "agency_id", b.scope.AgencyID, "slice", ev.Slice)
	}

	if b.alert != nil && ev.IsAlert() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := b.alert.TransitionAlert(ctx, ev); err != nil {
				slog.Error("transition alert failed", "content_id", ev.ContentID, "error", err)
			}
		}()
	}
}

// Run processes reload tasks until ctx is cancelled.
func (b *Board) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-b.tasks:
			if err := b.reload(ctx, task); err != nil {
				slog.Error("board slice reload failed", "slice", task.slice, "error", err)
			}
		}
	}
}

func (b *Board) nextSeq(s realtime.Slice) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq[s]++
	return b.seq[s]
}

func (b *Board) reload(ctx context.Context, task reloadTask) error {
	var (
		defs  []models.ColumnDefinition
		items []models.WorkItem
		err   error
	)

	switch task.slice {
	case realtime.SliceColumns:
		defs, err = b.cols.ListColumns(ctx, b.scope.AgencyID)
	case realtime.SliceContent:
		items, err = b.loader.LoadWorkItems(ctx, b.scope, aggregate.ViewKanban, &aggregate.Filters{
			ItemTypes: []string{models.ItemTypeContent},
		})
	case realtime.SliceCreativeRequests:
		items, err = b.loader.LoadRequestFeed(ctx, b.scope, &aggregate.Filters{
			ItemTypes: []string{models.ItemTypeCreativeRequest},
		})
	case realtime.SliceAdjustmentRequests:
		items, err = b.loader.LoadRequestFeed(ctx, b.scope, &aggregate.Filters{
			ItemTypes: []string{models.ItemTypeAdjustmentRequest},
		})
	default:
		return nil
	}
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if task.seq < b.seq[task.slice] {
		// A newer reload for this slice is already enqueued; applying this
		// response would move the cache backwards.
		return nil
	}
	switch task.slice {
	case realtime.SliceColumns:
		b.columnDefs = defs
	case realtime.SliceContent:
		b.content = items
	case realtime.SliceCreativeRequests:
		b.creatives = items
	case realtime.SliceAdjustmentRequests:
		b.adjustments = items
	}
	return nil
}

// Columns returns the cached column definitions.
func (b *Board) Columns() []models.ColumnDefinition {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.ColumnDefinition, len(b.columnDefs))
	copy(out, b.columnDefs)
	return out
}

// Items returns a copy of the cached slice for the given stream.
func (b *Board) Items(s realtime.Slice) []models.WorkItem {
	b.mu.Lock()
	defer b.mu.Unlock()

	var src []models.WorkItem
	switch s {
	case realtime.SliceContent:
		src = b.content
	case realtime.SliceCreativeRequests:
		src = b.creatives
	case realtime.SliceAdjustmentRequests:
		src = b.adjustments
	}
	out := make([]models.WorkItem, len(src))
	copy(out, src)
	return out
}

// DragEnd handles a card dropped onto a column. The move is applied to the
// cache first so the board repaints immediately, then persisted; if
// persistence fails the cached snapshot is restored and the error returned.
// newDate, when set, additionally reschedules the piece to that day with the
// original time-of-day kept.
func (b *Board) DragEnd(ctx context.Context, actor *models.User, itemID uuid.UUID, targetColumnID string, newDate *time.Time) error {
	newStatus, err := columns.DropStatus(targetColumnID)
	if err != nil {
		return apperr.Validation("column", "cards cannot be dropped onto the requests column")
	}

	b.mu.Lock()
	idx := -1
	for i := range b.content {
		if b.content[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		b.mu.Unlock()
		return apperr.NotFound("work item")
	}
	if !b.content[idx].IsDraggable() {
		b.mu.Unlock()
		return apperr.Validation("item", "only content cards can be moved")
	}

	snapshot := make([]models.WorkItem, len(b.content))
	copy(snapshot, b.content)

	oldStatus := b.content[idx].Status
	b.content[idx].Status = newStatus
	if b.content[idx].Content != nil {
		b.content[idx].Content.Status = newStatus
	}
	if newDate != nil {
		b.content[idx].Date = *newDate
	}
	b.mu.Unlock()

	rollback := func() {
		b.mu.Lock()
		b.content = snapshot
		b.mu.Unlock()
	}

	if newStatus != oldStatus {
		if _, err := b.mover.ManualOverride(ctx, itemID, newStatus, actor); err != nil {
			rollback()
			return err
		}
	}
	if newDate != nil {
		if _, err := b.mover.Reschedule(ctx, itemID, *newDate, true, actor); err != nil {
			rollback()
			return err
		}
	}
	return nil
}
