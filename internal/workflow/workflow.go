// Package workflow implements the authoritative status state machine for
// content pieces: draft → in_review → (approved | changes_requested) →
// scheduled → published, plus the agency-side manual override.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"contentflow/internal/apperr"
	"contentflow/internal/calendar"
	"contentflow/internal/db"
	"contentflow/internal/models"
	"contentflow/internal/realtime"
)

// Store is the persistence surface the engine writes through. Every
// transition is a single-row update; the store's per-row atomicity is the
// only concurrency control. Request-changes is the one exception: its
// adjustment insert and status update commit together.
type Store interface {
	GetContentPiece(ctx context.Context, id uuid.UUID) (*models.ContentPiece, error)
	UpdateContentWorkflow(ctx context.Context, p *models.ContentPiece) error
	UpdateContentSchedule(ctx context.Context, id uuid.UUID, scheduledAt time.Time) error
	RecordChangesRequested(ctx context.Context, p *models.ContentPiece, r *models.AdjustmentRequest) error
	GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error)
}

// Publisher receives a change event after every successful transition.
type Publisher interface {
	Publish(ctx context.Context, ev realtime.Event) error
}

// Recorder tallies transitions for metrics. May be nil.
type Recorder func(from, to string)

// Engine executes workflow transitions against a Store and announces them
// on the realtime bus.
type Engine struct {
	store  Store
	bus    Publisher
	record Recorder
	now    func() time.Time
}

// New creates a workflow engine. bus and record may be nil.
func New(store Store, bus Publisher, record Recorder) *Engine {
	return &Engine{store: store, bus: bus, record: record, now: time.Now}
}

// allowedFrom is the transition table: operation name → statuses the
// operation is legal from. Manual override is legal from any status and is
// not listed.
var allowedFrom = map[string][]string{
	"submit for review":    {models.StatusDraft},
	"approve":              {models.StatusInReview},
	"request changes on":   {models.StatusInReview},
	"mark adjustment done": {models.StatusChangesRequested},
	"schedule":             {models.StatusApproved},
	"cancel the schedule":  {models.StatusScheduled},
	"publish":              {models.StatusApproved, models.StatusScheduled},
}

func checkTransition(op, from string) error {
	for _, s := range allowedFrom[op] {
		if s == from {
			return nil
		}
	}
	return apperr.InvalidTransition(op, from)
}

// SubmitForReview moves a draft into review. Media and caption are not
// required at this point.
func (e *Engine) SubmitForReview(ctx context.Context, contentID uuid.UUID, actor *models.User) (*models.ContentPiece, error) {
	p, err := e.load(ctx, contentID, actor)
	if err != nil {
		return nil, err
	}
	if err := checkTransition("submit for review", p.Status); err != nil {
		return nil, err
	}
	return e.apply(ctx, p, models.StatusInReview)
}

// Approve moves a piece from review to approved. Only the client's
// designated responsible approver may approve.
func (e *Engine) Approve(ctx context.Context, contentID uuid.UUID, actor *models.User) (*models.ContentPiece, error) {
	p, err := e.load(ctx, contentID, actor)
	if err != nil {
		return nil, err
	}
	if err := checkTransition("approve", p.Status); err != nil {
		return nil, err
	}

	client, err := e.store.GetClient(ctx, p.ClientID)
	if err != nil {
		return nil, e.storeErr(err)
	}
	if actor == nil || client.ResponsibleApproverID == nil || *client.ResponsibleApproverID != actor.ID {
		return nil, apperr.PermissionDenied("only the client's designated approver may approve")
	}

	return e.apply(ctx, p, models.StatusApproved)
}

// RequestChanges sends a piece back for changes, recording an adjustment
// request bound to the piece's current version. The reason is required; the
// version is bumped to open the next revision cycle.
func (e *Engine) RequestChanges(ctx context.Context, contentID uuid.UUID, reason, details string, actor *models.User) (*models.ContentPiece, *models.AdjustmentRequest, error) {
	if reason == "" {
		return nil, nil, apperr.Validation("reason", "is required")
	}

	p, err := e.load(ctx, contentID, actor)
	if err != nil {
		return nil, nil, err
	}
	if err := checkTransition("request changes on", p.Status); err != nil {
		return nil, nil, err
	}

	adj := &models.AdjustmentRequest{
		ContentID: p.ID,
		Reason:    reason,
		Details:   details,
		Version:   p.Version,
	}
	if actor != nil {
		adj.CreatedBy = actor.ID
	}

	// The adjustment insert and the status update commit together; a
	// failure leaves neither behind.
	oldStatus := p.Status
	p.Version++
	p.Status = models.StatusChangesRequested
	if err := e.store.RecordChangesRequested(ctx, p, adj); err != nil {
		p.Status = oldStatus
		p.Version--
		return nil, nil, e.storeErr(err)
	}

	if e.record != nil {
		e.record(oldStatus, p.Status)
	}
	e.publish(ctx, realtime.Event{
		AgencyID:  p.AgencyID,
		Slice:     realtime.SliceContent,
		ContentID: &p.ID,
		Title:     p.Title,
		OldStatus: oldStatus,
		NewStatus: p.Status,
	})
	e.publish(ctx, realtime.Event{
		AgencyID: p.AgencyID,
		Slice:    realtime.SliceAdjustmentRequests,
	})
	return p, adj, nil
}

// MarkAdjustmentDone returns a changes-requested piece to review.
func (e *Engine) MarkAdjustmentDone(ctx context.Context, contentID uuid.UUID, actor *models.User) (*models.ContentPiece, error) {
	p, err := e.load(ctx, contentID, actor)
	if err != nil {
		return nil, err
	}
	if err := checkTransition("mark adjustment done", p.Status); err != nil {
		return nil, err
	}
	return e.apply(ctx, p, models.StatusInReview)
}

// ScheduleAutoPublish arms auto-publishing of an approved piece at a future
// time.
func (e *Engine) ScheduleAutoPublish(ctx context.Context, contentID uuid.UUID, at time.Time, actor *models.User) (*models.ContentPiece, error) {
	p, err := e.load(ctx, contentID, actor)
	if err != nil {
		return nil, err
	}
	if err := checkTransition("schedule", p.Status); err != nil {
		return nil, err
	}
	if !at.After(e.now()) {
		return nil, apperr.Validation("at", "must be in the future")
	}

	p.AutoPublish = true
	p.ScheduledPublishAt = &at
	return e.apply(ctx, p, models.StatusScheduled)
}

// CancelSchedule disarms auto-publishing and returns the piece to approved.
func (e *Engine) CancelSchedule(ctx context.Context, contentID uuid.UUID, actor *models.User) (*models.ContentPiece, error) {
	p, err := e.load(ctx, contentID, actor)
	if err != nil {
		return nil, err
	}
	if err := checkTransition("cancel the schedule", p.Status); err != nil {
		return nil, err
	}

	p.AutoPublish = false
	p.ScheduledPublishAt = nil
	return e.apply(ctx, p, models.StatusApproved)
}

// PublishNow publishes an approved or scheduled piece immediately. Missing
// media or caption produce warnings, never a block. Prior auto-publish
// scheduling is left in place; only a manual override clears it. A nil
// actor is the system itself, as when the auto-publish scan fires.
func (e *Engine) PublishNow(ctx context.Context, contentID uuid.UUID, actor *models.User) (*models.ContentPiece, []string, error) {
	p, err := e.load(ctx, contentID, actor)
	if err != nil {
		return nil, nil, err
	}
	if err := checkTransition("publish", p.Status); err != nil {
		return nil, nil, err
	}

	var warnings []string
	if !p.HasMedia() {
		warnings = append(warnings, "publishing without media")
	}
	if !p.HasCaption() {
		warnings = append(warnings, "publishing without a caption")
	}

	now := e.now()
	p.PublishedAt = &now
	piece, err := e.apply(ctx, p, models.StatusPublished)
	if err != nil {
		return nil, nil, err
	}
	return piece, warnings, nil
}

// ManualOverride forces a piece into an arbitrary status. Agency-side
// operators only. Auto-publish is always disarmed; the scheduled publish
// time is cleared when the piece leaves the scheduled status.
func (e *Engine) ManualOverride(ctx context.Context, contentID uuid.UUID, newStatus string, actor *models.User) (*models.ContentPiece, error) {
	if actor == nil || !actor.CanOverride() {
		return nil, apperr.PermissionDenied("only agency-side operators may override status")
	}
	if !models.ValidStatus(newStatus) {
		return nil, apperr.Validation("status", "unknown status "+newStatus)
	}

	p, err := e.load(ctx, contentID, actor)
	if err != nil {
		return nil, err
	}

	p.AutoPublish = false
	if p.Status == models.StatusScheduled && newStatus != models.StatusScheduled {
		p.ScheduledPublishAt = nil
	}
	switch {
	case newStatus == models.StatusPublished && p.PublishedAt == nil:
		now := e.now()
		p.PublishedAt = &now
	case newStatus != models.StatusPublished:
		p.PublishedAt = nil
	}

	return e.apply(ctx, p, newStatus)
}

// Reschedule moves a piece to a new calendar day. With dayOnly set, the
// original time-of-day is preserved to the nanosecond; otherwise newDate is
// taken wholesale.
func (e *Engine) Reschedule(ctx context.Context, contentID uuid.UUID, newDate time.Time, dayOnly bool, actor *models.User) (*models.ContentPiece, error) {
	p, err := e.load(ctx, contentID, actor)
	if err != nil {
		return nil, err
	}

	target := newDate
	if dayOnly {
		target = calendar.CombineDayTime(newDate, p.ScheduledAt)
	}

	if err := e.store.UpdateContentSchedule(ctx, p.ID, target); err != nil {
		return nil, e.storeErr(err)
	}
	p.ScheduledAt = target

	e.publish(ctx, realtime.Event{
		AgencyID:  p.AgencyID,
		Slice:     realtime.SliceContent,
		ContentID: &p.ID,
		Title:     p.Title,
		OldStatus: p.Status,
		NewStatus: p.Status,
	})
	return p, nil
}

// load fetches the piece and scopes it to the actor's agency. A nil actor
// is a system caller; for everyone else a piece outside their agency reads
// as missing.
func (e *Engine) load(ctx context.Context, id uuid.UUID, actor *models.User) (*models.ContentPiece, error) {
	p, err := e.store.GetContentPiece(ctx, id)
	if err != nil {
		return nil, e.storeErr(err)
	}
	if actor != nil && p.AgencyID != actor.AgencyID {
		return nil, apperr.NotFound("content piece")
	}
	return p, nil
}

// apply persists the piece with its new status and announces the change.
func (e *Engine) apply(ctx context.Context, p *models.ContentPiece, newStatus string) (*models.ContentPiece, error) {
	oldStatus := p.Status
	p.Status = newStatus
	if err := e.store.UpdateContentWorkflow(ctx, p); err != nil {
		p.Status = oldStatus
		return nil, e.storeErr(err)
	}

	if e.record != nil && oldStatus != newStatus {
		e.record(oldStatus, newStatus)
	}

	e.publish(ctx, realtime.Event{
		AgencyID:  p.AgencyID,
		Slice:     realtime.SliceContent,
		ContentID: &p.ID,
		Title:     p.Title,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	})
	return p, nil
}

func (e *Engine) publish(ctx context.Context, ev realtime.Event) {
	if e.bus == nil {
		return
	}
	if err := e.bus.Publish(ctx, ev); err != nil {
		slog.Error("failed to publish change event", "slice", ev.Slice, "error", err)
	}
}

// storeErr maps store sentinels onto the operation error taxonomy.
func (e *Engine) storeErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.KindOf(err); ok {
		return err
	}
	switch {
	case errors.Is(err, db.ErrContentNotFound):
		return apperr.NotFound("content piece")
	case errors.Is(err, db.ErrClientNotFound):
		return apperr.NotFound("client")
	}
	return apperr.TransientIO(err)
}
