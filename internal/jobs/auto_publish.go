// Package jobs holds the background loops: the auto-publish scanner that
// fires due scheduled pieces.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"contentflow/internal/models"
)

// DueSource lists scheduled pieces whose auto-publish time has passed.
type DueSource interface {
	GetDueAutoPublish(ctx context.Context, now time.Time, limit int) ([]models.ContentPiece, error)
}

// Publisher publishes a piece through the workflow engine, so the scan goes
// through the same transition checks, events and metrics as a manual publish.
type Publisher interface {
	PublishNow(ctx context.Context, contentID uuid.UUID, actor *models.User) (*models.ContentPiece, []string, error)
}

// AutoPublisher periodically publishes scheduled pieces that are due.
type AutoPublisher struct {
	due      DueSource
	engine   Publisher
	interval time.Duration
	now      func() time.Time
}

// NewAutoPublisher creates the auto-publish loop.
func NewAutoPublisher(due DueSource, engine Publisher, interval time.Duration) *AutoPublisher {
	return &AutoPublisher{
		due:      due,
		engine:   engine,
		interval: interval,
		now:      time.Now,
	}
}

// Start begins the background scan loop. Runs one scan immediately, then on
// every tick until ctx is cancelled.
func (a *AutoPublisher) Start(ctx context.Context) {
	slog.Info("auto-publisher started", "interval", a.interval)

	a.scan(ctx)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("auto-publisher stopped")
			return
		case <-ticker.C:
			a.scan(ctx)
		}
	}
}

// scan publishes every due piece. Failures are logged and skipped; a piece
// that raced into another status simply fails its transition check and is
// picked out of the due set by that same transition.
func (a *AutoPublisher) scan(ctx context.Context) {
	pieces, err := a.due.GetDueAutoPublish(ctx, a.now(), 50)
	if err != nil {
		slog.Error("auto-publisher: failed to list due pieces", "error", err)
		return
	}

	if len(pieces) == 0 {
		return
	}

	slog.Info("auto-publisher: publishing due pieces", "count", len(pieces))

	for _, p := range pieces {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, warnings, err := a.engine.PublishNow(ctx, p.ID, nil)
		if err != nil {
			slog.Error("auto-publisher: publish failed", "content_id", p.ID, "title", p.Title, "error", err)
			continue
		}
		for _, w := range warnings {
			slog.Warn("auto-publisher: "+w, "content_id", p.ID, "title", p.Title)
		}
	}
}
