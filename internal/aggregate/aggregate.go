// Package aggregate merges content pieces, creative requests and
// adjustment requests into the unified, time-ordered list behind the
// kanban and calendar views.
package aggregate

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"contentflow/internal/models"
)

// View selects the consuming surface; it changes windowing and exclusions.
type View string

const (
	// ViewKanban applies the rolling request window and hides approved
	// pieces whose date already passed (considered handled).
	ViewKanban View = "kanban"
	// ViewCalendar loads everything; the grid buckets by day itself.
	ViewCalendar View = "calendar"
)

// Scope narrows a load to an agency and optionally one client.
type Scope struct {
	AgencyID uuid.UUID
	ClientID *uuid.UUID
}

// Filters optionally narrows the result by item type or status. Used by the
// kanban requests column only.
type Filters struct {
	ItemTypes []string
	Statuses  []string
}

// Source is the read surface the aggregator fetches from.
type Source interface {
	ListContentPieces(ctx context.Context, agencyID uuid.UUID, clientID *uuid.UUID) ([]models.ContentPiece, error)
	ListPendingCreativeRequests(ctx context.Context, agencyID uuid.UUID, clientID *uuid.UUID) ([]models.CreativeRequest, error)
	ListAdjustmentRequestsInWindow(ctx context.Context, agencyID uuid.UUID, clientID *uuid.UUID, windowStart time.Time) ([]models.AdjustmentRequest, error)
}

// Aggregator builds work-item lists for a scope. Stateless; every load
// re-fetches and re-projects.
type Aggregator struct {
	src        Source
	windowDays int
	now        func() time.Time
}

// New creates an aggregator with the given kanban request window.
func New(src Source, windowDays int) *Aggregator {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &Aggregator{src: src, windowDays: windowDays, now: time.Now}
}

// LoadWorkItems fetches, projects, merges and sorts the scope's work items.
// The result is non-decreasing in date; ties are broken by creation time,
// then ID, so the order is fully deterministic.
func (a *Aggregator) LoadWorkItems(ctx context.Context, scope Scope, view View, filters *Filters) ([]models.WorkItem, error) {
	now := a.now()

	// Adjustment requests are windowed on the kanban; the calendar loads
	// the full history.
	var windowStart time.Time
	if view == ViewKanban {
		windowStart = now.AddDate(0, 0, -a.windowDays)
	}

	pieces, err := a.src.ListContentPieces(ctx, scope.AgencyID, scope.ClientID)
	if err != nil {
		return nil, err
	}
	creatives, err := a.src.ListPendingCreativeRequests(ctx, scope.AgencyID, scope.ClientID)
	if err != nil {
		return nil, err
	}
	adjustments, err := a.src.ListAdjustmentRequestsInWindow(ctx, scope.AgencyID, scope.ClientID, windowStart)
	if err != nil {
		return nil, err
	}

	items := make([]models.WorkItem, 0, len(pieces)+len(creatives)+len(adjustments))

	for i := range pieces {
		p := pieces[i]
		if view == ViewKanban && p.Status == models.StatusApproved && p.ScheduledAt.Before(now) {
			// Approved with a past date is already handled; it stays
			// visible on the calendar only.
			continue
		}
		items = append(items, projectContent(&p))
	}
	for i := range creatives {
		items = append(items, projectCreative(&creatives[i]))
	}
	for i := range adjustments {
		items = append(items, projectAdjustment(&adjustments[i]))
	}

	items = applyFilters(items, filters)

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.Before(items[j].Date)
		}
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID.String() < items[j].ID.String()
	})

	return items, nil
}

// LoadRequestFeed returns only the request-kind items, for the kanban
// requests column.
func (a *Aggregator) LoadRequestFeed(ctx context.Context, scope Scope, filters *Filters) ([]models.WorkItem, error) {
	merged := &Filters{
		ItemTypes: []string{models.ItemTypeCreativeRequest, models.ItemTypeAdjustmentRequest},
	}
	if filters != nil {
		if len(filters.ItemTypes) > 0 {
			merged.ItemTypes = filters.ItemTypes
		}
		merged.Statuses = filters.Statuses
	}
	return a.LoadWorkItems(ctx, scope, ViewKanban, merged)
}

func projectContent(p *models.ContentPiece) models.WorkItem {
	return models.WorkItem{
		ID:        p.ID,
		ItemType:  models.ItemTypeContent,
		Title:     p.Title,
		Date:      p.ScheduledAt,
		Status:    p.Status,
		ClientID:  p.ClientID,
		CreatedAt: p.CreatedAt,
		Content:   p,
	}
}

func projectCreative(r *models.CreativeRequest) models.WorkItem {
	date := r.CreatedAt
	if r.Deadline != nil {
		date = *r.Deadline
	}
	return models.WorkItem{
		ID:              r.ID,
		ItemType:        models.ItemTypeCreativeRequest,
		Title:           r.Title,
		Date:            date,
		Status:          r.JobStatus,
		ClientID:        r.ClientID,
		CreatedAt:       r.CreatedAt,
		CreativeRequest: r,
	}
}

func projectAdjustment(r *models.AdjustmentRequest) models.WorkItem {
	date := r.CreatedAt
	if r.ParentScheduledAt != nil {
		date = *r.ParentScheduledAt
	} else if r.ParentCreatedAt != nil {
		date = *r.ParentCreatedAt
	}
	title := r.Reason
	if r.ContentTitle != "" {
		title = r.ContentTitle + ": " + r.Reason
	}
	return models.WorkItem{
		ID:                r.ID,
		ItemType:          models.ItemTypeAdjustmentRequest,
		Title:             title,
		Date:              date,
		Status:            "",
		ClientID:          r.ClientID,
		CreatedAt:         r.CreatedAt,
		AdjustmentRequest: r,
	}
}

func applyFilters(items []models.WorkItem, f *Filters) []models.WorkItem {
	if f == nil || (len(f.ItemTypes) == 0 && len(f.Statuses) == 0) {
		return items
	}

	out := items[:0]
	for _, item := range items {
		if len(f.ItemTypes) > 0 && !contains(f.ItemTypes, item.ItemType) {
			continue
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, item.Status) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
