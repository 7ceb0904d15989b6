// Package calendar derives month/week/day grids from an anchor date,
// buckets work items into cells, and implements date-preserving-time
// rescheduling plus the responsive cell geometry of the month view.
package calendar

import (
	"time"

	"contentflow/internal/models"
)

// Cell is one day of a month or week grid.
type Cell struct {
	Date time.Time `json:"date"`
	// OtherMonth marks leading/trailing days padding the month out to
	// full weeks; they render dimmed.
	OtherMonth bool `json:"other_month"`
	// HasEventIdea marks days with a matching historical event, see the
	// event-idea overlay in overlay.go.
	HasEventIdea bool              `json:"has_event_idea"`
	Items        []models.WorkItem `json:"items,omitempty"`
}

// HourBucket is one hour of the day view.
type HourBucket struct {
	Hour  int               `json:"hour"`
	Items []models.WorkItem `json:"items,omitempty"`
}

// StartOfWeek returns the first instant of the week containing t, given the
// locale's first weekday.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	day := StartOfDay(t)
	diff := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -diff)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day, compared
// in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// MonthGrid emits one cell per day from the first day of the week
// containing the 1st of the anchor's month through the last day of the week
// containing the last day of the month. The result is always whole weeks.
func MonthGrid(anchor time.Time, weekStart time.Weekday) []Cell {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	last := first.AddDate(0, 1, -1)

	start := StartOfWeek(first, weekStart)
	end := StartOfWeek(last, weekStart).AddDate(0, 0, 6)

	var cells []Cell
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		cells = append(cells, Cell{
			Date:       d,
			OtherMonth: d.Month() != anchor.Month(),
		})
	}
	return cells
}

// WeekGrid emits the 7 days of the locale week containing the anchor.
func WeekGrid(anchor time.Time, weekStart time.Weekday) []Cell {
	start := StartOfWeek(anchor, weekStart)
	cells := make([]Cell, 7)
	for i := range cells {
		cells[i] = Cell{Date: start.AddDate(0, 0, i)}
	}
	return cells
}

// DayGrid emits 24 hour buckets for the anchor's day.
func DayGrid() []HourBucket {
	buckets := make([]HourBucket, 24)
	for i := range buckets {
		buckets[i] = HourBucket{Hour: i}
	}
	return buckets
}

// WeekCount returns the number of week rows in a month grid.
func WeekCount(cells []Cell) int {
	return len(cells) / 7
}

// BucketItems assigns each work item to the cell sharing its calendar day.
// Items outside the grid range are dropped.
func BucketItems(cells []Cell, items []models.WorkItem) []Cell {
	for i := range cells {
		cells[i].Items = nil
		for _, item := range items {
			if SameDay(cells[i].Date, item.Date) {
				cells[i].Items = append(cells[i].Items, item)
			}
		}
	}
	return cells
}

// BucketByHour assigns the day's work items to hour buckets. Items on other
// days are dropped.
func BucketByHour(day time.Time, items []models.WorkItem) []HourBucket {
	buckets := DayGrid()
	for _, item := range items {
		if !SameDay(day, item.Date) {
			continue
		}
		h := item.Date.In(day.Location()).Hour()
		buckets[h].Items = append(buckets[h].Items, item)
	}
	return buckets
}
