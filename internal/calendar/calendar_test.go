package calendar

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"contentflow/internal/models"
)

func TestMonthGridFullWeeks(t *testing.T) {
	tests := []struct {
		name      string
		anchor    time.Time
		weekStart time.Weekday
		wantWeeks int
		wantFirst time.Time
		wantLast  time.Time
	}{
		{
			name:      "march 2026 monday start",
			anchor:    time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
			weekStart: time.Monday,
			wantWeeks: 6,
			wantFirst: time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC),
			wantLast:  time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "february 2027 starts on its own monday",
			anchor:    time.Date(2027, 2, 10, 0, 0, 0, 0, time.UTC),
			weekStart: time.Monday,
			wantWeeks: 4,
			wantFirst: time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC),
			wantLast:  time.Date(2027, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "six week month sunday start",
			anchor:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			weekStart: time.Sunday,
			wantWeeks: 6,
			wantFirst: time.Date(2026, 7, 26, 0, 0, 0, 0, time.UTC),
			wantLast:  time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := MonthGrid(tt.anchor, tt.weekStart)
			if len(cells)%7 != 0 {
				t.Fatalf("grid is not whole weeks: %d cells", len(cells))
			}
			if got := WeekCount(cells); got != tt.wantWeeks {
				t.Errorf("weeks: got %d, want %d", got, tt.wantWeeks)
			}
			if !cells[0].Date.Equal(tt.wantFirst) {
				t.Errorf("first cell: got %v, want %v", cells[0].Date, tt.wantFirst)
			}
			if !cells[len(cells)-1].Date.Equal(tt.wantLast) {
				t.Errorf("last cell: got %v, want %v", cells[len(cells)-1].Date, tt.wantLast)
			}
			for _, c := range cells {
				wantOther := c.Date.Month() != tt.anchor.Month()
				if c.OtherMonth != wantOther {
					t.Errorf("cell %v: OtherMonth=%v", c.Date, c.OtherMonth)
				}
			}
		})
	}
}

func TestWeekGrid(t *testing.T) {
	anchor := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC) // a Sunday
	cells := WeekGrid(anchor, time.Monday)
	if len(cells) != 7 {
		t.Fatalf("got %d cells", len(cells))
	}
	if want := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC); !cells[0].Date.Equal(want) {
		t.Errorf("week start: got %v, want %v", cells[0].Date, want)
	}
	if !cells[6].Date.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("week end: got %v", cells[6].Date)
	}
}

func TestBucketItems(t *testing.T) {
	cells := MonthGrid(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Monday)
	inGrid := models.WorkItem{
		ID:   uuid.New(),
		Date: time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC),
	}
	outside := models.WorkItem{
		ID:   uuid.New(),
		Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	cells = BucketItems(cells, []models.WorkItem{inGrid, outside})

	var placed, total int
	for _, c := range cells {
		total += len(c.Items)
		if SameDay(c.Date, inGrid.Date) && len(c.Items) == 1 {
			placed++
		}
	}
	if placed != 1 {
		t.Error("item not bucketed into its day")
	}
	if total != 1 {
		t.Errorf("items outside the grid must be dropped, total %d", total)
	}
}

func TestBucketByHour(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	items := []models.WorkItem{
		{ID: uuid.New(), Date: time.Date(2026, 3, 10, 9, 15, 0, 0, time.UTC)},
		{ID: uuid.New(), Date: time.Date(2026, 3, 10, 9, 45, 0, 0, time.UTC)},
		{ID: uuid.New(), Date: time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)},
	}

	buckets := BucketByHour(day, items)
	if len(buckets) != 24 {
		t.Fatalf("got %d buckets", len(buckets))
	}
	if len(buckets[9].Items) != 2 {
		t.Errorf("hour 9: got %d items", len(buckets[9].Items))
	}
	for h, b := range buckets {
		if h != 9 && len(b.Items) != 0 {
			t.Errorf("hour %d unexpectedly has items", h)
		}
	}
}

func TestCombineDayTimePreservesTimeOfDay(t *testing.T) {
	prior := time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	got := CombineDayTime(day, prior)
	want := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCombineDayTimeKeepsLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	prior := time.Date(2026, 5, 1, 23, 59, 59, 123456789, loc)
	day := time.Date(2026, 5, 20, 4, 0, 0, 0, time.UTC)

	got := CombineDayTime(day, prior)
	if got.Location() != loc {
		t.Errorf("location: got %v", got.Location())
	}
	if got.Hour() != 23 || got.Minute() != 59 || got.Second() != 59 || got.Nanosecond() != 123456789 {
		t.Errorf("time-of-day not preserved: %v", got)
	}
	if got.Year() != 2026 || got.Month() != time.May || got.Day() != 20 {
		t.Errorf("day not taken from target: %v", got)
	}
}

func TestMonthCellSizePortrait(t *testing.T) {
	tests := []struct {
		name string
		l    Layout
	}{
		{"roomy container", Layout{ContainerWidth: 1400, ContainerHeight: 1600, HeaderHeight: 40, Gap: 8, WeekCount: 5}},
		{"height constrained", Layout{ContainerWidth: 1400, ContainerHeight: 700, HeaderHeight: 40, Gap: 8, WeekCount: 6}},
		{"narrow phone", Layout{ContainerWidth: 360, ContainerHeight: 640, HeaderHeight: 32, Gap: 4, WeekCount: 5}},
		{"no height information", Layout{ContainerWidth: 900, Gap: 8, WeekCount: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size := MonthCellSize(tt.l)
			if size.Width < 0 {
				t.Fatalf("negative width %v", size.Width)
			}
			if size.Width > 0 && size.Height <= size.Width {
				t.Errorf("cell not portrait: w=%v h=%v", size.Width, size.Height)
			}
		})
	}
}

func TestMonthCellSizeUnconstrainedRatio(t *testing.T) {
	size := MonthCellSize(Layout{ContainerWidth: 1400, ContainerHeight: 5000, HeaderHeight: 0, Gap: 8, WeekCount: 5})
	wantW := (1400.0 - 6*8) / 7
	if math.Abs(size.Width-wantW) > 1e-9 {
		t.Errorf("width: got %v, want %v", size.Width, wantW)
	}
	if math.Abs(size.Height-wantW*1.25) > 1e-9 {
		t.Errorf("height: got %v, want %v", size.Height, wantW*1.25)
	}
}

func TestMonthCellSizeZeroWidth(t *testing.T) {
	size := MonthCellSize(Layout{ContainerWidth: 10, Gap: 8, WeekCount: 5})
	if size.Width != 0 {
		t.Errorf("width: got %v, want 0", size.Width)
	}
}

type fakeEventSource struct {
	events []models.HistoricalEvent
	calls  int
}

func (f *fakeEventSource) ListEventsInRange(_ context.Context, from, to time.Time) ([]models.HistoricalEvent, error) {
	f.calls++
	var out []models.HistoricalEvent
	for _, e := range f.events {
		if !e.Date.Before(from) && !e.Date.After(to.AddDate(0, 0, 1)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestApplyEventOverlay(t *testing.T) {
	cells := MonthGrid(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), time.Monday)
	src := &fakeEventSource{events: []models.HistoricalEvent{
		{
			ID:    uuid.New(),
			Date:  time.Date(2026, 6, 24, 0, 0, 0, 0, time.UTC),
			Title: "São João",
			Regions: []string{
				"Nordeste",
			},
		},
		{
			ID:    uuid.New(),
			Date:  time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC),
			Title: "Dia dos Namorados", // no geography: national
		},
		{
			ID:     uuid.New(),
			Date:   time.Date(2026, 6, 9, 0, 0, 0, 0, time.UTC),
			Title:  "Aniversário da cidade",
			Cities: []string{"Recife"},
		},
	}}

	geo := Geography{Cities: []string{"Fortaleza"}, Regions: []string{"Nordeste"}}
	cells, err := ApplyEventOverlay(context.Background(), src, cells, geo)
	if err != nil {
		t.Fatalf("ApplyEventOverlay: %v", err)
	}
	if src.calls != 1 {
		t.Errorf("expected one batched range query, got %d", src.calls)
	}

	marked := map[int]bool{}
	for _, c := range cells {
		if c.HasEventIdea {
			marked[c.Date.Day()] = c.Date.Month() == time.June
		}
	}
	if !marked[24] {
		t.Error("regional match on June 24 not marked")
	}
	if !marked[12] {
		t.Error("national event on June 12 not marked")
	}
	if marked[9] {
		t.Error("June 9 marked despite city mismatch")
	}
}

func TestMergeGeography(t *testing.T) {
	clients := []models.Client{
		{Cities: []string{"Recife"}, Regions: []string{"Nordeste"}},
		{Cities: []string{"São Paulo"}, States: []string{"SP"}},
	}
	g := MergeGeography(clients)
	if len(g.Cities) != 2 || len(g.States) != 1 || len(g.Regions) != 1 {
		t.Errorf("merged geography: %+v", g)
	}
}
