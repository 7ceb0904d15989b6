package calendar

import (
	"context"
	"time"

	"contentflow/internal/models"
)

// EventSource is the read-only historical-event index consulted for the
// content-idea overlay.
type EventSource interface {
	ListEventsInRange(ctx context.Context, from, to time.Time) ([]models.HistoricalEvent, error)
}

// Geography is the set of places to match events against: one client's
// registered locations, or the union across the agency's clients when no
// client filter is active.
type Geography struct {
	Cities  []string
	States  []string
	Regions []string
}

// ClientGeography extracts a single client's geography.
func ClientGeography(c *models.Client) Geography {
	return Geography{Cities: c.Cities, States: c.States, Regions: c.Regions}
}

// MergeGeography unions the geography of several clients.
func MergeGeography(clients []models.Client) Geography {
	var g Geography
	for _, c := range clients {
		g.Cities = append(g.Cities, c.Cities...)
		g.States = append(g.States, c.States...)
		g.Regions = append(g.Regions, c.Regions...)
	}
	return g
}

// ApplyEventOverlay marks every cell whose day has at least one historical
// event matching the geography. The lookup is batched: one range query for
// the whole visible grid. Purely additive to rendering; scheduling is
// unaffected.
func ApplyEventOverlay(ctx context.Context, src EventSource, cells []Cell, geo Geography) ([]Cell, error) {
	if len(cells) == 0 {
		return cells, nil
	}

	from := cells[0].Date
	to := cells[len(cells)-1].Date
	events, err := src.ListEventsInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	for i := range cells {
		cells[i].HasEventIdea = false
		for _, e := range events {
			if SameDay(cells[i].Date, e.Date) && e.MatchesGeography(geo.Cities, geo.States, geo.Regions) {
				cells[i].HasEventIdea = true
				break
			}
		}
	}
	return cells, nil
}
