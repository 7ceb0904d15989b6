package db

import (
	"context"
	"time"

	"contentflow/internal/models"
)

// ListEventsInRange returns historical events whose date falls inside
// [from, to], inclusive. Geography matching happens in the calendar engine;
// this query only narrows by date.
func (d *DB) ListEventsInRange(ctx context.Context, from, to time.Time) ([]models.HistoricalEvent, error) {
	query := `
		SELECT id, event_date, title, cities, states, regions
		FROM historical_events
		WHERE event_date >= $1::date AND event_date <= $2::date
		ORDER BY event_date
	`
	rows, err := d.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.HistoricalEvent
	for rows.Next() {
		var e models.HistoricalEvent
		if err := rows.Scan(&e.ID, &e.Date, &e.Title, &e.Cities, &e.States, &e.Regions); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
