package db

import "context"

// TransitionCount is one (from, to) transition tally, read on metrics scrape.
type TransitionCount struct {
	FromStatus string
	ToStatus   string
	Count      int64
}

// IncrementTransitionCount bumps the tally for a status transition.
func (d *DB) IncrementTransitionCount(ctx context.Context, from, to string) error {
	query := `
		INSERT INTO transition_counts (from_status, to_status, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (from_status, to_status) DO UPDATE
		SET count = transition_counts.count + 1
	`
	_, err := d.Pool.Exec(ctx, query, from, to)
	return err
}

// GetAllTransitionCounts returns every transition tally.
func (d *DB) GetAllTransitionCounts(ctx context.Context) ([]TransitionCount, error) {
	rows, err := d.Pool.Query(ctx, `SELECT from_status, to_status, count FROM transition_counts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []TransitionCount
	for rows.Next() {
		var c TransitionCount
		if err := rows.Scan(&c.FromStatus, &c.ToStatus, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
