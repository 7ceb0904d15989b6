package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"contentflow/internal/db"
)

var (
	transitionDesc = prometheus.NewDesc(
		"contentflow_status_transitions_total",
		"Total workflow status transition count by from/to status",
		[]string{"from_status", "to_status"},
		nil,
	)
)

// TransitionCollector is a custom Prometheus collector that reads transition
// counts from the database on each scrape.
type TransitionCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *TransitionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- transitionDesc
}

// Collect queries the database for all transition counts and emits them as
// counters.
func (c *TransitionCollector) Collect(ch chan<- prometheus.Metric) {
	counts, err := c.db.GetAllTransitionCounts(context.Background())
	if err != nil {
		slog.Error("failed to collect transition metrics", "error", err)
		return
	}
	for _, t := range counts {
		ch <- prometheus.MustNewConstMetric(
			transitionDesc,
			prometheus.CounterValue,
			float64(t.Count),
			t.FromStatus,
			t.ToStatus,
		)
	}
}

// Recorder provides async transition recording.
type Recorder struct {
	db *db.DB
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the custom collector and initializes the recorder.
// Must be called once at startup.
func Init(database *db.DB) {
	recorderOnce.Do(func() {
		recorder = &Recorder{db: database}
		prometheus.MustRegister(&TransitionCollector{db: database})
	})
}

// RecordTransition asynchronously records a status transition. Wired into
// the workflow engine as its metrics hook.
func RecordTransition(fromStatus, toStatus string) {
	if recorder == nil {
		return
	}
	go func() {
		if err := recorder.db.IncrementTransitionCount(context.Background(), fromStatus, toStatus); err != nil {
			slog.Error("failed to record transition", "from", fromStatus, "to", toStatus, "error", err)
		}
	}()
}
