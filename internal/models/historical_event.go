package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoricalEvent is an entry in the read-only commemorative-date index.
// The calendar engine matches event geography against a client's registered
// cities/states/regions to surface content-idea affordances.
type HistoricalEvent struct {
	ID      uuid.UUID `json:"id"`
	Date    time.Time `json:"date"` // the calendar day the event falls on
	Title   string    `json:"title"`
	Cities  []string  `json:"cities"`
	States  []string  `json:"states"`
	Regions []string  `json:"regions"`
}

// MatchesGeography reports whether the event applies to any of the given
// cities, states, or regions. An event with no geography at all is national
// and matches everyone.
func (e *HistoricalEvent) MatchesGeography(cities, states, regions []string) bool {
	if len(e.Cities) == 0 && len(e.States) == 0 && len(e.Regions) == 0 {
		return true
	}
	return overlap(e.Cities, cities) || overlap(e.States, states) || overlap(e.Regions, regions)
}

func overlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
