package calendar

import "time"

// CombineDayTime returns day's year/month/day combined with the original
// hour/minute/second/nanosecond of prior. A day-level drag never alters the
// time-of-day; only an explicit time-picker interaction does.
func CombineDayTime(day, prior time.Time) time.Time {
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		prior.Hour(), prior.Minute(), prior.Second(), prior.Nanosecond(),
		prior.Location(),
	)
}
