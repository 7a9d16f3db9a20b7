package mealplans

import "time"

// Calendar arithmetic used by the view projections. All functions operate on
// calendar components (year, month, day) in UTC so that timestamps carrying a
// time-of-day or zone offset never shift a meal onto a neighboring date.

// dateOnly truncates a timestamp to its calendar date at midnight UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// sameDay reports whether two timestamps fall on the same calendar date.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// startOfWeek returns the Monday on or before t (ISO convention: a Sunday
// belongs to the week that started six days earlier).
func startOfWeek(t time.Time) time.Time {
	d := dateOnly(t)
	if d.Weekday() == time.Sunday {
		return d.AddDate(0, 0, -6)
	}
	return d.AddDate(0, 0, -(int(d.Weekday()) - 1))
}

// isoWeekNumber computes the ISO-8601 week number with the Thursday-anchored
// algorithm: shift the date to the Thursday of its week, then count Thursdays
// since the first Thursday of that Thursday's year.
func isoWeekNumber(t time.Time) int {
	d := dateOnly(t)
	// Monday=0 .. Sunday=6
	weekday := (int(d.Weekday()) + 6) % 7
	thursday := d.AddDate(0, 0, 3-weekday)

	jan1 := time.Date(thursday.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	firstThursday := jan1.AddDate(0, 0, (int(time.Thursday)-int(jan1.Weekday())+7)%7)

	return int(thursday.Sub(firstThursday).Hours()/(24*7)) + 1
}

// monthBounds returns the first and last calendar day of a month.
func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// monthGridStart returns the Monday on or before the first day of the month,
// where the month-view calendar grid begins.
func monthGridStart(monthStart time.Time) time.Time {
	return startOfWeek(monthStart)
}

// weekdayName returns the English weekday name for a date.
func weekdayName(t time.Time) string {
	return t.Weekday().String()
}
