// Package window provides day, week, and N-day boundary helpers for the
// rolling aggregates. All boundaries are computed in UTC; weeks are ISO
// weeks starting Monday.
package window

import (
	"fmt"
	"time"
)

// Common window lengths used by the aggregators.
const (
	PrimingWindowDays = 7
	TrendWindowDays   = 30
	BaselineTrendDays = 180
	HoursPerDay       = 24
)

// StartOfDay returns UTC midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfWeek returns UTC midnight of the Monday of the ISO week containing t.
func StartOfWeek(t time.Time) time.Time {
	d := StartOfDay(t)
	weekday := int(d.Weekday())
	if weekday == 0 { // Sunday
		weekday = 7
	}
	return d.AddDate(0, 0, -(weekday - 1))
}

// Start returns UTC midnight of the day `days-1` days before t, so the
// half-open window [Start(t, days), next midnight) covers `days` calendar days
// including the day of t.
func Start(t time.Time, days int) time.Time {
	if days < 1 {
		days = 1
	}
	return StartOfDay(t).AddDate(0, 0, -(days - 1))
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// SameISOWeek reports whether a and b fall in the same ISO week.
func SameISOWeek(a, b time.Time) bool {
	ay, aw := a.UTC().ISOWeek()
	by, bw := b.UTC().ISOWeek()
	return ay == by && aw == bw
}

// SameMonth reports whether a and b fall in the same UTC calendar month.
func SameMonth(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.Month() == bu.Month()
}

// DaysBetween returns the number of whole UTC calendar days from a to b.
// Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Hours() / HoursPerDay)
}

// WeekKey returns a stable identifier for the ISO week containing t,
// e.g. "2026-W35". Used as part of idempotency keys.
func WeekKey(t time.Time) string {
	y, w := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}

// MonthKey returns a stable identifier for the UTC month containing t,
// e.g. "2026-08".
func MonthKey(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%04d-%02d", u.Year(), int(u.Month()))
}
