package models

import "time"

// All ranges in this system are half-open: [start, end). A booking ending
// on day D and another starting on day D never overlap, which is what makes
// same-day checkout/check-in legal.

// DateOnly truncates t to midnight UTC. Day-granularity fields are always
// stored normalized so equality and Before/After behave as date comparisons.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RangesOverlap is the half-open interval overlap test used for both
// day-granularity date ranges and timestamp ranges.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// NightsBetween returns the number of nights in [start, end).
// Inputs are expected to be date-normalized; a non-positive range yields 0.
func NightsBetween(start, end time.Time) int {
	if !start.Before(end) {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}

// HalfDayAt returns the [start, end) window of the given half of day d.
// afternoon=false is 00:00-12:00, afternoon=true is 12:00-24:00.
func HalfDayAt(d time.Time, afternoon bool) (time.Time, time.Time) {
	day := DateOnly(d)
	noon := day.Add(12 * time.Hour)
	if afternoon {
		return noon, day.Add(24 * time.Hour)
	}
	return day, noon
}
