// Package metrics holds the small numeric helpers every automation shares:
// elapsed whole days, goal percentages and clamping.
package metrics

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// DaysSince returns the whole days elapsed from t to now, rounded down.
// A nil t yields nil so "never" stays distinct from "today" (0).
func DaysSince(t *time.Time, now time.Time) *int {
	if t == nil {
		return nil
	}
	days := int(math.Floor(float64(now.Sub(*t)) / float64(day)))
	return &days
}

// CeilDays returns the number of days from -> to, rounded up.
func CeilDays(from, to time.Time) int {
	return int(math.Ceil(float64(to.Sub(from)) / float64(day)))
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// PercentOf returns 100*num/den, unrounded. A non-positive den yields 0.
func PercentOf(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return 100 * num / den
}

// Round rounds half up, matching how scores are reported.
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampFloat bounds v to [lo, hi].
func ClampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
