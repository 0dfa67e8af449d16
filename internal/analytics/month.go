package analytics

import (
	"fmt"
	"time"
)

// MonthOf truncates a timestamp to the first day of its calendar month
// in UTC, the canonical month key used across all derived tables.
func MonthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthsBetween returns the number of calendar months from a to b.
// Both arguments are truncated to their month first, so only the
// year/month fields matter. Negative when b precedes a.
func MonthsBetween(a, b time.Time) int {
	a, b = MonthOf(a), MonthOf(b)
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// FormatMonth renders a month key as "YYYY-MM".
func FormatMonth(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}
