package analytics

import (
	"testing"
	"time"
)

func TestMonthOf(t *testing.T) {
	in := time.Date(2024, 2, 15, 13, 45, 12, 0, time.UTC)
	want := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if got := MonthOf(in); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMonthsBetween_SameMonth(t *testing.T) {
	a := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 28, 23, 0, 0, 0, time.UTC)
	if got := MonthsBetween(a, b); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

func TestMonthsBetween_AcrossYear(t *testing.T) {
	a := time.Date(2023, 11, 30, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if got := MonthsBetween(a, b); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
}

func TestMonthsBetween_Negative(t *testing.T) {
	a := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := MonthsBetween(a, b); got != -4 {
		t.Fatalf("got %d, want -4", got)
	}
}

func TestFormatMonth(t *testing.T) {
	d := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	if got := FormatMonth(d); got != "2024-07" {
		t.Fatalf("got %q, want %q", got, "2024-07")
	}
}
