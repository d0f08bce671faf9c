package health

import (
	"testing"
	"time"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestStreakEmpty(t *testing.T) {
	if got := Streak(nil, time.Now()); got != 0 {
		t.Fatalf("empty history: want=0 got=%d", got)
	}
}

func TestStreakConsecutiveDays(t *testing.T) {
	today := day(t, "2025-03-10")
	dates := []time.Time{
		day(t, "2025-03-10"),
		day(t, "2025-03-09"),
		day(t, "2025-03-08"),
	}
	if got := Streak(dates, today); got != 3 {
		t.Fatalf("consecutive: want=3 got=%d", got)
	}
}

func TestStreakAnchoredAtYesterday(t *testing.T) {
	today := day(t, "2025-03-10")
	dates := []time.Time{
		day(t, "2025-03-09"),
		day(t, "2025-03-08"),
	}
	if got := Streak(dates, today); got != 2 {
		t.Fatalf("yesterday anchor: want=2 got=%d", got)
	}
}

func TestStreakGapBreaksWalk(t *testing.T) {
	today := day(t, "2025-03-10")
	dates := []time.Time{
		day(t, "2025-03-10"),
		day(t, "2025-03-08"),
	}
	if got := Streak(dates, today); got != 1 {
		t.Fatalf("gap at D-1: want=1 got=%d", got)
	}
}

func TestStreakStaleHistory(t *testing.T) {
	today := day(t, "2025-03-10")
	dates := []time.Time{
		day(t, "2025-03-07"),
		day(t, "2025-03-06"),
	}
	if got := Streak(dates, today); got != 0 {
		t.Fatalf("stale history: want=0 got=%d", got)
	}
}

func TestStreakDuplicateDateSkipped(t *testing.T) {
	today := day(t, "2025-03-10")
	dates := []time.Time{
		day(t, "2025-03-10"),
		day(t, "2025-03-10"),
		day(t, "2025-03-09"),
	}
	if got := Streak(dates, today); got != 2 {
		t.Fatalf("duplicate date: want=2 got=%d", got)
	}
}

func TestStreakIgnoresWallClock(t *testing.T) {
	today := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	dates := []time.Time{
		time.Date(2025, 3, 10, 0, 5, 0, 0, time.UTC),
		time.Date(2025, 3, 9, 18, 0, 0, 0, time.UTC),
	}
	if got := Streak(dates, today); got != 2 {
		t.Fatalf("wall clock: want=2 got=%d", got)
	}
}
