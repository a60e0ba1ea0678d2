package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeBareDate(t *testing.T) {
	got, ok := ParseTime("2024-10-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Year() != 2024 || got.Month() != 10 || got.Day() != 10 {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestWeekStartIsMonday(t *testing.T) {
	// 2024-10-10 is a Thursday; its week opens Monday 2024-10-07.
	thu := time.Date(2024, 10, 10, 15, 4, 0, 0, time.UTC)
	want := time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC)
	if got := WeekStart(thu); !got.Equal(want) {
		t.Fatalf("week start = %v, want %v", got, want)
	}
	// a Monday maps to itself
	if got := WeekStart(want); !got.Equal(want) {
		t.Fatalf("monday week start = %v, want %v", got, want)
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 15, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 14 {
		t.Fatalf("days = %d, want 14", got)
	}
	if got := DaysBetween(b, a); got != -14 {
		t.Fatalf("days = %d, want -14", got)
	}
}
