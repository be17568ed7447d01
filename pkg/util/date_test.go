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

func TestParseTimeDate(t *testing.T) {
	got, ok := ParseTime("2024-10-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Year() != 2024 || got.Month() != time.October || got.Day() != 10 {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestNextMonday(t *testing.T) {
	// 2024-10-10 is a Thursday
	from := time.Date(2024, 10, 10, 15, 30, 0, 0, time.UTC)
	got := NextMonday(from)
	if got.Weekday() != time.Monday {
		t.Fatalf("expected Monday, got %v", got.Weekday())
	}
	if !got.Equal(time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected next monday %v", got)
	}

	// from a Monday, the next Monday is a week out
	mon := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
	got = NextMonday(mon)
	if !got.Equal(time.Date(2024, 10, 21, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected next monday %v", got)
	}
}
