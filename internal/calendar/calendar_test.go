package calendar

import (
	"testing"
	"time"
)

func TestResolve_UTC(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	w, err := Resolve("UTC", now)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if w.Yesterday != "2024-06-14" {
		t.Errorf("Yesterday = %q, want 2024-06-14", w.Yesterday)
	}
	if w.Today != "2024-06-15" {
		t.Errorf("Today = %q, want 2024-06-15", w.Today)
	}
	if w.Tomorrow != "2024-06-16" {
		t.Errorf("Tomorrow = %q, want 2024-06-16", w.Tomorrow)
	}
}

func TestResolve_LateEveningWest(t *testing.T) {
	// 23:59 local in UTC-5 is already 04:59 next day in UTC. Today must be
	// the local civil date, not the UTC one.
	now := time.Date(2024, 3, 10, 4, 59, 0, 0, time.UTC)

	w, err := Resolve("Etc/GMT+5", now) // Etc/GMT+5 is UTC-5
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if w.Today != "2024-03-09" {
		t.Errorf("Today = %q, want 2024-03-09", w.Today)
	}
	if w.Tomorrow != "2024-03-10" {
		t.Errorf("Tomorrow = %q, want 2024-03-10", w.Tomorrow)
	}
}

func TestResolve_DSTSpringForward(t *testing.T) {
	// 2024-03-10 02:00 EST jumps to 03:00 EDT in America/New_York. The
	// window around the transition must still be consecutive civil dates.
	now := time.Date(2024, 3, 10, 6, 30, 0, 0, time.UTC) // 01:30 EST

	w, err := Resolve("America/New_York", now)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if w.Yesterday != "2024-03-09" {
		t.Errorf("Yesterday = %q, want 2024-03-09", w.Yesterday)
	}
	if w.Today != "2024-03-10" {
		t.Errorf("Today = %q, want 2024-03-10", w.Today)
	}
	if w.Tomorrow != "2024-03-11" {
		t.Errorf("Tomorrow = %q, want 2024-03-11", w.Tomorrow)
	}
}

func TestResolve_MonthBoundary(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC)

	w, err := Resolve("UTC", now)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// 2024 is a leap year.
	if w.Yesterday != "2024-02-29" {
		t.Errorf("Yesterday = %q, want 2024-02-29", w.Yesterday)
	}
}

func TestResolve_YearBoundary(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	w, err := Resolve("UTC", now)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if w.Yesterday != "2023-12-31" {
		t.Errorf("Yesterday = %q, want 2023-12-31", w.Yesterday)
	}
	if w.Today != "2024-01-01" {
		t.Errorf("Today = %q, want 2024-01-01", w.Today)
	}
}

func TestResolve_UnknownTimezone(t *testing.T) {
	_, err := Resolve("Not/AZone", time.Now())
	if err == nil {
		t.Error("Resolve(unknown tz) = nil, want error")
	}
}

func TestDayKey(t *testing.T) {
	now := time.Date(2024, 3, 10, 4, 59, 0, 0, time.UTC)

	key, err := DayKey("Etc/GMT+5", now)
	if err != nil {
		t.Fatalf("DayKey() error = %v", err)
	}
	if key != "2024-03-09" {
		t.Errorf("DayKey() = %q, want 2024-03-09", key)
	}
}

func TestValidDayKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"2024-03-10", true},
		{"1999-12-31", true},
		{"2024-3-10", false},
		{"2024-03-10T00:00:00Z", false},
		{"2024-13-01", false},
		{"2024-02-30", false},
		{"", false},
		{"not-a-date", false},
	}

	for _, tt := range tests {
		if got := ValidDayKey(tt.key); got != tt.want {
			t.Errorf("ValidDayKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
