package types

import (
	"testing"
	"time"
)

func TestMonthOf(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want Month
	}{
		{"MidMonth", time.Date(2026, 3, 15, 12, 30, 0, 0, time.UTC), Month{2026, time.March}},
		{"FirstDay", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Month{2026, time.January}},
		{"LastInstant", time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC), Month{2026, time.December}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthOf(tt.t); got != tt.want {
				t.Errorf("MonthOf: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2026-03")
	if err != nil {
		t.Fatalf("ParseMonth error: %v", err)
	}
	if m != (Month{2026, time.March}) {
		t.Errorf("ParseMonth: got %v", m)
	}
	if m.String() != "2026-03" {
		t.Errorf("String: got %s, want 2026-03", m.String())
	}

	if _, err := ParseMonth("2026-13"); err == nil {
		t.Error("Expected error for invalid month")
	}
	if _, err := ParseMonth("march 2026"); err == nil {
		t.Error("Expected error for malformed string")
	}
}

func TestMonthNextPrev(t *testing.T) {
	m := MustParseMonth("2026-01")
	if got := m.Prev(); got != MustParseMonth("2025-12") {
		t.Errorf("Prev across year: got %v", got)
	}
	if got := m.Next(); got != MustParseMonth("2026-02") {
		t.Errorf("Next: got %v", got)
	}

	dec := MustParseMonth("2026-12")
	if got := dec.Next(); got != MustParseMonth("2027-01") {
		t.Errorf("Next across year: got %v", got)
	}
}

func TestMonthBounds(t *testing.T) {
	m := MustParseMonth("2026-02")

	wantStart := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if got := m.Start(); !got.Equal(wantStart) {
		t.Errorf("Start: got %v, want %v", got, wantStart)
	}

	wantEnd := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := m.End(); !got.Equal(wantEnd) {
		t.Errorf("End: got %v, want %v", got, wantEnd)
	}
}

func TestMonthContains(t *testing.T) {
	m := MustParseMonth("2026-03")

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"FirstInstant", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"MidMonth", time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC), true},
		{"LastInstant", time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC), true},
		{"NextMonthStart", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), false},
		{"PrevMonthEnd", time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Contains(tt.t); got != tt.want {
				t.Errorf("Contains(%v): got %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestMonthDays(t *testing.T) {
	tests := []struct {
		month string
		days  int
	}{
		{"2026-01", 31},
		{"2026-02", 28},
		{"2028-02", 29}, // leap year
		{"2026-04", 30},
	}

	for _, tt := range tests {
		t.Run(tt.month, func(t *testing.T) {
			if got := MustParseMonth(tt.month).Days(); got != tt.days {
				t.Errorf("Days: got %d, want %d", got, tt.days)
			}
		})
	}
}

func TestMonthWorkingDays(t *testing.T) {
	// round(days × 5/7)
	tests := []struct {
		month string
		want  int
	}{
		{"2026-01", 22}, // 31 days
		{"2026-02", 20}, // 28 days
		{"2028-02", 21}, // 29 days
		{"2026-04", 21}, // 30 days
	}

	for _, tt := range tests {
		t.Run(tt.month, func(t *testing.T) {
			if got := MustParseMonth(tt.month).WorkingDays(); got != tt.want {
				t.Errorf("WorkingDays: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMonthText(t *testing.T) {
	m := MustParseMonth("2026-07")

	data, err := m.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText error: %v", err)
	}
	if string(data) != "2026-07" {
		t.Errorf("MarshalText: got %s", data)
	}

	var parsed Month
	if err := parsed.UnmarshalText(data); err != nil {
		t.Fatalf("UnmarshalText error: %v", err)
	}
	if parsed != m {
		t.Errorf("Round trip: got %v, want %v", parsed, m)
	}

	// Zero value round-trips through empty text.
	var zero Month
	data, err = zero.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText error: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("Zero MarshalText: got %q, want empty", data)
	}
	var back Month
	if err := back.UnmarshalText(data); err != nil {
		t.Fatalf("UnmarshalText error: %v", err)
	}
	if !back.IsZero() {
		t.Errorf("Zero round trip: got %v", back)
	}
}
