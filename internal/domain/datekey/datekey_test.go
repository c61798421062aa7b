package datekey_test

import (
	"errors"
	"testing"
	"time"

	"inoffice/internal/domain/datekey"
)

// TestEncodeDecode_RoundTrip tests that Decode(Encode(y,m,d)) returns the
// components unchanged and Encode(Decode(key)) reproduces the key.
func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		year, month, day int
		want             string
	}{
		{2025, 1, 1, "2025-01-01"},
		{2025, 12, 31, "2025-12-31"},
		{2024, 2, 29, "2024-02-29"}, // leap day
		{1999, 6, 7, "1999-06-07"},
		{2025, 10, 10, "2025-10-10"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			key := datekey.Encode(tt.year, tt.month, tt.day)
			if key != tt.want {
				t.Fatalf("Encode(%d,%d,%d) = %q, want %q", tt.year, tt.month, tt.day, key, tt.want)
			}
			y, m, d, err := datekey.Decode(key)
			if err != nil {
				t.Fatalf("Decode(%q) error = %v", key, err)
			}
			if y != tt.year || m != tt.month || d != tt.day {
				t.Errorf("Decode(%q) = (%d,%d,%d), want (%d,%d,%d)", key, y, m, d, tt.year, tt.month, tt.day)
			}
			if got := datekey.Encode(y, m, d); got != key {
				t.Errorf("Encode(Decode(%q)) = %q, want %q", key, got, key)
			}
		})
	}
}

// TestDecode_Rejection tests that malformed and impossible dates are rejected
// with the right error.
func TestDecode_Rejection(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want error
	}{
		{"empty", "", datekey.ErrInvalidFormat},
		{"too short", "2025-1-1", datekey.ErrInvalidFormat},
		{"too long", "2025-01-001", datekey.ErrInvalidFormat},
		{"wrong separators", "2025/01/01", datekey.ErrInvalidFormat},
		{"letters", "2025-ab-01", datekey.ErrInvalidFormat},
		{"trailing junk", "2025-01-0x", datekey.ErrInvalidFormat},
		{"month 13", "2025-13-01", datekey.ErrInvalidCalendarDate},
		{"month 00", "2025-00-15", datekey.ErrInvalidCalendarDate},
		{"day 32", "2025-01-32", datekey.ErrInvalidCalendarDate},
		{"day 00", "2025-01-00", datekey.ErrInvalidCalendarDate},
		{"feb 30", "2025-02-30", datekey.ErrInvalidCalendarDate},
		{"feb 29 non-leap", "2025-02-29", datekey.ErrInvalidCalendarDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := datekey.Decode(tt.key)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode(%q) error = %v, want %v", tt.key, err, tt.want)
			}
			if datekey.Valid(tt.key) {
				t.Errorf("Valid(%q) = true, want false", tt.key)
			}
		})
	}
}

// TestInRange tests inclusive range membership.
func TestInRange(t *testing.T) {
	tests := []struct {
		name             string
		key, start, end  string
		want             bool
	}{
		{"before", "2025-01-01", "2025-01-02", "2025-01-10", false},
		{"first day", "2025-01-02", "2025-01-02", "2025-01-10", true},
		{"middle", "2025-01-05", "2025-01-02", "2025-01-10", true},
		{"last day", "2025-01-10", "2025-01-02", "2025-01-10", true},
		{"after", "2025-01-11", "2025-01-02", "2025-01-10", false},
		{"single-day range", "2025-01-02", "2025-01-02", "2025-01-02", true},
		{"across year boundary", "2025-01-01", "2024-12-25", "2025-01-05", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := datekey.InRange(tt.key, tt.start, tt.end); got != tt.want {
				t.Errorf("InRange(%q, %q, %q) = %v, want %v", tt.key, tt.start, tt.end, got, tt.want)
			}
		})
	}
}

// TestAddDays tests calendar-day offsets including month and year boundaries.
func TestAddDays(t *testing.T) {
	tests := []struct {
		key  string
		n    int
		want string
	}{
		{"2025-01-15", 0, "2025-01-15"},
		{"2025-01-31", 1, "2025-02-01"},
		{"2025-01-01", -1, "2024-12-31"},
		{"2024-02-28", 1, "2024-02-29"},
		{"2025-01-31", -90, "2024-11-02"},
	}

	for _, tt := range tests {
		got, err := datekey.AddDays(tt.key, tt.n)
		if err != nil {
			t.Fatalf("AddDays(%q, %d) error = %v", tt.key, tt.n, err)
		}
		if got != tt.want {
			t.Errorf("AddDays(%q, %d) = %q, want %q", tt.key, tt.n, got, tt.want)
		}
	}

	if _, err := datekey.AddDays("garbage", 1); err == nil {
		t.Error("AddDays with invalid key should fail")
	}
}

// TestMonthBounds tests first/last day keys for representative months.
func TestMonthBounds(t *testing.T) {
	tests := []struct {
		year, month int
		first, last string
	}{
		{2025, 1, "2025-01-01", "2025-01-31"},
		{2025, 2, "2025-02-01", "2025-02-28"},
		{2024, 2, "2024-02-01", "2024-02-29"},
		{2025, 12, "2025-12-01", "2025-12-31"},
	}

	for _, tt := range tests {
		first, last := datekey.MonthBounds(tt.year, tt.month)
		if first != tt.first || last != tt.last {
			t.Errorf("MonthBounds(%d, %d) = (%q, %q), want (%q, %q)", tt.year, tt.month, first, last, tt.first, tt.last)
		}
	}
}

// TestFromTime tests that the key reflects the local calendar day.
func TestFromTime(t *testing.T) {
	when := time.Date(2025, 3, 9, 23, 45, 0, 0, time.Local)
	if got := datekey.FromTime(when); got != "2025-03-09" {
		t.Errorf("FromTime = %q, want 2025-03-09", got)
	}
}
