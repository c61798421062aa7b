// Package datekey provides the canonical YYYY-MM-DD representation of a
// local calendar day and the range arithmetic used throughout the app.
//
// All comparisons happen on local calendar days, never on instants. Building
// a time.Time directly from a compact date string interprets it as UTC
// midnight, which shifts the displayed day near timezone boundaries; every
// conversion in this package goes through Encode/Decode instead.
package datekey

import (
	"errors"
	"fmt"
	"time"
)

// Errors returned by Decode.
var (
	ErrInvalidFormat       = errors.New("date key must match YYYY-MM-DD")
	ErrInvalidCalendarDate = errors.New("date key does not denote a real calendar date")
)

// KeyLength is the fixed width of an encoded date key.
const KeyLength = 10

// Encode produces the canonical zero-padded YYYY-MM-DD key for a local
// calendar day. It does not validate the components; pair with Decode when
// the inputs are untrusted.
func Encode(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// Decode parses a date key into its year, month and day components.
// PRE: key is an arbitrary string
// POST: Returns components iff key is well-formed and denotes a real date
func Decode(key string) (year, month, day int, err error) {
	if len(key) != KeyLength || key[4] != '-' || key[7] != '-' {
		return 0, 0, 0, ErrInvalidFormat
	}
	for i, c := range key {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return 0, 0, 0, ErrInvalidFormat
		}
	}
	year = atoi(key[0:4])
	month = atoi(key[5:7])
	day = atoi(key[8:10])

	// Shape is right; now check the components form a real date. time.Date
	// normalizes out-of-range values (Feb 30 becomes Mar 2), so a round-trip
	// through it detects impossible dates.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return 0, 0, 0, ErrInvalidCalendarDate
	}
	return year, month, day, nil
}

// Valid reports whether key is a well-formed, real calendar date.
func Valid(key string) bool {
	_, _, _, err := Decode(key)
	return err == nil
}

// InRange reports whether key falls within [start, end], inclusive on both
// ends. Keys compare by calendar day only; the canonical encoding is
// lexicographically ordered, so string comparison is exact.
func InRange(key, start, end string) bool {
	return key >= start && key <= end
}

// FromTime returns the date key for the local calendar day of t.
func FromTime(t time.Time) string {
	y, m, d := t.Date()
	return Encode(y, int(m), d)
}

// Today returns the date key for the current local calendar day.
func Today() string {
	return FromTime(time.Now())
}

// AddDays returns the key offset by n calendar days (n may be negative).
// PRE: key is a valid date key
// POST: Returns the shifted key, or an error if key is invalid
func AddDays(key string, n int) (string, error) {
	y, m, d, err := Decode(key)
	if err != nil {
		return "", err
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local).AddDate(0, 0, n)
	return FromTime(t), nil
}

// MonthBounds returns the first and last date keys of the given month.
func MonthBounds(year, month int) (first, last string) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, -1)
	return FromTime(start), FromTime(end)
}

func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
