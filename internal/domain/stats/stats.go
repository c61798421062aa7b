// Package stats computes derived attendance counts over a set of date keys.
// All functions are pure: no I/O, no state, input order never matters.
package stats

import (
	"inoffice/internal/domain/datekey"
)

// DefaultWindowDays is the product's rolling window: 13 weeks.
const DefaultWindowDays = 91

// CountInMonth counts keys whose calendar day falls within the given month,
// inclusive of both month bounds. Keys that are not valid date keys are
// ignored.
func CountInMonth(keys []string, year, month int) int {
	first, last := datekey.MonthBounds(year, month)
	count := 0
	for _, k := range keys {
		if !datekey.Valid(k) {
			continue
		}
		if datekey.InRange(k, first, last) {
			count++
		}
	}
	return count
}

// CountInRollingWindow counts keys within the trailing window of exactly
// windowDays calendar days ending on referenceDay, inclusive of both ends.
// Keys after referenceDay are never counted; future entries are excluded
// outright. Invalid keys are ignored.
// PRE: windowDays >= 1, referenceDay is a valid date key
// POST: Returns the number of keys in [referenceDay-(windowDays-1), referenceDay]
func CountInRollingWindow(keys []string, windowDays int, referenceDay string) int {
	if windowDays < 1 || !datekey.Valid(referenceDay) {
		return 0
	}
	start, err := datekey.AddDays(referenceDay, -(windowDays - 1))
	if err != nil {
		return 0
	}
	count := 0
	for _, k := range keys {
		if !datekey.Valid(k) {
			continue
		}
		if datekey.InRange(k, start, referenceDay) {
			count++
		}
	}
	return count
}
