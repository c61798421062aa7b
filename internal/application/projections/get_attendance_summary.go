package projections

import (
	"context"
	"fmt"
	"time"

	"inoffice/internal/application/attendanceset"
	"inoffice/internal/domain/datekey"
	"inoffice/internal/domain/stats"
)

// GetAttendanceSummaryQuery carries input for the attendance summary projection.
type GetAttendanceSummaryQuery struct {
	Month      string    // "YYYY-MM"; empty means the current month
	WindowDays int       // 0 means the default rolling window
	Now        time.Time // optional: if zero, time.Now() is used
}

// GetAttendanceSummaryResult carries the computed attendance counts.
type GetAttendanceSummaryResult struct {
	Month       string `json:"month"`
	MonthCount  int    `json:"monthCount"`
	WindowDays  int    `json:"windowDays"`
	WindowCount int    `json:"windowCount"`
	Total       int    `json:"total"`
}

// GetAttendanceSummaryDeps holds dependencies for the summary projection.
type GetAttendanceSummaryDeps struct {
	Set *attendanceset.Store
}

// QueryGetAttendanceSummary computes the calendar-month count, the rolling
// window count ending today, and the all-time total over the account's set.
// PRE: query.Month, when set, is "YYYY-MM"
// POST: Counts are computed over a snapshot; future days never contribute
func QueryGetAttendanceSummary(ctx context.Context, query GetAttendanceSummaryQuery, deps GetAttendanceSummaryDeps) (GetAttendanceSummaryResult, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}

	year, month := now.Year(), int(now.Month())
	monthLabel := fmt.Sprintf("%04d-%02d", year, month)
	if query.Month != "" {
		var err error
		year, month, err = parseMonth(query.Month)
		if err != nil {
			return GetAttendanceSummaryResult{}, err
		}
		monthLabel = query.Month
	}

	windowDays := query.WindowDays
	if windowDays <= 0 {
		windowDays = stats.DefaultWindowDays
	}

	days := deps.Set.Snapshot().Days
	return GetAttendanceSummaryResult{
		Month:       monthLabel,
		MonthCount:  stats.CountInMonth(days, year, month),
		WindowDays:  windowDays,
		WindowCount: stats.CountInRollingWindow(days, windowDays, datekey.FromTime(now)),
		Total:       len(days),
	}, nil
}

// parseMonth validates a "YYYY-MM" label by checking the first day of that
// month as a date key.
func parseMonth(s string) (year, month int, err error) {
	if year, month, _, err = datekey.Decode(s + "-01"); err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return year, month, nil
}
