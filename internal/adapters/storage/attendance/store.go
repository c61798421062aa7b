package attendance

import (
	"context"
)

// Store persists per-account attendance days. Every operation is scoped by
// accountID; no query may cross accounts.
type Store interface {
	ListDays(ctx context.Context, accountID string) ([]string, error)
	ListDaysInRange(ctx context.Context, accountID string, startDay string, endDay string) ([]string, error)
	// Toggle flips membership of one day and returns the resulting state:
	// true if the day is now present, false if now absent.
	Toggle(ctx context.Context, accountID string, day string) (bool, error)
	// ReplaceAll makes the account's stored set exactly the deduplicated input.
	ReplaceAll(ctx context.Context, accountID string, days []string) error
	// MergeAll adds the input days to the stored set; never deletes.
	MergeAll(ctx context.Context, accountID string, days []string) error
	Count(ctx context.Context, accountID string) (int, error)
	DeleteAllForAccount(ctx context.Context, accountID string) (int, error)
}
