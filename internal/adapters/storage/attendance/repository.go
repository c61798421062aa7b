package attendance

import (
	"context"

	"inoffice/internal/domain/backup"
)

// AccountRepository scopes a Store to one account, exposing the repository
// contract the attendance set mirror consumes.
type AccountRepository struct {
	store     Store
	accountID string
}

// NewAccountRepository binds a Store to one account.
func NewAccountRepository(store Store, accountID string) *AccountRepository {
	return &AccountRepository{store: store, accountID: accountID}
}

// FetchAll returns the account's full set of attendance days.
func (r *AccountRepository) FetchAll(ctx context.Context) ([]string, error) {
	return r.store.ListDays(ctx, r.accountID)
}

// FetchRange returns the account's attendance days within [start, end] inclusive.
func (r *AccountRepository) FetchRange(ctx context.Context, start, end string) ([]string, error) {
	return r.store.ListDaysInRange(ctx, r.accountID, start, end)
}

// Toggle flips one day and reports the resulting membership.
func (r *AccountRepository) Toggle(ctx context.Context, key string) (bool, error) {
	return r.store.Toggle(ctx, r.accountID, key)
}

// ExportAll returns the account's full set for backup download.
func (r *AccountRepository) ExportAll(ctx context.Context) ([]string, error) {
	return r.store.ListDays(ctx, r.accountID)
}

// BulkImport installs keys according to mode: replace makes the stored set
// exactly the deduplicated input; merge unions it in without deleting.
func (r *AccountRepository) BulkImport(ctx context.Context, keys []string, mode string) error {
	switch mode {
	case backup.ModeReplace:
		return r.store.ReplaceAll(ctx, r.accountID, keys)
	case backup.ModeMerge:
		return r.store.MergeAll(ctx, r.accountID, keys)
	default:
		return backup.ErrInvalidMode
	}
}
