package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"inoffice/internal/domain/account"
)

// AccountStoreForDelete defines the store interface needed by DeleteAccount.
type AccountStoreForDelete interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Delete(ctx context.Context, id string) error
}

// AttendanceStoreForDelete removes an account's attendance rows.
type AttendanceStoreForDelete interface {
	DeleteAllForAccount(ctx context.Context, accountID string) (int, error)
}

// DeleteAccountDeps holds dependencies for DeleteAccount.
type DeleteAccountDeps struct {
	AccountStore    AccountStoreForDelete
	AttendanceStore AttendanceStoreForDelete
}

var ErrAccountNotFound = errors.New("account not found")

// ExecuteDeleteAccount removes an account and all of its attendance data.
// PRE: accountID is non-empty
// POST: The account row and its attendance rows are gone
// INVARIANT: Attendance rows are removed before the account row, so the
// foreign key from attendance_day never dangles
func ExecuteDeleteAccount(ctx context.Context, accountID string, deps DeleteAccountDeps) error {
	if accountID == "" {
		return errors.New("account id cannot be empty")
	}

	acct, err := deps.AccountStore.GetByID(ctx, accountID)
	if err != nil {
		return ErrAccountNotFound
	}

	removed, err := deps.AttendanceStore.DeleteAllForAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if err := deps.AccountStore.Delete(ctx, accountID); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "account_deleted",
		"email", acct.Email, "attendance_rows", removed)
	return nil
}
