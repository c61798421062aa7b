package orchestrators

import (
	"context"
	"errors"
	"testing"

	"inoffice/internal/domain/account"
)

// mockAttendanceDeleter implements AttendanceStoreForDelete.
type mockAttendanceDeleter struct {
	rows      map[string]int // accountID -> stored row count
	deleteErr error
	deleted   []string
}

func (m *mockAttendanceDeleter) DeleteAllForAccount(_ context.Context, accountID string) (int, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	n := m.rows[accountID]
	delete(m.rows, accountID)
	m.deleted = append(m.deleted, accountID)
	return n, nil
}

func TestExecuteDeleteAccountSuccess(t *testing.T) {
	store := newMockAccountStore()
	acct := seedAccount(t, store, "dana@example.com", "long-enough-password", account.RoleUser)
	att := &mockAttendanceDeleter{rows: map[string]int{acct.ID: 3}}

	err := ExecuteDeleteAccount(context.Background(), acct.ID,
		DeleteAccountDeps{AccountStore: store, AttendanceStore: att})
	if err != nil {
		t.Fatalf("ExecuteDeleteAccount error = %v", err)
	}

	if _, err := store.GetByID(context.Background(), acct.ID); err == nil {
		t.Error("account should be gone after deletion")
	}
	if len(att.deleted) != 1 || att.deleted[0] != acct.ID {
		t.Errorf("attendance rows deleted for %v, want [%s]", att.deleted, acct.ID)
	}
}

func TestExecuteDeleteAccountNotFound(t *testing.T) {
	store := newMockAccountStore()
	att := &mockAttendanceDeleter{rows: map[string]int{}}

	err := ExecuteDeleteAccount(context.Background(), "no-such-id",
		DeleteAccountDeps{AccountStore: store, AttendanceStore: att})
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("error = %v, want ErrAccountNotFound", err)
	}
	if len(att.deleted) != 0 {
		t.Error("no attendance rows should be touched for an unknown account")
	}
}

func TestExecuteDeleteAccountAttendanceFailureKeepsAccount(t *testing.T) {
	store := newMockAccountStore()
	acct := seedAccount(t, store, "dana@example.com", "long-enough-password", account.RoleUser)
	att := &mockAttendanceDeleter{deleteErr: errors.New("database is locked")}

	err := ExecuteDeleteAccount(context.Background(), acct.ID,
		DeleteAccountDeps{AccountStore: store, AttendanceStore: att})
	if err == nil {
		t.Fatal("expected error when attendance deletion fails")
	}
	if _, err := store.GetByID(context.Background(), acct.ID); err != nil {
		t.Error("account row must remain when its attendance rows could not be removed")
	}
}

func TestExecuteDeleteAccountEmptyID(t *testing.T) {
	store := newMockAccountStore()
	att := &mockAttendanceDeleter{rows: map[string]int{}}

	err := ExecuteDeleteAccount(context.Background(), "",
		DeleteAccountDeps{AccountStore: store, AttendanceStore: att})
	if err == nil {
		t.Fatal("expected error for empty account id")
	}
}
