package attendance

import (
	"context"
	"time"

	"inoffice/internal/adapters/storage"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new attendance Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListDays retrieves all attendance days for an account, ordered ascending.
// PRE: accountID is non-empty
// POST: Returns the account's day keys sorted ascending
func (s *SQLiteStore) ListDays(ctx context.Context, accountID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT day FROM attendance_day WHERE account_id = ? ORDER BY day", accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDays(rows)
}

// ListDaysInRange retrieves attendance days within [startDay, endDay] inclusive.
// PRE: accountID is non-empty, startDay and endDay are YYYY-MM-DD keys
// POST: Returns matching day keys sorted ascending
func (s *SQLiteStore) ListDaysInRange(ctx context.Context, accountID string, startDay string, endDay string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT day FROM attendance_day WHERE account_id = ? AND day >= ? AND day <= ? ORDER BY day",
		accountID, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDays(rows)
}

// Toggle flips membership of a single day inside one transaction.
// PRE: accountID and day are non-empty
// POST: Returns true if the day is now present, false if now absent
func (s *SQLiteStore) Toggle(ctx context.Context, accountID string, day string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"DELETE FROM attendance_day WHERE account_id = ? AND day = ?", accountID, day)
	if err != nil {
		return false, err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	nowPresent := deleted == 0
	if nowPresent {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO attendance_day (account_id, day, created_at) VALUES (?, ?, ?)",
			accountID, day, time.Now().Format(time.RFC3339Nano))
		if err != nil {
			return false, err
		}
	}

	return nowPresent, tx.Commit()
}

// ReplaceAll makes the account's stored set exactly the deduplicated input,
// inside one transaction.
// PRE: accountID is non-empty, days are valid YYYY-MM-DD keys
// POST: The stored set equals the deduplicated input
func (s *SQLiteStore) ReplaceAll(ctx context.Context, accountID string, days []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM attendance_day WHERE account_id = ?", accountID); err != nil {
		return err
	}

	now := time.Now().Format(time.RFC3339Nano)
	for _, day := range dedupe(days) {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO attendance_day (account_id, day, created_at) VALUES (?, ?, ?)",
			accountID, day, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// MergeAll adds the input days to the stored set. Existing rows are left
// alone; nothing is ever deleted under merge.
// PRE: accountID is non-empty, days are valid YYYY-MM-DD keys
// POST: The stored set is the union of its previous contents and the input
func (s *SQLiteStore) MergeAll(ctx context.Context, accountID string, days []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().Format(time.RFC3339Nano)
	for _, day := range dedupe(days) {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO attendance_day (account_id, day, created_at) VALUES (?, ?, ?)",
			accountID, day, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Count returns the number of attendance days stored for an account.
// PRE: accountID is non-empty
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, accountID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM attendance_day WHERE account_id = ?", accountID).Scan(&count)
	return count, err
}

// DeleteAllForAccount removes every attendance row for an account.
// PRE: accountID is non-empty
// POST: Returns the number of deleted rows
func (s *SQLiteStore) DeleteAllForAccount(ctx context.Context, accountID string) (int, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM attendance_day WHERE account_id = ?", accountID)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

// rowsScanner is the subset of *sql.Rows scanDays needs.
type rowsScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanDays(rows rowsScanner) ([]string, error) {
	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func dedupe(days []string) []string {
	seen := make(map[string]bool, len(days))
	out := make([]string, 0, len(days))
	for _, d := range days {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
