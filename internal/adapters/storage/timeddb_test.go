package storage

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	_ "modernc.org/sqlite"

	"inoffice/internal/adapters/http/perf"
)

func openTimedTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec("CREATE TABLE test (id TEXT PRIMARY KEY, val TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

// TestTimedDB_ExecContext verifies ExecContext records timing.
func TestTimedDB_ExecContext(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)

	if _, err := tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES (?, ?)", "1", "a"); err != nil {
		t.Fatalf("ExecContext failed: %v", err)
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
	snap := collector.Snapshot(10)
	if len(snap.SlowQueries) != 1 || snap.SlowQueries[0].Name != "ExecContext" {
		t.Errorf("unexpected query stats %v", snap.SlowQueries)
	}
}

// TestTimedDB_QueryContext verifies QueryContext records timing and returns rows.
func TestTimedDB_QueryContext(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)

	tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES ('1', 'a')")
	rows, err := tdb.QueryContext(context.Background(), "SELECT id FROM test")
	if err != nil {
		t.Fatalf("QueryContext failed: %v", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}
	if collector.TotalRecorded() != 2 {
		t.Errorf("TotalRecorded = %d, want 2", collector.TotalRecorded())
	}
}

// TestTimedDB_QueryRowContext verifies single-row queries flow through.
func TestTimedDB_QueryRowContext(t *testing.T) {
	db := openTimedTestDB(t)
	tdb := NewTimedDB(db, perf.NewCollector(100))

	tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES ('1', 'hello')")
	var val string
	if err := tdb.QueryRowContext(context.Background(), "SELECT val FROM test WHERE id = ?", "1").Scan(&val); err != nil {
		t.Fatalf("QueryRowContext failed: %v", err)
	}
	if val != "hello" {
		t.Errorf("val = %q, want hello", val)
	}
}

// TestTimedDB_BeginTx verifies transactions work through the wrapper.
func TestTimedDB_BeginTx(t *testing.T) {
	db := openTimedTestDB(t)
	tdb := NewTimedDB(db, perf.NewCollector(100))

	tx, err := tdb.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("BeginTx failed: %v", err)
	}
	if _, err := tx.Exec("INSERT INTO test (id, val) VALUES ('1', 'a')"); err != nil {
		t.Fatalf("tx exec failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	var count int
	tdb.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM test").Scan(&count)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

// TestTimedDB_NilCollector verifies the wrapper works without a collector.
func TestTimedDB_NilCollector(t *testing.T) {
	db := openTimedTestDB(t)
	tdb := NewTimedDB(db, nil)

	if _, err := tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES ('1', 'a')"); err != nil {
		t.Fatalf("ExecContext failed: %v", err)
	}
}

// TestTimedDB_ConcurrentUse verifies the wrapper is safe for concurrent queries.
func TestTimedDB_ConcurrentUse(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(perf.DefaultRingSize)
	tdb := NewTimedDB(db, collector)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				var one int
				tdb.QueryRowContext(context.Background(), "SELECT 1").Scan(&one)
			}
		}()
	}
	wg.Wait()

	if collector.TotalRecorded() != 80 {
		t.Errorf("TotalRecorded = %d, want 80", collector.TotalRecorded())
	}
}

// TestTimedDB_RawDB verifies the unwrapped handle is exposed.
func TestTimedDB_RawDB(t *testing.T) {
	db := openTimedTestDB(t)
	tdb := NewTimedDB(db, nil)
	if tdb.RawDB() != db {
		t.Error("RawDB must return the wrapped *sql.DB")
	}
}
