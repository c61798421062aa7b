package perf

import (
	"sync"
	"testing"
	"time"
)

// TestCollector_Record_And_Snapshot verifies basic record and snapshot functionality.
func TestCollector_Record_And_Snapshot(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Name: "GET /foo", StatusCode: 200, DurationMs: 10, At: now})
	c.Record(Entry{Kind: KindRequest, Name: "GET /foo", StatusCode: 200, DurationMs: 30, At: now})
	c.Record(Entry{Kind: KindQuery, Name: "ExecContext", DurationMs: 5, At: now})

	snap := c.Snapshot(10)
	if snap.TotalRecorded != 3 {
		t.Errorf("TotalRecorded = %d, want 3", snap.TotalRecorded)
	}
	if len(snap.SlowRequests) != 1 {
		t.Fatalf("SlowRequests len = %d, want 1", len(snap.SlowRequests))
	}
	if snap.SlowRequests[0].AvgMs != 20 {
		t.Errorf("AvgMs = %v, want 20", snap.SlowRequests[0].AvgMs)
	}
	if snap.SlowRequests[0].MaxMs != 30 {
		t.Errorf("MaxMs = %v, want 30", snap.SlowRequests[0].MaxMs)
	}
	if len(snap.SlowQueries) != 1 {
		t.Fatalf("SlowQueries len = %d, want 1", len(snap.SlowQueries))
	}
}

// TestCollector_RingOverwrite verifies the ring keeps only the newest entries
// while the total keeps counting.
func TestCollector_RingOverwrite(t *testing.T) {
	c := NewCollector(4)
	now := time.Now()
	for i := 0; i < 10; i++ {
		c.Record(Entry{Kind: KindRequest, Name: "GET /x", DurationMs: 1, At: now})
	}

	snap := c.Snapshot(10)
	if snap.TotalRecorded != 10 {
		t.Errorf("TotalRecorded = %d, want 10", snap.TotalRecorded)
	}
	if snap.SlowRequests[0].Count != 4 {
		t.Errorf("ring should hold 4 entries, got %d", snap.SlowRequests[0].Count)
	}
}

// TestCollector_Percentiles verifies p50/p95 over request durations.
func TestCollector_Percentiles(t *testing.T) {
	c := NewCollector(200)
	now := time.Now()
	for i := 1; i <= 100; i++ {
		c.Record(Entry{Kind: KindRequest, Name: "GET /p", DurationMs: float64(i), At: now})
	}

	snap := c.Snapshot(10)
	if snap.RequestP50Ms < 45 || snap.RequestP50Ms > 55 {
		t.Errorf("RequestP50Ms = %v, want ~50", snap.RequestP50Ms)
	}
	if snap.RequestP95Ms < 90 || snap.RequestP95Ms > 100 {
		t.Errorf("RequestP95Ms = %v, want ~95", snap.RequestP95Ms)
	}
}

// TestCollector_TopN verifies the slowest lists are truncated and sorted.
func TestCollector_TopN(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()
	c.Record(Entry{Kind: KindQuery, Name: "slow", DurationMs: 100, At: now})
	c.Record(Entry{Kind: KindQuery, Name: "medium", DurationMs: 50, At: now})
	c.Record(Entry{Kind: KindQuery, Name: "fast", DurationMs: 1, At: now})

	snap := c.Snapshot(2)
	if len(snap.SlowQueries) != 2 {
		t.Fatalf("SlowQueries len = %d, want 2", len(snap.SlowQueries))
	}
	if snap.SlowQueries[0].Name != "slow" || snap.SlowQueries[1].Name != "medium" {
		t.Errorf("expected descending by avg, got %v", snap.SlowQueries)
	}
}

// TestCollector_EmptySnapshot verifies a fresh collector snapshots cleanly.
func TestCollector_EmptySnapshot(t *testing.T) {
	c := NewCollector(10)
	snap := c.Snapshot(5)
	if snap.TotalRecorded != 0 || len(snap.SlowRequests) != 0 || len(snap.SlowQueries) != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
	if snap.RequestP50Ms != 0 || snap.RequestP95Ms != 0 {
		t.Errorf("percentiles must be zero with no data")
	}
}

// TestCollector_ConcurrentRecord verifies Record is safe under concurrency.
func TestCollector_ConcurrentRecord(t *testing.T) {
	c := NewCollector(DefaultRingSize)
	now := time.Now()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				c.Record(Entry{Kind: KindRequest, Name: "GET /c", DurationMs: 1, At: now})
			}
		}()
	}
	wg.Wait()

	if got := c.TotalRecorded(); got != 800 {
		t.Errorf("TotalRecorded = %d, want 800", got)
	}
}
