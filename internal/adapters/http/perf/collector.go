// Package perf collects request and query timings in a fixed-size ring
// buffer. Writes are cheap and non-blocking; aggregation happens on read.
package perf

import (
	"sort"
	"sync"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 4096

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is a single timing record.
type Entry struct {
	Kind       EntryKind
	Name       string // HTTP path or database operation
	StatusCode int    // HTTP status (0 for queries)
	DurationMs float64
	At         time.Time
}

// Collector is a fixed-size ring buffer of timing entries. When full, the
// oldest entries are overwritten.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	pos     int
	total   int64
}

// NewCollector creates a collector with the given capacity.
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record appends an entry, overwriting the oldest when the ring is full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % len(c.entries)
	c.total++
	c.mu.Unlock()
}

// TotalRecorded reports how many entries were ever recorded, including
// those already overwritten.
func (c *Collector) TotalRecorded() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// NameStat aggregates timings for one path or operation.
type NameStat struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	totalMs float64
}

// Snapshot holds aggregates computed on read.
type Snapshot struct {
	TotalRecorded int64      `json:"total_recorded"`
	RequestP50Ms  float64    `json:"request_p50_ms"`
	RequestP95Ms  float64    `json:"request_p95_ms"`
	SlowRequests  []NameStat `json:"slow_requests"`
	SlowQueries   []NameStat `json:"slow_queries"`
}

// Snapshot aggregates the ring contents. Sorting makes this the expensive
// path; it runs only when the admin endpoint is hit.
func (c *Collector) Snapshot(topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, len(c.entries))
	copy(buf, c.entries)
	total := c.total
	c.mu.Unlock()

	var durations []float64
	requests := make(map[string]*NameStat)
	queries := make(map[string]*NameStat)

	for _, e := range buf {
		if e.At.IsZero() {
			continue
		}
		byName := queries
		if e.Kind == KindRequest {
			byName = requests
			durations = append(durations, e.DurationMs)
		}
		s, ok := byName[e.Name]
		if !ok {
			s = &NameStat{Name: e.Name}
			byName[e.Name] = s
		}
		s.Count++
		s.totalMs += e.DurationMs
		if e.DurationMs > s.MaxMs {
			s.MaxMs = e.DurationMs
		}
	}

	snap := Snapshot{
		TotalRecorded: total,
		SlowRequests:  topByAvg(requests, topN),
		SlowQueries:   topByAvg(queries, topN),
	}
	if len(durations) > 0 {
		sort.Float64s(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
	}
	return snap
}

func percentile(sorted []float64, p int) float64 {
	idx := (len(sorted) - 1) * p / 100
	return sorted[idx]
}

func topByAvg(stats map[string]*NameStat, n int) []NameStat {
	list := make([]NameStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.totalMs / float64(s.Count)
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].AvgMs > list[j].AvgMs })
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	return list
}
