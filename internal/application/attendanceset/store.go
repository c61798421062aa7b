// Package attendanceset holds the in-process mirror of an account's set of
// in-office days. The store owns hydration from the repository, optimistic
// single-day toggles with full-snapshot rollback, and the synchronous set
// operations the import/export paths use.
package attendanceset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"inoffice/internal/domain/datekey"
)

// Repository is the persistence collaborator the store mediates access to.
// Implementations are scoped to a single account.
type Repository interface {
	FetchAll(ctx context.Context) ([]string, error)
	FetchRange(ctx context.Context, start, end string) ([]string, error)
	// Toggle flips membership of one day and reports the resulting state:
	// true if the day is now present, false if now absent.
	Toggle(ctx context.Context, key string) (bool, error)
	ExportAll(ctx context.Context) ([]string, error)
	BulkImport(ctx context.Context, keys []string, mode string) error
}

// Store errors.
var (
	ErrNotBound     = errors.New("attendance store has no bound repository")
	ErrFetchFailed  = errors.New("could not load attendance data")
	ErrToggleFailed = errors.New("could not save attendance change")
)

// Snapshot is the read surface the handlers render from. Days is sorted.
type Snapshot struct {
	Days      []string
	Loading   bool
	LastError string
}

// Store mirrors one account's attendance set. All fields are guarded by mu;
// the optimistic step of Toggle completes under the lock before the
// repository round-trip begins, so readers observe the optimistic value
// while the write is in flight.
type Store struct {
	mu        sync.Mutex
	repo      Repository
	days      map[string]struct{}
	loading   bool
	lastError string
}

// NewStore creates an empty, unbound store. Tests construct fresh instances
// instead of sharing process state.
func NewStore() *Store {
	return &Store{days: make(map[string]struct{})}
}

// Bind associates the store with its repository. Must be called once before
// Hydrate or Toggle; a second bind is ignored.
func (s *Store) Bind(repo Repository) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repo != nil {
		slog.Warn("attendance_set", "event", "rebind_ignored")
		return
	}
	s.repo = repo
}

// Hydrate replaces the in-memory set with the repository's full set. The
// fetch is all-or-nothing: on failure the previous set is retained and a
// user-facing message is recorded instead. The failure is reported through
// the snapshot, not re-raised — hydration errors leave the store usable.
func (s *Store) Hydrate(ctx context.Context) {
	s.mu.Lock()
	repo := s.repo
	if repo == nil {
		s.mu.Unlock()
		slog.Error("attendance_set", "event", "hydrate_before_bind")
		return
	}
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	keys, err := repo.FetchAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastError = ErrFetchFailed.Error()
		slog.Error("attendance_set", "event", "hydrate_failed", "error", err)
		return
	}
	s.days = toSet(keys)
}

// Toggle flips membership of key, applying the change optimistically before
// asking the repository to persist it. On repository failure the exact
// pre-toggle set is restored and the failure is returned so the caller can
// surface transient feedback.
// PRE: key is a valid date key
// POST: On success the set reflects the new membership; on failure the set
// equals the pre-toggle set and LastError is recorded
func (s *Store) Toggle(ctx context.Context, key string) (bool, error) {
	if _, _, _, err := datekey.Decode(key); err != nil {
		return false, err
	}

	s.mu.Lock()
	repo := s.repo
	if repo == nil {
		s.mu.Unlock()
		slog.Error("attendance_set", "event", "toggle_before_bind", "day", key)
		return false, ErrNotBound
	}

	// Snapshot the whole set before mutating; the rollback target is this
	// value verbatim, never a recomputed delta.
	prev := copySet(s.days)
	_, wasPresent := s.days[key]
	if wasPresent {
		delete(s.days, key)
	} else {
		s.days[key] = struct{}{}
	}
	nowPresent := !wasPresent
	s.lastError = ""
	s.mu.Unlock()

	remotePresent, err := repo.Toggle(ctx, key)
	if err != nil {
		s.mu.Lock()
		s.days = prev
		s.lastError = ErrToggleFailed.Error()
		s.mu.Unlock()
		slog.Error("attendance_set", "event", "toggle_failed", "day", key, "error", err)
		return wasPresent, fmt.Errorf("%w: %v", ErrToggleFailed, err)
	}
	if remotePresent != nowPresent {
		// Same-key toggles racing each other can disagree with the remote
		// outcome; reconciliation is deliberately out of this operation's
		// contract.
		slog.Warn("attendance_set", "event", "toggle_outcome_mismatch", "day", key, "local", nowPresent, "remote", remotePresent)
	}
	return nowPresent, nil
}

// IsPresent reports membership of key in the in-memory set. Never touches
// the repository.
func (s *Store) IsPresent(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.days[key]
	return ok
}

// ReplaceAll discards the set and installs the deduplicated input. Memory
// only; callers needing persistence bulk-import against the repository and
// re-hydrate.
func (s *Store) ReplaceAll(keys []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days = toSet(keys)
}

// MergeWith installs the union of the current set and the input.
func (s *Store) MergeWith(keys []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		s.days[k] = struct{}{}
	}
}

// ClearAll resets the set and both status fields. Used when a session ends.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days = make(map[string]struct{})
	s.loading = false
	s.lastError = ""
}

// Snapshot returns the current materialized state. The returned slice is a
// sorted copy; mutating it does not affect the store.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	days := make([]string, 0, len(s.days))
	for k := range s.days {
		days = append(days, k)
	}
	sort.Strings(days)
	return Snapshot{Days: days, Loading: s.loading, LastError: s.lastError}
}

// Repository returns the bound repository, or nil before Bind. Handlers use
// it for the export/import paths that bypass the in-memory set.
func (s *Store) Repository() Repository {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo
}

func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

func copySet(src map[string]struct{}) map[string]struct{} {
	dst := make(map[string]struct{}, len(src))
	for k := range src {
		dst[k] = struct{}{}
	}
	return dst
}
