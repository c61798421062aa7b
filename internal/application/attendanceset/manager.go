package attendanceset

import (
	"context"
	"sync"
)

// RepositoryFactory builds an account-scoped repository.
type RepositoryFactory func(accountID string) Repository

// Manager hands out one Store per account for the lifetime of the process.
// It is the explicit accessor for "exactly one authoritative mirror per
// account" — no ambient globals, so tests can run isolated managers.
type Manager struct {
	mu      sync.Mutex
	factory RepositoryFactory
	stores  map[string]*Store
}

// NewManager creates a Manager that builds repositories with factory.
func NewManager(factory RepositoryFactory) *Manager {
	return &Manager{factory: factory, stores: make(map[string]*Store)}
}

// ForAccount returns the account's store, creating, binding and hydrating it
// on first access. Hydration failure still returns the store: it carries the
// error in its snapshot and the previous (empty) set remains usable.
func (m *Manager) ForAccount(ctx context.Context, accountID string) *Store {
	m.mu.Lock()
	store, ok := m.stores[accountID]
	if !ok {
		store = NewStore()
		store.Bind(m.factory(accountID))
		m.stores[accountID] = store
	}
	m.mu.Unlock()

	if !ok {
		store.Hydrate(ctx)
	}
	return store
}

// Drop clears and forgets the account's store. Called at session end.
func (m *Manager) Drop(accountID string) {
	m.mu.Lock()
	store, ok := m.stores[accountID]
	delete(m.stores, accountID)
	m.mu.Unlock()
	if ok {
		store.ClearAll()
	}
}
