package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore implements Store using in-memory storage. All state is lost
// when the process exits, so it suits tests and ephemeral runs only.
//
// MemoryStore is thread-safe and supports concurrent access using sync.RWMutex.
type MemoryStore struct {
	// groups maps chat id to group state.
	groups map[int64]*GroupState

	// mu protects access to the groups map.
	mu sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		groups: make(map[int64]*GroupState),
	}
}

// Get retrieves the state for a group.
func (m *MemoryStore) Get(ctx context.Context, chatID int64) (*GroupState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, exists := m.groups[chatID]
	if !exists {
		return nil, nil
	}

	return state.Clone(), nil
}

// Put persists the state for a group.
func (m *MemoryStore) Put(ctx context.Context, chatID int64, state *GroupState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.groups[chatID] = state.Clone()
	return nil
}

// Delete removes the state for a group.
func (m *MemoryStore) Delete(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.groups, chatID)
	return nil
}

// ChatIDs returns the chat ids of every tracked group.
func (m *MemoryStore) ChatIDs(ctx context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.groups))
	for chatID := range m.groups {
		ids = append(ids, chatID)
	}

	return ids, nil
}

// Len returns the number of tracked groups.
func (m *MemoryStore) Len(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.groups), nil
}

// Flush is a no-op for the memory store.
func (m *MemoryStore) Flush(ctx context.Context) error {
	return nil
}

// Close releases the store. The memory store holds no external resources.
func (m *MemoryStore) Close() error {
	return nil
}
