package store

import "context"

// Store is the interface for group state persistence. Implementations must
// be safe for concurrent use, although the bot serializes all access through
// its event loop.
//
// Get returns clones and Put stores clones, so a state obtained from Get can
// be mutated and put back without aliasing the store's own copy.
type Store interface {
	// Get retrieves the state for a group.
	// Returns nil if the group is not tracked. Returns error on failure.
	Get(ctx context.Context, chatID int64) (*GroupState, error)

	// Put persists the state for a group.
	// If state already exists, it is replaced. Returns error on failure.
	Put(ctx context.Context, chatID int64, state *GroupState) error

	// Delete removes the state for a group.
	// No-op if the group is not tracked. Returns error on failure.
	Delete(ctx context.Context, chatID int64) error

	// ChatIDs returns the chat ids of every tracked group.
	ChatIDs(ctx context.Context) ([]int64, error)

	// Len returns the number of tracked groups.
	Len(ctx context.Context) (int, error)

	// Flush forces buffered state to durable storage. Backends that persist
	// on every Put and Delete treat this as a no-op.
	Flush(ctx context.Context) error

	// Close flushes pending state and releases any resources held by the
	// store. The store should not be used after calling Close.
	Close() error
}
