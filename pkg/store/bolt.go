package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

// groupsBucket holds one JSON document per tracked group, keyed by the
// decimal chat id.
var groupsBucket = []byte("groups")

// BoltStore implements Store on a bbolt database file. Every Put and Delete
// commits in its own transaction, so Flush is a no-op; durability is
// stronger than the snapshot backend's flush-on-mutation contract.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens or creates the bbolt database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	if path == "" {
		return nil, NewStorageError("bolt", "open", fmt.Errorf("path cannot be empty"))
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, NewStorageError("bolt", "open", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(groupsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, NewStorageError("bolt", "create_bucket", err)
	}

	return &BoltStore{db: db}, nil
}

// Get retrieves the state for a group.
func (b *BoltStore) Get(ctx context.Context, chatID int64) (*GroupState, error) {
	var state *GroupState

	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(groupsBucket).Get(boltKey(chatID))
		if raw == nil {
			return nil
		}
		state = &GroupState{}
		return json.Unmarshal(raw, state)
	})
	if err != nil {
		return nil, NewStorageError("bolt", "get", err)
	}

	return state, nil
}

// Put persists the state for a group.
func (b *BoltStore) Put(ctx context.Context, chatID int64, state *GroupState) error {
	if state == nil {
		return NewStorageError("bolt", "put", fmt.Errorf("state cannot be nil"))
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return NewStorageError("bolt", "put", err)
	}

	err = b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(groupsBucket).Put(boltKey(chatID), raw)
	})
	if err != nil {
		return NewStorageError("bolt", "put", err)
	}

	return nil
}

// Delete removes the state for a group.
func (b *BoltStore) Delete(ctx context.Context, chatID int64) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(groupsBucket).Delete(boltKey(chatID))
	})
	if err != nil {
		return NewStorageError("bolt", "delete", err)
	}

	return nil
}

// ChatIDs returns the chat ids of every tracked group.
func (b *BoltStore) ChatIDs(ctx context.Context) ([]int64, error) {
	var ids []int64

	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(groupsBucket).ForEach(func(key, _ []byte) error {
			chatID, err := strconv.ParseInt(string(key), 10, 64)
			if err != nil {
				return fmt.Errorf("malformed key %q: %w", key, err)
			}
			ids = append(ids, chatID)
			return nil
		})
	})
	if err != nil {
		return nil, NewStorageError("bolt", "chat_ids", err)
	}

	return ids, nil
}

// Len returns the number of tracked groups.
func (b *BoltStore) Len(ctx context.Context) (int, error) {
	count := 0

	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(groupsBucket).ForEach(func(_, _ []byte) error {
			count++
			return nil
		})
	})
	if err != nil {
		return 0, NewStorageError("bolt", "len", err)
	}

	return count, nil
}

// Flush is a no-op; every mutation commits in its own transaction.
func (b *BoltStore) Flush(ctx context.Context) error {
	return nil
}

// Close releases the database file.
func (b *BoltStore) Close() error {
	if err := b.db.Close(); err != nil {
		return NewStorageError("bolt", "close", err)
	}
	return nil
}

// boltKey encodes a chat id as its decimal string, keeping keys readable in
// bbolt tooling.
func boltKey(chatID int64) []byte {
	return []byte(strconv.FormatInt(chatID, 10))
}
