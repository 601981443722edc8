package store

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// snapshotVersion is the on-disk format version. Bump when the snapshot
// layout changes incompatibly.
const snapshotVersion = 1

// snapshotFile is the on-disk envelope for a whole-store snapshot.
type snapshotFile struct {
	Version int
	Groups  map[int64]*GroupState
}

// SnapshotStore implements Store as a whole-file snapshot: the entire group
// mapping lives in memory and Flush rewrites the file from scratch using gob
// encoding. This is the default backend. It offers no incremental logging
// and no transactional guarantees; a crash between a mutation and the next
// Flush loses that mutation.
//
// Snapshot writes go to a temporary file in the same directory followed by a
// rename, so a crash mid-write leaves the previous snapshot intact.
type SnapshotStore struct {
	// path is the snapshot file location.
	path string

	// groups maps chat id to group state.
	groups map[int64]*GroupState

	// mu protects access to the groups map.
	mu sync.RWMutex
}

// OpenSnapshotStore opens the snapshot file at path, loading any existing
// state. A missing file yields an empty store; a file that cannot be decoded
// is an error rather than silent data loss.
func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	if path == "" {
		return nil, NewStorageError("snapshot", "open", fmt.Errorf("path cannot be empty"))
	}

	s := &SnapshotStore{
		path:   path,
		groups: make(map[int64]*GroupState),
	}

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, NewStorageError("snapshot", "open", err)
	}
	defer file.Close()

	var snapshot snapshotFile
	if err := gob.NewDecoder(file).Decode(&snapshot); err != nil {
		return nil, NewStorageError("snapshot", "decode", err)
	}
	if snapshot.Version != snapshotVersion {
		return nil, NewStorageError("snapshot", "decode",
			fmt.Errorf("unsupported snapshot version %d (want %d)", snapshot.Version, snapshotVersion))
	}
	if snapshot.Groups != nil {
		s.groups = snapshot.Groups
	}

	return s, nil
}

// Get retrieves the state for a group.
func (s *SnapshotStore) Get(ctx context.Context, chatID int64) (*GroupState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, exists := s.groups[chatID]
	if !exists {
		return nil, nil
	}

	return state.Clone(), nil
}

// Put persists the state for a group in memory. The state reaches disk on
// the next Flush.
func (s *SnapshotStore) Put(ctx context.Context, chatID int64, state *GroupState) error {
	if state == nil {
		return NewStorageError("snapshot", "put", fmt.Errorf("state cannot be nil"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.groups[chatID] = state.Clone()
	return nil
}

// Delete removes the state for a group in memory. The removal reaches disk
// on the next Flush.
func (s *SnapshotStore) Delete(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.groups, chatID)
	return nil
}

// ChatIDs returns the chat ids of every tracked group.
func (s *SnapshotStore) ChatIDs(ctx context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.groups))
	for chatID := range s.groups {
		ids = append(ids, chatID)
	}

	return ids, nil
}

// Len returns the number of tracked groups.
func (s *SnapshotStore) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.groups), nil
}

// Flush writes the whole group mapping to the snapshot file.
func (s *SnapshotStore) Flush(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := snapshotFile{
		Version: snapshotVersion,
		Groups:  s.groups,
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return NewStorageError("snapshot", "flush", err)
	}

	if err := gob.NewEncoder(tmp).Encode(&snapshot); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return NewStorageError("snapshot", "flush", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return NewStorageError("snapshot", "flush", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return NewStorageError("snapshot", "flush", err)
	}

	return nil
}

// Close flushes pending state to disk.
func (s *SnapshotStore) Close() error {
	return s.Flush(context.Background())
}
