package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

// TestSQLiteStore_PersistsAcrossReopen tests that state survives a close and
// reopen without an explicit Flush.
func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.sqlite")
	now := time.Now()

	st, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("OpenSQLiteStore failed: %v", err)
	}

	if err := st.Put(ctx, 77, testState(now)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("OpenSQLiteStore after close failed: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.Get(ctx, 77)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected state to survive reopen, got nil")
	}
	if len(loaded.Messages) != 3 {
		t.Errorf("Expected 3 tracked messages after reopen, got %d", len(loaded.Messages))
	}
	record := loaded.Messages[12]
	if !record.SentAt.Equal(now) {
		t.Errorf("Expected sent at %v, got %v", now, record.SentAt)
	}
}

// TestSQLiteStore_DeleteRemovesMessages tests that deleting a group also
// drops its message rows.
func TestSQLiteStore_DeleteRemovesMessages(t *testing.T) {
	ctx := context.Background()

	st, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "store.sqlite"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore failed: %v", err)
	}
	defer st.Close()

	now := time.Now()
	if err := st.Put(ctx, 5, testState(now)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := st.Delete(ctx, 5); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var count int
	if err := st.db.QueryRow("SELECT COUNT(*) FROM messages WHERE chat_id = 5").Scan(&count); err != nil {
		t.Fatalf("Count query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 message rows after delete, got %d", count)
	}
}

// TestSQLiteStore_CloseIdempotent tests that Close can be called repeatedly.
func TestSQLiteStore_CloseIdempotent(t *testing.T) {
	st, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "store.sqlite"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore failed: %v", err)
	}

	if err := st.Close(); err != nil {
		t.Fatalf("First Close failed: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}
}
