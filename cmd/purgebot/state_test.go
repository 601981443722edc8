package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chatops-hq/purgebot/pkg/config"
	"chatops-hq/purgebot/pkg/store"
)

// testStateConfig returns a config whose store paths live in a fresh
// temp directory.
func testStateConfig(t *testing.T, backend string) *config.Config {
	t.Helper()

	tmpDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Store.Backend = backend
	cfg.Store.Snapshot.Path = filepath.Join(tmpDir, "groups.gob")
	cfg.Store.Bolt.Path = filepath.Join(tmpDir, "groups.bolt")
	cfg.Store.SQLite.Path = filepath.Join(tmpDir, "groups.db")
	return cfg
}

// writeStateConfigFile writes a config file using a snapshot store at
// snapshotPath and points the global cfgFile flag at it. The previous
// cfgFile value is restored when the test ends.
func writeStateConfigFile(t *testing.T, snapshotPath string) {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "purgebot.yaml")

	configContent := fmt.Sprintf(`
store:
  backend: "snapshot"
  snapshot:
    path: %q

purge:
  default_lifetime: "30d"
`, snapshotPath)

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	origCfgFile := cfgFile
	cfgFile = configPath
	t.Cleanup(func() { cfgFile = origCfgFile })
}

// seedSnapshot writes two tracked groups to a snapshot file.
func seedSnapshot(t *testing.T, path string) {
	t.Helper()

	st, err := store.OpenSnapshotStore(path)
	if err != nil {
		t.Fatalf("failed to open snapshot store: %v", err)
	}

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	first := store.NewGroupState(24*time.Hour, now)
	first.Track(store.MessageRecord{MessageID: 10, SentAt: now})
	first.Track(store.MessageRecord{MessageID: 11, SentAt: now})
	if err := st.Put(ctx, -100200, first); err != nil {
		t.Fatalf("failed to put group state: %v", err)
	}

	second := store.NewGroupState(7*24*time.Hour, now)
	second.LatestDeletedMessageID = 5
	if err := st.Put(ctx, -100100, second); err != nil {
		t.Fatalf("failed to put group state: %v", err)
	}

	if err := st.Close(); err != nil {
		t.Fatalf("failed to close snapshot store: %v", err)
	}
}

func TestStateListText(t *testing.T) {
	tmpDir := t.TempDir()
	snapshotPath := filepath.Join(tmpDir, "groups.gob")
	seedSnapshot(t, snapshotPath)
	writeStateConfigFile(t, snapshotPath)

	outputPath := filepath.Join(tmpDir, "out.txt")

	// Set flags
	stateFlags.backend = ""
	stateFlags.format = "text"
	stateFlags.output = outputPath

	if err := listState(nil, []string{}); err != nil {
		t.Fatalf("listState() returned error: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "Tracked groups: 2") {
		t.Errorf("output should report two groups, got:\n%s", out)
	}
	if !strings.Contains(out, "Chat ID: -100200") {
		t.Errorf("output should list chat -100200, got:\n%s", out)
	}
	if !strings.Contains(out, "Lifetime: 1d") {
		t.Errorf("output should show the lifetime window, got:\n%s", out)
	}
	if !strings.Contains(out, "Purge cursor: 5") {
		t.Errorf("output should show the purge cursor, got:\n%s", out)
	}

	// Sorted by chat id, so -100200 lists before -100100
	if strings.Index(out, "-100200") > strings.Index(out, "-100100") {
		t.Error("groups should be sorted by chat id")
	}
}

func TestStateListJSON(t *testing.T) {
	tmpDir := t.TempDir()
	snapshotPath := filepath.Join(tmpDir, "groups.gob")
	seedSnapshot(t, snapshotPath)
	writeStateConfigFile(t, snapshotPath)

	outputPath := filepath.Join(tmpDir, "out.json")

	// Set flags
	stateFlags.backend = ""
	stateFlags.format = "json"
	stateFlags.output = outputPath

	if err := listState(nil, []string{}); err != nil {
		t.Fatalf("listState() returned error: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	var listing struct {
		Count  int `json:"count"`
		Groups []struct {
			ChatID          int64  `json:"chat_id"`
			Lifetime        string `json:"lifetime"`
			TrackedMessages int    `json:"tracked_messages"`
		} `json:"groups"`
	}
	if err := json.Unmarshal(data, &listing); err != nil {
		t.Fatalf("failed to decode JSON output: %v", err)
	}

	if listing.Count != 2 {
		t.Errorf("expected count 2, got %d", listing.Count)
	}
	if len(listing.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(listing.Groups))
	}
	if listing.Groups[0].ChatID != -100200 {
		t.Errorf("expected first group -100200, got %d", listing.Groups[0].ChatID)
	}
	if listing.Groups[0].TrackedMessages != 2 {
		t.Errorf("expected 2 tracked messages, got %d", listing.Groups[0].TrackedMessages)
	}
}

func TestStateListCSV(t *testing.T) {
	tmpDir := t.TempDir()
	snapshotPath := filepath.Join(tmpDir, "groups.gob")
	seedSnapshot(t, snapshotPath)
	writeStateConfigFile(t, snapshotPath)

	outputPath := filepath.Join(tmpDir, "out.csv")

	// Set flags
	stateFlags.backend = ""
	stateFlags.format = "csv"
	stateFlags.output = outputPath

	if err := listState(nil, []string{}); err != nil {
		t.Fatalf("listState() returned error: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines:\n%s", len(lines), string(data))
	}
	if !strings.HasPrefix(lines[0], "chat_id,lifetime,tracked_messages") {
		t.Errorf("unexpected CSV header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "-100200,1d,2,") {
		t.Errorf("unexpected first CSV row: %s", lines[1])
	}
}

func TestStateListEmptyStore(t *testing.T) {
	tmpDir := t.TempDir()
	snapshotPath := filepath.Join(tmpDir, "groups.gob")
	// No seed: a missing snapshot file is an empty store
	writeStateConfigFile(t, snapshotPath)

	outputPath := filepath.Join(tmpDir, "out.txt")

	// Set flags
	stateFlags.backend = ""
	stateFlags.format = "text"
	stateFlags.output = outputPath

	if err := listState(nil, []string{}); err != nil {
		t.Fatalf("listState() returned error: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	if !strings.Contains(string(data), "No groups tracked.") {
		t.Errorf("empty store should report no groups, got:\n%s", string(data))
	}
}

func TestStateDrop(t *testing.T) {
	tmpDir := t.TempDir()
	snapshotPath := filepath.Join(tmpDir, "groups.gob")
	seedSnapshot(t, snapshotPath)
	writeStateConfigFile(t, snapshotPath)

	// Set flags
	stateFlags.backend = ""
	stateFlags.chatID = -100200

	if err := dropState(nil, []string{}); err != nil {
		t.Fatalf("dropState() returned error: %v", err)
	}

	// Reopen the store to confirm the drop persisted
	st, err := store.OpenSnapshotStore(snapshotPath)
	if err != nil {
		t.Fatalf("failed to reopen snapshot store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	state, err := st.Get(ctx, -100200)
	if err != nil {
		t.Fatalf("failed to get group state: %v", err)
	}
	if state != nil {
		t.Error("dropped group should not be tracked after reopen")
	}

	remaining, err := st.Len(ctx)
	if err != nil {
		t.Fatalf("failed to count groups: %v", err)
	}
	if remaining != 1 {
		t.Errorf("expected 1 remaining group, got %d", remaining)
	}
}

func TestStateDropMissingChat(t *testing.T) {
	tmpDir := t.TempDir()
	snapshotPath := filepath.Join(tmpDir, "groups.gob")
	seedSnapshot(t, snapshotPath)
	writeStateConfigFile(t, snapshotPath)

	// Set flags
	stateFlags.backend = ""
	stateFlags.chatID = -999999

	if err := dropState(nil, []string{}); err == nil {
		t.Error("dropState() for untracked chat should return error")
	}
}

func TestStateDropRequiresChatID(t *testing.T) {
	// Set flags
	stateFlags.backend = ""
	stateFlags.chatID = 0

	if err := dropState(nil, []string{}); err == nil {
		t.Error("dropState() without --chat-id should return error")
	}
}
