package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore implements Store using SQLite for persistence. Groups and
// their tracked messages live in two tables and every Put or Delete commits
// in its own transaction, so Flush is a no-op.
//
// SQLiteStore uses a write-ahead log (WAL) for better concurrent performance
// and automatic checkpointing to balance write performance with durability.
type SQLiteStore struct {
	db                 *sql.DB
	dbPath             string
	checkpointInterval time.Duration
	done               chan struct{}
	mu                 sync.RWMutex
	closeOnce          sync.Once

	// preparedStatements contains pre-compiled SQL statements for reuse
	getGroupStmt       *sql.Stmt
	getMessagesStmt    *sql.Stmt
	upsertGroupStmt    *sql.Stmt
	insertMessageStmt  *sql.Stmt
	deleteGroupStmt    *sql.Stmt
	deleteMessagesStmt *sql.Stmt
	chatIDsStmt        *sql.Stmt
	lenStmt            *sql.Stmt
}

// SQLiteStoreConfig configures the SQLite store.
type SQLiteStoreConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// CheckpointInterval is how often to checkpoint the WAL.
	// Default: 5 minutes
	CheckpointInterval time.Duration

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// OpenSQLiteStore opens a SQLite store with default settings.
func OpenSQLiteStore(dbPath string) (*SQLiteStore, error) {
	return OpenSQLiteStoreWithConfig(SQLiteStoreConfig{
		DBPath:             dbPath,
		CheckpointInterval: 5 * time.Minute,
		BusyTimeout:        5 * time.Second,
	})
}

// OpenSQLiteStoreWithConfig opens a SQLite store with custom configuration.
func OpenSQLiteStoreWithConfig(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		return nil, NewStorageError("sqlite", "open", fmt.Errorf("db path cannot be empty"))
	}
	if cfg.CheckpointInterval == 0 {
		cfg.CheckpointInterval = 5 * time.Minute
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	// Open database with WAL mode and busy timeout
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{
		db:                 db,
		dbPath:             cfg.DBPath,
		checkpointInterval: cfg.CheckpointInterval,
		done:               make(chan struct{}),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, NewStorageError("sqlite", "create_schema", err)
	}

	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, NewStorageError("sqlite", "prepare_statements", err)
	}

	// Start background checkpoint goroutine
	go s.checkpointLoop()

	return s, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS groups (
		chat_id INTEGER PRIMARY KEY,
		lifetime_ns INTEGER NOT NULL,
		latest_deleted_message_id INTEGER NOT NULL DEFAULT 0,
		activated_at_ns INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		chat_id INTEGER NOT NULL,
		message_id INTEGER NOT NULL,
		sent_at_ns INTEGER NOT NULL,
		PRIMARY KEY (chat_id, message_id)
	);

	CREATE INDEX IF NOT EXISTS idx_messages_chat_sent ON messages(chat_id, sent_at_ns);
	`

	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getGroupStmt, err = s.db.Prepare(`
		SELECT lifetime_ns, latest_deleted_message_id, activated_at_ns
		FROM groups
		WHERE chat_id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare get group statement: %w", err)
	}

	s.getMessagesStmt, err = s.db.Prepare(`
		SELECT message_id, sent_at_ns
		FROM messages
		WHERE chat_id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare get messages statement: %w", err)
	}

	s.upsertGroupStmt, err = s.db.Prepare(`
		INSERT INTO groups (chat_id, lifetime_ns, latest_deleted_message_id, activated_at_ns)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (chat_id) DO UPDATE SET
			lifetime_ns = excluded.lifetime_ns,
			latest_deleted_message_id = excluded.latest_deleted_message_id,
			activated_at_ns = excluded.activated_at_ns
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert group statement: %w", err)
	}

	s.insertMessageStmt, err = s.db.Prepare(`
		INSERT INTO messages (chat_id, message_id, sent_at_ns)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert message statement: %w", err)
	}

	s.deleteGroupStmt, err = s.db.Prepare(`
		DELETE FROM groups
		WHERE chat_id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete group statement: %w", err)
	}

	s.deleteMessagesStmt, err = s.db.Prepare(`
		DELETE FROM messages
		WHERE chat_id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete messages statement: %w", err)
	}

	s.chatIDsStmt, err = s.db.Prepare(`
		SELECT chat_id
		FROM groups
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare chat ids statement: %w", err)
	}

	s.lenStmt, err = s.db.Prepare(`
		SELECT COUNT(*)
		FROM groups
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare len statement: %w", err)
	}

	return nil
}

// Get retrieves the state for a group.
func (s *SQLiteStore) Get(ctx context.Context, chatID int64) (*GroupState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		lifetimeNS    int64
		latestDeleted int
		activatedNS   int64
	)

	err := s.getGroupStmt.QueryRowContext(ctx, chatID).Scan(&lifetimeNS, &latestDeleted, &activatedNS)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, NewStorageError("sqlite", "get", err)
	}

	state := &GroupState{
		Lifetime:               time.Duration(lifetimeNS),
		LatestDeletedMessageID: latestDeleted,
		Messages:               make(map[int]MessageRecord),
		ActivatedAt:            time.Unix(0, activatedNS),
	}

	rows, err := s.getMessagesStmt.QueryContext(ctx, chatID)
	if err != nil {
		return nil, NewStorageError("sqlite", "get", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			messageID int
			sentAtNS  int64
		)
		if err := rows.Scan(&messageID, &sentAtNS); err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		state.Messages[messageID] = MessageRecord{
			MessageID: messageID,
			SentAt:    time.Unix(0, sentAtNS),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "get", err)
	}

	return state, nil
}

// Put persists the state for a group. The group row and its messages are
// replaced in a single transaction.
func (s *SQLiteStore) Put(ctx context.Context, chatID int64, state *GroupState) error {
	if state == nil {
		return NewStorageError("sqlite", "put", fmt.Errorf("state cannot be nil"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return NewStorageError("sqlite", "put", err)
	}

	_, err = tx.StmtContext(ctx, s.upsertGroupStmt).ExecContext(ctx,
		chatID,
		int64(state.Lifetime),
		state.LatestDeletedMessageID,
		state.ActivatedAt.UnixNano(),
	)
	if err != nil {
		tx.Rollback()
		return NewStorageError("sqlite", "put", err)
	}

	if _, err := tx.StmtContext(ctx, s.deleteMessagesStmt).ExecContext(ctx, chatID); err != nil {
		tx.Rollback()
		return NewStorageError("sqlite", "put", err)
	}

	insert := tx.StmtContext(ctx, s.insertMessageStmt)
	for _, record := range state.Messages {
		if _, err := insert.ExecContext(ctx, chatID, record.MessageID, record.SentAt.UnixNano()); err != nil {
			tx.Rollback()
			return NewStorageError("sqlite", "put", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return NewStorageError("sqlite", "put", err)
	}

	return nil
}

// Delete removes the state for a group.
func (s *SQLiteStore) Delete(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return NewStorageError("sqlite", "delete", err)
	}

	if _, err := tx.StmtContext(ctx, s.deleteMessagesStmt).ExecContext(ctx, chatID); err != nil {
		tx.Rollback()
		return NewStorageError("sqlite", "delete", err)
	}
	if _, err := tx.StmtContext(ctx, s.deleteGroupStmt).ExecContext(ctx, chatID); err != nil {
		tx.Rollback()
		return NewStorageError("sqlite", "delete", err)
	}

	if err := tx.Commit(); err != nil {
		return NewStorageError("sqlite", "delete", err)
	}

	return nil
}

// ChatIDs returns the chat ids of every tracked group.
func (s *SQLiteStore) ChatIDs(ctx context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.chatIDsStmt.QueryContext(ctx)
	if err != nil {
		return nil, NewStorageError("sqlite", "chat_ids", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		ids = append(ids, chatID)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "chat_ids", err)
	}

	return ids, nil
}

// Len returns the number of tracked groups.
func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.lenStmt.QueryRowContext(ctx).Scan(&count); err != nil {
		return 0, NewStorageError("sqlite", "len", err)
	}

	return count, nil
}

// Flush is a no-op; every mutation commits in its own transaction and the
// checkpoint loop moves the WAL forward.
func (s *SQLiteStore) Flush(ctx context.Context) error {
	return nil
}

// Close releases any resources held by the store.
// Close is idempotent and safe to call multiple times.
func (s *SQLiteStore) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		// Signal checkpoint goroutine to stop
		close(s.done)

		for _, stmt := range []*sql.Stmt{
			s.getGroupStmt,
			s.getMessagesStmt,
			s.upsertGroupStmt,
			s.insertMessageStmt,
			s.deleteGroupStmt,
			s.deleteMessagesStmt,
			s.chatIDsStmt,
			s.lenStmt,
		} {
			if stmt != nil {
				stmt.Close()
			}
		}

		if s.db != nil {
			// Run final checkpoint
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	if closeErr != nil {
		return NewStorageError("sqlite", "close", closeErr)
	}
	return nil
}

// checkpointLoop runs periodic WAL checkpoints.
func (s *SQLiteStore) checkpointLoop() {
	ticker := time.NewTicker(s.checkpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(PASSIVE)")
		case <-s.done:
			return
		}
	}
}
