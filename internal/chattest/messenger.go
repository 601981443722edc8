// Package chattest provides shared test doubles for exercising the bot
// against a scripted chat platform.
package chattest

import (
	"context"
	"sync"
	"testing"
	"time"

	"chatops-hq/purgebot/pkg/platform"
)

// Messenger is a scriptable platform.Messenger. Tests feed updates in
// through Send and observe the bot's behavior through the recorded
// replies and deletions.
type Messenger struct {
	updates chan platform.Update

	mu        sync.Mutex
	admins    map[int64]bool
	adminErr  error
	pinned    map[int64]int
	gone      map[int]bool
	deleteErr error
	deleted   []int
	replies   []Reply
	closed    bool
}

// Reply is one recorded Reply call.
type Reply struct {
	ChatID  int64
	ReplyTo int
	Text    string
}

// NewMessenger creates a Messenger with no admins, no pins and an
// update buffer large enough for any scripted scenario.
func NewMessenger() *Messenger {
	return &Messenger{
		updates: make(chan platform.Update, 64),
		admins:  make(map[int64]bool),
		pinned:  make(map[int64]int),
		gone:    make(map[int]bool),
	}
}

// Send queues an update for delivery to the bot.
func (m *Messenger) Send(update platform.Update) {
	m.updates <- update
}

// CloseUpdates closes the update stream, ending the bot's event loop.
func (m *Messenger) CloseUpdates() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.updates)
	}
}

// SetAdmin marks a user as a chat administrator (or clears the mark).
func (m *Messenger) SetAdmin(userID int64, admin bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.admins[userID] = admin
}

// SetAdminErr makes IsAdmin fail with err until cleared with nil.
func (m *Messenger) SetAdminErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adminErr = err
}

// SetPinned pins a message in a chat. Zero unpins.
func (m *Messenger) SetPinned(chatID int64, messageID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pinned[chatID] = messageID
}

// MarkGone makes future deletions of messageID fail with
// platform.ErrMessageNotFound, as if another admin got there first.
func (m *Messenger) MarkGone(messageID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gone[messageID] = true
}

// SetDeleteErr makes every deletion fail with err until cleared with nil.
func (m *Messenger) SetDeleteErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteErr = err
}

// Deleted returns the ids of all recorded deletions, in call order.
func (m *Messenger) Deleted() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.deleted...)
}

// Replies returns all recorded replies, in call order.
func (m *Messenger) Replies() []Reply {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Reply(nil), m.replies...)
}

// Updates implements platform.Messenger.
func (m *Messenger) Updates(ctx context.Context) (<-chan platform.Update, error) {
	return m.updates, nil
}

// Reply implements platform.Messenger.
func (m *Messenger) Reply(ctx context.Context, chatID int64, replyTo int, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, Reply{ChatID: chatID, ReplyTo: replyTo, Text: text})
	return nil
}

// DeleteMessage implements platform.Messenger.
func (m *Messenger) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if m.gone[messageID] {
		return platform.NewPlatformError("deleteMessage", chatID, platform.ErrMessageNotFound)
	}
	m.deleted = append(m.deleted, messageID)
	return nil
}

// PinnedMessageID implements platform.Messenger.
func (m *Messenger) PinnedMessageID(ctx context.Context, chatID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pinned[chatID], nil
}

// IsAdmin implements platform.Messenger.
func (m *Messenger) IsAdmin(ctx context.Context, chatID int64, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.adminErr != nil {
		return false, m.adminErr
	}
	return m.admins[userID], nil
}

// Close implements platform.Messenger.
func (m *Messenger) Close() error {
	m.CloseUpdates()
	return nil
}

// WaitForCondition polls until condition returns true or the timeout
// elapses, failing the test with message on timeout. Event loop effects
// land asynchronously, so observations need a deadline, not a sleep.
func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool, message string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for {
		if condition() {
			return
		}

		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %s: %s", timeout, message)
		}

		<-ticker.C
	}
}
