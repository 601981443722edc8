package platform

import (
	"errors"
	"fmt"
)

// ErrMessageNotFound indicates a deletion target that is already gone or
// that the platform refuses to delete. Purge passes tolerate it silently.
// Use errors.Is to test for it.
var ErrMessageNotFound = errors.New("message not found or not deletable")

// PlatformError carries the operation name and target chat of a failed
// platform call. The cause stays reachable for errors.Is through Unwrap.
type PlatformError struct {
	Op     string // failed operation, such as "delete_message"
	ChatID int64  // targeted chat, zero when the call is not chat-scoped
	Cause  error
}

// NewPlatformError wraps cause with the operation and chat that failed.
func NewPlatformError(op string, chatID int64, cause error) *PlatformError {
	return &PlatformError{Op: op, ChatID: chatID, Cause: cause}
}

func (e *PlatformError) Error() string {
	if e.ChatID != 0 {
		return fmt.Sprintf("platform %s: chat %d: %v", e.Op, e.ChatID, e.Cause)
	}
	return fmt.Sprintf("platform %s: %v", e.Op, e.Cause)
}

func (e *PlatformError) Unwrap() error {
	return e.Cause
}
