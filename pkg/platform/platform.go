package platform

import (
	"context"
	"time"
)

// Update is a single chat platform event delivered to the bot: either a
// plain message or a command addressed to this bot.
type Update struct {
	// ChatID identifies the chat the update came from.
	ChatID int64

	// MessageID is the platform-assigned id of the message.
	MessageID int

	// SenderID identifies the user who sent the message. Zero when the
	// platform did not attach a sender, as with anonymous channel posts.
	SenderID int64

	// SentAt is when the message was sent, as reported by the platform.
	SentAt time.Time

	// Text is the message text. Empty for non-text messages.
	Text string

	// IsGroup reports whether the chat is a group or supergroup.
	IsGroup bool

	// Command is the command name without the leading slash, with any
	// bot mention stripped ("start" for "/start@purgebot"). Empty when the
	// update is not a command addressed to this bot.
	Command string

	// CommandArgs is the raw text following the command.
	CommandArgs string
}

// IsCommand reports whether the update carries a command for this bot.
func (u *Update) IsCommand() bool {
	return u.Command != ""
}

// Messenger is the interface chat platform adapters must implement.
//
// All methods accept a context.Context for cancellation and timeout control.
// Implementations must respect context cancellation and return immediately
// when the context is cancelled.
type Messenger interface {
	// Updates starts delivery of platform events. The returned channel is
	// closed when the context is cancelled or the underlying stream stops.
	Updates(ctx context.Context) (<-chan Update, error)

	// Reply sends text to a chat in reply to a specific message.
	Reply(ctx context.Context, chatID int64, replyTo int, text string) error

	// DeleteMessage removes a message by id. Attempts against messages
	// that no longer exist return an error matching ErrMessageNotFound.
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error

	// PinnedMessageID returns the id of the chat's pinned message, or zero
	// when nothing is pinned.
	PinnedMessageID(ctx context.Context, chatID int64) (int, error)

	// IsAdmin reports whether the user is an administrator of the chat.
	IsAdmin(ctx context.Context, chatID int64, userID int64) (bool, error)

	// Close stops update delivery and releases any resources.
	Close() error
}
