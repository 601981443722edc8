package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"chatops-hq/purgebot/pkg/platform"
)

// Config configures the Telegram client.
type Config struct {
	// Token is the bot API token.
	Token string

	// PollTimeout is the long-poll timeout for update requests.
	PollTimeout time.Duration

	// RequestTimeout bounds ordinary API calls.
	RequestTimeout time.Duration

	// Debug enables verbose logging inside the bot API library.
	Debug bool
}

// Client is the Telegram adapter for the platform.Messenger interface,
// built on the Bot API's long polling transport.
type Client struct {
	api      *tgbotapi.BotAPI
	cfg      Config
	logger   *slog.Logger
	stopOnce sync.Once
}

// NewClient authenticates against the Bot API and returns a connected client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, platform.NewPlatformError("connect", 0, fmt.Errorf("token cannot be empty"))
	}
	if cfg.PollTimeout == 0 {
		cfg.PollTimeout = 30 * time.Second
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	// One HTTP client serves both long polls and ordinary calls, so its
	// timeout must exceed the poll timeout or every poll would be cut off
	// mid-wait.
	httpClient := &http.Client{Timeout: cfg.PollTimeout + cfg.RequestTimeout}

	api, err := tgbotapi.NewBotAPIWithClient(cfg.Token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, platform.NewPlatformError("connect", 0, err)
	}
	api.Debug = cfg.Debug

	c := &Client{
		api:    api,
		cfg:    cfg,
		logger: slog.Default().With("component", "telegram"),
	}

	c.logger.Info("telegram client connected",
		"username", api.Self.UserName,
		"poll_timeout", cfg.PollTimeout,
	)

	return c, nil
}

// BotUsername returns the authenticated bot's username.
func (c *Client) BotUsername() string {
	return c.api.Self.UserName
}

// Updates starts long polling and returns the converted update stream. The
// channel closes when the context is cancelled or the client is closed.
func (c *Client) Updates(ctx context.Context) (<-chan platform.Update, error) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = int(c.cfg.PollTimeout.Seconds())
	cfg.AllowedUpdates = []string{"message"}

	raw := c.api.GetUpdatesChan(cfg)
	out := make(chan platform.Update)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				c.stopPolling()
				return
			case update, ok := <-raw:
				if !ok {
					return
				}
				converted, ok := convertUpdate(update, c.api.Self.UserName)
				if !ok {
					continue
				}
				select {
				case out <- converted:
				case <-ctx.Done():
					c.stopPolling()
					return
				}
			}
		}
	}()

	return out, nil
}

// Reply sends text to a chat in reply to a specific message.
func (c *Client) Reply(ctx context.Context, chatID int64, replyTo int, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	msg.AllowSendingWithoutReply = true

	if _, err := c.api.Send(msg); err != nil {
		return platform.NewPlatformError("send_message", chatID, err)
	}

	return nil
}

// DeleteMessage removes a message by id. Deletion targets that are already
// gone, or that Telegram refuses to delete, are reported as
// platform.ErrMessageNotFound.
func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		if isGoneMessage(err) {
			return platform.NewPlatformError("delete_message", chatID, platform.ErrMessageNotFound)
		}
		return platform.NewPlatformError("delete_message", chatID, err)
	}

	return nil
}

// PinnedMessageID returns the id of the chat's pinned message, or zero when
// nothing is pinned.
func (c *Client) PinnedMessageID(ctx context.Context, chatID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	chat, err := c.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return 0, platform.NewPlatformError("get_chat", chatID, err)
	}

	if chat.PinnedMessage == nil {
		return 0, nil
	}
	return chat.PinnedMessage.MessageID, nil
}

// IsAdmin reports whether the user is among the chat's administrators.
func (c *Client) IsAdmin(ctx context.Context, chatID int64, userID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	members, err := c.api.GetChatAdministrators(tgbotapi.ChatAdministratorsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return false, platform.NewPlatformError("get_chat_administrators", chatID, err)
	}

	for _, member := range members {
		if member.User != nil && member.User.ID == userID {
			return true, nil
		}
	}

	return false, nil
}

// Close stops long polling. The Bot API holds no other resources.
func (c *Client) Close() error {
	c.stopPolling()
	return nil
}

// stopPolling shuts down the update stream. The library panics on a second
// shutdown, hence the once.
func (c *Client) stopPolling() {
	c.stopOnce.Do(c.api.StopReceivingUpdates)
}

// convertUpdate maps a raw Bot API update onto a platform.Update. It reports
// false for updates the bot does not handle, such as non-message updates.
// Commands carrying a mention of a different bot are demoted to plain text,
// matching how command routing works on the platform.
func convertUpdate(update tgbotapi.Update, botUsername string) (platform.Update, bool) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return platform.Update{}, false
	}

	converted := platform.Update{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		SentAt:    msg.Time(),
		Text:      msg.Text,
		IsGroup:   msg.Chat.IsGroup() || msg.Chat.IsSuperGroup(),
	}
	if msg.From != nil {
		converted.SenderID = msg.From.ID
	}

	if msg.IsCommand() {
		name, mention, mentioned := strings.Cut(msg.CommandWithAt(), "@")
		if !mentioned || strings.EqualFold(mention, botUsername) {
			converted.Command = name
			converted.CommandArgs = msg.CommandArguments()
		}
	}

	return converted, true
}

// isGoneMessage classifies deletion failures that mean the target is beyond
// deleting: it never existed, was already removed, or Telegram will not
// delete it (service messages, messages past the deletion window).
func isGoneMessage(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code != http.StatusBadRequest {
		return false
	}

	description := strings.ToLower(apiErr.Message)
	return strings.Contains(description, "message to delete not found") ||
		strings.Contains(description, "message can't be deleted")
}
