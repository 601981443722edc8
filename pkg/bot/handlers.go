package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chatops-hq/purgebot/pkg/platform"
	"chatops-hq/purgebot/pkg/purge"
	"chatops-hq/purgebot/pkg/store"
	"chatops-hq/purgebot/pkg/timewindow"
)

// Reply texts. The lifetime replies render windows with
// timewindow.Format, so "Current message lifetime is 30d".
const (
	replyActivated     = "Auto purging activated"
	replyDeactivated   = "Auto purging deactivated"
	replyRunStartFirst = "Run /start first!"
	replyBadWindow     = "Try: /lifetime 30d"
	replyZeroWindow    = "Sorry Dave, I can't let you do that."
)

const helpText = `I delete messages once they are older than the group's message lifetime.

Commands:
/start [window] - activate auto purging, optionally setting the lifetime
/stop - deactivate auto purging and forget tracked messages
/lifetime [window] - show or set the message lifetime
/help - show this message

Windows combine days, hours, minutes and seconds: 30d, 12hr30m, 90s.
All commands except /help require group admin rights.`

// handleCommand dispatches a recognized command. It returns false for
// commands this bot does not implement.
func (b *Bot) handleCommand(ctx context.Context, update platform.Update) bool {
	switch update.Command {
	case "start":
		b.handleStart(ctx, update)
	case "stop":
		b.handleStop(ctx, update)
	case "lifetime":
		b.handleLifetime(ctx, update)
	case "help":
		b.handleHelp(ctx, update)
	default:
		return false
	}
	return true
}

// handleStart activates purging for the group. Activation is
// idempotent: a second /start leaves the existing state alone. The
// handler then chains into the lifetime logic with the same arguments,
// so "/start 30d" activates and sets the window in one step and a bare
// /start reports the current window.
func (b *Bot) handleStart(ctx context.Context, update platform.Update) {
	if !b.requireGroupAdmin(ctx, update, "start") {
		return
	}

	state, err := b.store.Get(ctx, update.ChatID)
	if err != nil {
		b.commandError(update, "start", err)
		return
	}

	if state == nil {
		state = store.NewGroupState(b.cfg.DefaultLifetime, update.SentAt)
		if err := b.putAndFlush(ctx, update.ChatID, state); err != nil {
			b.commandError(update, "start", err)
			return
		}
		b.logger.Info("auto purging activated",
			"chat_id", update.ChatID,
			"lifetime", timewindow.Format(state.Lifetime),
		)
	}

	b.reply(ctx, update, replyActivated)
	b.recordCommand("start", "ok")

	b.applyLifetime(ctx, update, "start")
}

// handleStop deactivates purging and drops all tracked state for the
// group. The reply is the same whether or not purging was active.
func (b *Bot) handleStop(ctx context.Context, update platform.Update) {
	if !b.requireGroupAdmin(ctx, update, "stop") {
		return
	}

	state, err := b.store.Get(ctx, update.ChatID)
	if err != nil {
		b.commandError(update, "stop", err)
		return
	}

	if state != nil {
		if err := b.store.Delete(ctx, update.ChatID); err != nil {
			b.commandError(update, "stop", err)
			return
		}
		if err := b.store.Flush(ctx); err != nil {
			b.commandError(update, "stop", err)
			return
		}
		b.logger.Info("auto purging deactivated", "chat_id", update.ChatID)
	}

	b.reply(ctx, update, replyDeactivated)
	b.recordCommand("stop", "ok")
	b.refreshGauges(ctx, update.ChatID)
}

// handleLifetime shows or sets the group's message lifetime.
func (b *Bot) handleLifetime(ctx context.Context, update platform.Update) {
	if !b.requireGroupAdmin(ctx, update, "lifetime") {
		return
	}

	b.applyLifetime(ctx, update, "lifetime")
}

// handleHelp replies with the usage text. Unlike the other commands it
// is not admin-gated and answers in any chat.
func (b *Bot) handleHelp(ctx context.Context, update platform.Update) {
	b.reply(ctx, update, helpText)
	b.recordCommand("help", "ok")
}

// applyLifetime implements the /lifetime behavior: report, set, or
// reject the lifetime window, then run a purge pass. /start chains
// into it after activation; command names the metrics label.
func (b *Bot) applyLifetime(ctx context.Context, update platform.Update, command string) {
	state, err := b.store.Get(ctx, update.ChatID)
	if err != nil {
		b.commandError(update, command, err)
		return
	}
	if state == nil {
		b.reply(ctx, update, replyRunStartFirst)
		b.recordCommand(command, "rejected")
		return
	}

	arg := firstArg(update.CommandArgs)
	if arg == "" {
		b.reply(ctx, update, fmt.Sprintf("Current message lifetime is %s", timewindow.Format(state.Lifetime)))
		b.recordCommand(command, "ok")
	} else {
		window, err := timewindow.Parse(arg)
		switch {
		case err != nil:
			b.reply(ctx, update, replyBadWindow)
			b.recordCommand(command, "rejected")
		case window == 0:
			b.reply(ctx, update, replyZeroWindow)
			b.recordCommand(command, "rejected")
		default:
			state.Lifetime = window
			if err := b.putAndFlush(ctx, update.ChatID, state); err != nil {
				b.commandError(update, command, err)
				return
			}
			b.logger.Info("message lifetime set",
				"chat_id", update.ChatID,
				"lifetime", timewindow.Format(window),
			)
			b.reply(ctx, update, fmt.Sprintf("Message lifetime set to %s", timewindow.Format(window)))
			b.recordCommand(command, "ok")
		}
	}

	// The pass runs even after a rejected argument, like after any
	// other handled event in an active group.
	b.purgeAfter(ctx, update.ChatID, update.SentAt, purge.TriggerCommand)
}

// handleMessage records an incoming group message and runs a purge
// pass. Messages in groups without activated purging are ignored.
func (b *Bot) handleMessage(ctx context.Context, update platform.Update) {
	state, err := b.store.Get(ctx, update.ChatID)
	if err != nil {
		b.logger.Error("loading group state failed",
			"chat_id", update.ChatID,
			"error", err,
		)
		return
	}
	if state == nil {
		return
	}

	if state.Track(store.MessageRecord{MessageID: update.MessageID, SentAt: update.SentAt}) {
		if err := b.putAndFlush(ctx, update.ChatID, state); err != nil {
			b.logger.Error("recording message failed",
				"chat_id", update.ChatID,
				"message_id", update.MessageID,
				"error", err,
			)
			return
		}
	}

	b.purgeAfter(ctx, update.ChatID, update.SentAt, purge.TriggerMessage)
}

// requireGroupAdmin reports whether an admin-gated command should
// proceed. Commands outside groups, commands from non-admins, and
// failed checks all return false; only failures are logged at error
// level.
func (b *Bot) requireGroupAdmin(ctx context.Context, update platform.Update, command string) bool {
	if !update.IsGroup {
		b.logger.Debug("command outside group ignored",
			"chat_id", update.ChatID,
			"command", command,
		)
		b.recordCommand(command, "denied")
		return false
	}

	isAdmin, err := b.messenger.IsAdmin(ctx, update.ChatID, update.SenderID)
	if err != nil {
		b.logger.Error("admin check failed",
			"chat_id", update.ChatID,
			"command", command,
			"error", err,
		)
		b.recordCommand(command, "error")
		return false
	}
	if !isAdmin {
		b.logger.Debug("command from non-admin ignored",
			"chat_id", update.ChatID,
			"sender_id", update.SenderID,
			"command", command,
		)
		b.recordCommand(command, "denied")
		return false
	}

	return true
}

// purgeAfter runs a purge pass for the group and refreshes the state
// gauges. Pass errors are logged, not propagated; the next event or
// sweep retries naturally.
func (b *Bot) purgeAfter(ctx context.Context, chatID int64, now time.Time, trigger purge.Trigger) {
	if _, err := b.engine.Purge(ctx, chatID, now, trigger); err != nil {
		b.logger.Error("purge pass failed",
			"chat_id", chatID,
			"error", err,
		)
	}
	b.refreshGauges(ctx, chatID)
}

// reply sends text in reply to the update's message. Send failures are
// logged and swallowed.
func (b *Bot) reply(ctx context.Context, update platform.Update, text string) {
	if err := b.messenger.Reply(ctx, update.ChatID, update.MessageID, text); err != nil {
		b.logger.Error("sending reply failed",
			"chat_id", update.ChatID,
			"message_id", update.MessageID,
			"error", err,
		)
	}
}

// commandError logs a failed command and counts it.
func (b *Bot) commandError(update platform.Update, command string, err error) {
	b.logger.Error("command handling failed",
		"chat_id", update.ChatID,
		"command", command,
		"error", err,
	)
	b.recordCommand(command, "error")
}

// putAndFlush persists the group state and flushes the store.
func (b *Bot) putAndFlush(ctx context.Context, chatID int64, state *store.GroupState) error {
	if err := b.store.Put(ctx, chatID, state); err != nil {
		return fmt.Errorf("persist group state: %w", err)
	}
	if err := b.store.Flush(ctx); err != nil {
		return fmt.Errorf("flush store: %w", err)
	}
	return nil
}

// firstArg returns the first whitespace-separated token of the command
// arguments, or "" when there are none.
func firstArg(args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
