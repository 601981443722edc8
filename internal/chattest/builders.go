package chattest

import (
	"time"

	"chatops-hq/purgebot/pkg/platform"
)

// CommandUpdate builds a group command update such as "/start" or
// "/1d", the way the Telegram adapter would deliver it.
func CommandUpdate(chatID, senderID int64, messageID int, command, args string) platform.Update {
	text := "/" + command
	if args != "" {
		text += " " + args
	}
	return platform.Update{
		ChatID:      chatID,
		MessageID:   messageID,
		SenderID:    senderID,
		SentAt:      time.Now(),
		Text:        text,
		IsGroup:     true,
		Command:     command,
		CommandArgs: args,
	}
}

// TextUpdate builds an ordinary group message update.
func TextUpdate(chatID, senderID int64, messageID int, sentAt time.Time, text string) platform.Update {
	return platform.Update{
		ChatID:    chatID,
		MessageID: messageID,
		SenderID:  senderID,
		SentAt:    sentAt,
		Text:      text,
		IsGroup:   true,
	}
}

// PrivateUpdate builds a direct message update, which the bot ignores.
func PrivateUpdate(chatID, senderID int64, messageID int, text string) platform.Update {
	return platform.Update{
		ChatID:    chatID,
		MessageID: messageID,
		SenderID:  senderID,
		SentAt:    time.Now(),
		Text:      text,
		IsGroup:   false,
	}
}
