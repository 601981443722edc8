// Package telegram implements the platform.Messenger interface on the
// Telegram Bot API.
//
// The client uses long polling restricted to message updates, which is all
// the bot reacts to. Incoming updates are converted to platform.Update
// values: commands mentioning a different bot ("/start@someotherbot") are
// demoted to plain text so they are tracked like any other message instead
// of being executed.
//
// The Bot API client offers no per-call context support, so cancellation is
// checked at call boundaries and requests are bounded by an HTTP client
// timeout sized to survive long polls.
package telegram
