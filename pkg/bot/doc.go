// Package bot implements the purgebot event loop and command handlers.
//
// The Bot consumes updates from a platform.Messenger and sweep
// requests from the cron scheduler in a single goroutine. Every store
// mutation and every purge pass happens on that goroutine, so handlers
// never race over group state.
//
// # Commands
//
//   - /start [window]  - activate purging (admin). Idempotent; chains
//     into the lifetime logic so an argument sets the window
//     immediately.
//   - /stop            - deactivate purging and drop tracked state (admin)
//   - /lifetime [window] - show or set the message lifetime (admin)
//   - /help            - usage text, open to everyone
//
// Plain text messages in activated groups are recorded and followed by
// a purge pass. Commands the bot does not recognize are treated as
// plain messages.
//
// # Sweeps
//
// RequestSweep hands a sweep request to the loop without blocking; a
// pending request absorbs further ones. A sweep purges every tracked
// group, which is how messages in quiet groups expire.
package bot
