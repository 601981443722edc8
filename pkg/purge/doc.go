// Package purge deletes expired messages from tracked groups.
//
// The Engine runs purge passes. A pass loads the group state, selects
// tracked messages whose age meets or exceeds the group lifetime, and
// walks the message id range from the last recorded deletion point
// through the highest expired id. Every id in the range is deleted,
// including ids the bot never tracked, because Telegram assigns ids
// densely per chat and untracked gaps are usually messages that
// predate activation. Deletions the platform reports as already gone
// are tolerated and counted.
//
// # Pinned Messages
//
// The pinned message is never deleted. When the walk passes the pin,
// the recorded deletion point is clamped to the pinned id so a later
// pass revisits the ids behind it once the pin moves or is removed.
//
// # Scheduling
//
// The Scheduler fires sweep requests on a cron schedule. Sweeps cover
// groups that receive no traffic: without them, a group's messages
// would only expire on the next incoming update. The scheduler hands
// each tick to a callback rather than purging directly, keeping all
// state mutation on the bot's event loop.
package purge
