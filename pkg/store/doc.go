// Package store persists per-group retention state.
//
// # Data Model
//
// The store is a mapping from chat id to GroupState. A GroupState carries the
// group's configured message lifetime, the id the last purge pass stopped at,
// and a record for every tracked message. State exists only for groups where
// auto purging is active.
//
// # Backends
//
// The Store interface has four implementations:
//
//   - Snapshot: whole-file gob snapshot, rewritten on Flush (default)
//   - Bolt: bbolt database, one JSON document per group
//   - SQLite: groups and messages tables with WAL
//   - Memory: in-memory storage for testing
//
// The snapshot backend matches the bot's write pattern: the event loop
// mutates state and calls Flush after each logical operation. The bolt and
// sqlite backends commit on every Put and Delete instead and treat Flush as
// a no-op, which is strictly stronger durability.
//
// # Basic Usage
//
//	st, err := store.OpenSnapshotStore("purgebot.db")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer st.Close()
//
//	state, err := st.Get(ctx, chatID)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if state == nil {
//		state = store.NewGroupState(lifetime, time.Now())
//	}
//	state.Track(store.MessageRecord{MessageID: 42, SentAt: time.Now()})
//	if err := st.Put(ctx, chatID, state); err != nil {
//		log.Fatal(err)
//	}
//	if err := st.Flush(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// # Aliasing
//
// Get returns clones and Put stores clones. Mutating a state between Get and
// Put never changes what the store holds until Put is called.
package store
