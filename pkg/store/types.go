package store

import "time"

// MessageRecord is a single tracked message in a group.
type MessageRecord struct {
	// MessageID is the platform-assigned message id, unique within the chat.
	MessageID int

	// SentAt is when the message was sent, as reported by the platform.
	SentAt time.Time
}

// GroupState is the retention state for one group chat. It is created when
// auto purging is activated for the group and destroyed when it is
// deactivated.
type GroupState struct {
	// Lifetime is how long a tracked message may live before it becomes
	// eligible for deletion.
	Lifetime time.Duration

	// LatestDeletedMessageID is the id the last purge pass stopped at.
	// Zero means no purge pass has deleted anything yet; platform message
	// ids start at one. It only grows across passes except when a pinned
	// message blocks deletion, in which case it tracks the lowest excluded
	// id so the next pass resumes before the pin.
	LatestDeletedMessageID int

	// Messages maps message id to its record for every tracked message.
	Messages map[int]MessageRecord

	// ActivatedAt is when auto purging was activated for the group.
	ActivatedAt time.Time
}

// NewGroupState creates the state for a freshly activated group.
func NewGroupState(lifetime time.Duration, now time.Time) *GroupState {
	return &GroupState{
		Lifetime:    lifetime,
		Messages:    make(map[int]MessageRecord),
		ActivatedAt: now,
	}
}

// Clone returns a deep copy of the state. Store implementations hand out and
// accept clones so callers can mutate freely between Get and Put.
func (g *GroupState) Clone() *GroupState {
	if g == nil {
		return nil
	}
	clone := &GroupState{
		Lifetime:               g.Lifetime,
		LatestDeletedMessageID: g.LatestDeletedMessageID,
		Messages:               make(map[int]MessageRecord, len(g.Messages)),
		ActivatedAt:            g.ActivatedAt,
	}
	for id, record := range g.Messages {
		clone.Messages[id] = record
	}
	return clone
}

// Track records a message if it is not already tracked. It reports whether
// the message was newly recorded.
func (g *GroupState) Track(record MessageRecord) bool {
	if g.Messages == nil {
		g.Messages = make(map[int]MessageRecord)
	}
	if _, exists := g.Messages[record.MessageID]; exists {
		return false
	}
	g.Messages[record.MessageID] = record
	return true
}
