package domain

// MessageLog is the ordered, append-only transcript of a conversation.
// It is not safe for concurrent use; callers serialize access through the
// owning session's lock.
type MessageLog struct {
	messages []Message
}

// NewMessageLog creates a log seeded with the given messages.
func NewMessageLog(seed ...Message) *MessageLog {
	l := &MessageLog{messages: make([]Message, 0, len(seed)+4)}
	l.messages = append(l.messages, seed...)
	return l
}

// Append adds a message at the end of the log.
func (l *MessageLog) Append(m Message) {
	l.messages = append(l.messages, m)
}

// InsertAt inserts a message at the given index, shifting later messages.
// Indexes out of range clamp to the nearest end.
func (l *MessageLog) InsertAt(i int, m Message) {
	if i < 0 {
		i = 0
	}
	if i > len(l.messages) {
		i = len(l.messages)
	}
	l.messages = append(l.messages, Message{})
	copy(l.messages[i+1:], l.messages[i:])
	l.messages[i] = m
}

// Snapshot returns a defensive copy of the log. Callers compose pending
// mutations (the not-yet-committed user turn, a transient context entry)
// on the copy without touching the persisted log.
func (l *MessageLog) Snapshot() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// ContainsKind reports whether any message in the log carries the kind.
func (l *MessageLog) ContainsKind(kind MessageKind) bool {
	for _, m := range l.messages {
		if m.Kind == kind {
			return true
		}
	}
	return false
}

// RemoveKind deletes every message of the given kind, preserving the order
// of the rest. It reports whether anything was removed.
func (l *MessageLog) RemoveKind(kind MessageKind) bool {
	kept := l.messages[:0]
	removed := false
	for _, m := range l.messages {
		if m.Kind == kind {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	l.messages = kept
	return removed
}

// Len returns the number of messages in the log.
func (l *MessageLog) Len() int {
	return len(l.messages)
}
