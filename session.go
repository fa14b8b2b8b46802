package citydesk

import "time"

// Session represents a conversation session. Each dispatch turn appends the
// user utterance, any tool traffic, and the final reply.
type Session struct {
	ID        string
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}
