package domain

import "time"

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry in a conversation's history.
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Message is a single persisted transcript record.
type Message struct {
	PK             string
	SK             string
	ConversationID string
	Role           Role
	Text           string
	Timestamp      time.Time
	TTL            int64
}

// Turn returns the history view of the record.
func (m Message) Turn() Turn {
	return Turn{Role: m.Role, Text: m.Text, Timestamp: m.Timestamp}
}
