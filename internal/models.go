package internal

import "time"

// Conversation statuses.
const (
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Conversation represents a stored conversation
type Conversation struct {
	ID        int64     `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Status    string    `json:"status" yaml:"status"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Message represents a single transcribed utterance or synthesized reply
type Message struct {
	ID             int64     `json:"id" yaml:"id"`
	ConversationID int64     `json:"conversation_id" yaml:"conversation_id"`
	Role           string    `json:"role" yaml:"role"` // "user" or "assistant"
	Content        string    `json:"content" yaml:"content"`
	Timestamp      time.Time `json:"timestamp" yaml:"timestamp"`
	AudioDuration  *float64  `json:"audio_duration,omitempty" yaml:"audio_duration,omitempty"`
}

// ConversationSummary is a Conversation annotated with message aggregates
// for the list view
type ConversationSummary struct {
	Conversation
	MessageCount  int        `json:"message_count" yaml:"message_count"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty" yaml:"last_message_at,omitempty"`
}

// Transcript bundles a conversation with its ordered messages for rendering
// and export
type Transcript struct {
	Conversation Conversation `json:"conversation" yaml:"conversation"`
	Messages     []Message    `json:"messages" yaml:"messages"`
}

// ValidStatus reports whether s is a known conversation status
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// PersistableRole reports whether messages with this role are written to the
// store. System messages are notification-only and never persisted.
func PersistableRole(role string) bool {
	return role == RoleUser || role == RoleAssistant
}
