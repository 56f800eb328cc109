package internal

import (
	"time"
)

// CreateTestTranscript creates a transcript with sample data
func CreateTestTranscript(id int64) *Transcript {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &Transcript{
		Conversation: Conversation{
			ID:        id,
			Title:     "Test Conversation",
			Status:    StatusPaused,
			CreatedAt: created,
			UpdatedAt: created.Add(2 * time.Minute),
		},
		Messages: []Message{
			{
				ID:             1,
				ConversationID: id,
				Role:           RoleUser,
				Content:        "Hello, how are you?",
				Timestamp:      created.Add(time.Minute),
			},
			{
				ID:             2,
				ConversationID: id,
				Role:           RoleAssistant,
				Content:        "I'm doing well, thank you!",
				Timestamp:      created.Add(2 * time.Minute),
			},
		},
	}
}

// CreateTestTranscriptWithMessages creates a transcript with custom messages
func CreateTestTranscriptWithMessages(id int64, messages []Message) *Transcript {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &Transcript{
		Conversation: Conversation{
			ID:        id,
			Title:     "Test Conversation",
			Status:    StatusPaused,
			CreatedAt: created,
			UpdatedAt: created,
		},
		Messages: messages,
	}
}
