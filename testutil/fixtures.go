package testutil

import (
	"path/filepath"
	"testing"

	"github.com/voxtalk/voxtalk/internal"
)

// CreateConversationDB creates a temporary conversation database seeded with
// one two-message conversation and returns its path.
func CreateConversationDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conversations.db")

	store, err := internal.OpenStore(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = store.Close() }()

	id, err := store.CreateConversation("Weather chat")
	if err != nil {
		t.Fatalf("Failed to create conversation: %v", err)
	}
	if _, err := store.AddMessage(id, internal.RoleUser, "What's the weather like?", nil); err != nil {
		t.Fatalf("Failed to add message: %v", err)
	}
	if _, err := store.AddMessage(id, internal.RoleAssistant, "Sunny and warm today.", nil); err != nil {
		t.Fatalf("Failed to add message: %v", err)
	}
	return path
}

// CreateEmptyDB creates a temporary conversation database with the schema
// applied but no rows.
func CreateEmptyDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conversations.db")

	store, err := internal.OpenStore(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Failed to close database: %v", err)
	}
	return path
}
