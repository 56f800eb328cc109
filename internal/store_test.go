package internal

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenStore(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "fresh database file",
			path: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "fresh.db")
			},
			wantErr: false,
		},
		{
			name: "unwritable path",
			path: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing", "nested", "fresh.db")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := OpenStore(tt.path(t))
			if (err != nil) != tt.wantErr {
				t.Errorf("OpenStore() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil {
				store.Close()
			}
		})
	}
}

func TestCreateAndGetConversation(t *testing.T) {
	store := newTestStore(t)

	id, err := store.CreateConversation("")
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}
	if id == 0 {
		t.Fatal("CreateConversation() returned id 0")
	}

	conv, err := store.GetConversation(id)
	if err != nil {
		t.Fatalf("GetConversation() error = %v", err)
	}
	if conv.Status != StatusActive {
		t.Errorf("status = %q, want %q", conv.Status, StatusActive)
	}
	if conv.Title == "" {
		t.Error("title is empty, want a timestamp-derived default")
	}
	if conv.CreatedAt.IsZero() || conv.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestCreateConversation_CustomTitle(t *testing.T) {
	store := newTestStore(t)

	id, err := store.CreateConversation("morning check-in")
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}
	conv, err := store.GetConversation(id)
	if err != nil {
		t.Fatalf("GetConversation() error = %v", err)
	}
	if conv.Title != "morning check-in" {
		t.Errorf("title = %q, want %q", conv.Title, "morning check-in")
	}
}

func TestGetConversation_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetConversation(9999)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("GetConversation() error = %v, want NotFoundError", err)
	}
}

func TestMessageOrdering(t *testing.T) {
	store := newTestStore(t)

	id, err := store.CreateConversation("")
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}

	// Alternating roles, persisted in order.
	var want []string
	for i := 0; i < 10; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		content := fmt.Sprintf("message %d", i)
		if _, err := store.AddMessage(id, role, content, nil); err != nil {
			t.Fatalf("AddMessage(%d) error = %v", i, err)
		}
		want = append(want, content)
	}

	messages, err := store.GetMessages(id)
	if err != nil {
		t.Fatalf("GetMessages() error = %v", err)
	}
	if len(messages) != len(want) {
		t.Fatalf("got %d messages, want %d", len(messages), len(want))
	}
	for i, msg := range messages {
		if msg.Content != want[i] {
			t.Errorf("messages[%d].Content = %q, want %q", i, msg.Content, want[i])
		}
		if i > 0 && messages[i].Timestamp.Before(messages[i-1].Timestamp) {
			t.Errorf("messages[%d] out of order", i)
		}
	}

	// Parent updated_at equals the last message's timestamp.
	conv, err := store.GetConversation(id)
	if err != nil {
		t.Fatalf("GetConversation() error = %v", err)
	}
	last := messages[len(messages)-1]
	if !conv.UpdatedAt.Equal(last.Timestamp) {
		t.Errorf("UpdatedAt = %v, want last message timestamp %v", conv.UpdatedAt, last.Timestamp)
	}
}

func TestAddMessage_SystemRoleRejected(t *testing.T) {
	store := newTestStore(t)

	id, err := store.CreateConversation("")
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}

	if _, err := store.AddMessage(id, RoleSystem, "[Interrupted]", nil); err == nil {
		t.Error("AddMessage(system) succeeded, want error")
	}

	messages, err := store.GetMessages(id)
	if err != nil {
		t.Fatalf("GetMessages() error = %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("got %d messages, want 0", len(messages))
	}
}

func TestAddMessage_ForeignKeyEnforced(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.AddMessage(4242, RoleUser, "orphan", nil); err == nil {
		t.Error("AddMessage with unknown conversation succeeded, want FK error")
	}
}

func TestAddMessage_AudioDuration(t *testing.T) {
	store := newTestStore(t)

	id, err := store.CreateConversation("")
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}

	dur := 2.5
	if _, err := store.AddMessage(id, RoleAssistant, "hello", &dur); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}

	messages, err := store.GetMessages(id)
	if err != nil {
		t.Fatalf("GetMessages() error = %v", err)
	}
	if len(messages) != 1 || messages[0].AudioDuration == nil || *messages[0].AudioDuration != dur {
		t.Errorf("AudioDuration not round-tripped: %+v", messages)
	}
}

func TestUpdateStatus(t *testing.T) {
	store := newTestStore(t)

	id, err := store.CreateConversation("")
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}

	tests := []struct {
		name    string
		id      int64
		status  string
		wantErr bool
	}{
		{name: "pause", id: id, status: StatusPaused},
		{name: "reactivate", id: id, status: StatusActive},
		{name: "complete", id: id, status: StatusCompleted},
		{name: "invalid status", id: id, status: "archived", wantErr: true},
		{name: "unknown conversation", id: 9999, status: StatusPaused, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.UpdateStatus(tt.id, tt.status)
			if (err != nil) != tt.wantErr {
				t.Errorf("UpdateStatus() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				conv, gerr := store.GetConversation(tt.id)
				if gerr != nil {
					t.Fatalf("GetConversation() error = %v", gerr)
				}
				if conv.Status != tt.status {
					t.Errorf("status = %q, want %q", conv.Status, tt.status)
				}
			}
		})
	}
}

func TestGetLastActive(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.GetLastActive(); !ErrIsNotFound(err) {
		t.Errorf("GetLastActive() on empty store error = %v, want NotFoundError", err)
	}

	first, err := store.CreateConversation("first")
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}
	second, err := store.CreateConversation("second")
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}

	// Touching the first conversation makes it the most recently updated.
	if _, err := store.AddMessage(first, RoleUser, "hello again", nil); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}

	conv, err := store.GetLastActive()
	if err != nil {
		t.Fatalf("GetLastActive() error = %v", err)
	}
	if conv.ID != first {
		t.Errorf("GetLastActive() = %d, want %d", conv.ID, first)
	}

	// Pausing it leaves the second as the only active conversation.
	if err := store.UpdateStatus(first, StatusPaused); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	conv, err = store.GetLastActive()
	if err != nil {
		t.Fatalf("GetLastActive() error = %v", err)
	}
	if conv.ID != second {
		t.Errorf("GetLastActive() = %d, want %d", conv.ID, second)
	}
}

func TestListConversations(t *testing.T) {
	store := newTestStore(t)

	a, _ := store.CreateConversation("a")
	b, _ := store.CreateConversation("b")

	for i := 0; i < 3; i++ {
		if _, err := store.AddMessage(a, RoleUser, fmt.Sprintf("m%d", i), nil); err != nil {
			t.Fatalf("AddMessage() error = %v", err)
		}
	}

	summaries, err := store.ListConversations(50)
	if err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}

	// Newest updated first: a was touched last by its messages.
	if summaries[0].ID != a {
		t.Errorf("summaries[0].ID = %d, want %d", summaries[0].ID, a)
	}
	if summaries[0].MessageCount != 3 {
		t.Errorf("summaries[0].MessageCount = %d, want 3", summaries[0].MessageCount)
	}
	if summaries[0].LastMessageAt == nil {
		t.Error("summaries[0].LastMessageAt = nil, want last message time")
	}
	if summaries[1].ID != b {
		t.Errorf("summaries[1].ID = %d, want %d", summaries[1].ID, b)
	}
	if summaries[1].MessageCount != 0 {
		t.Errorf("summaries[1].MessageCount = %d, want 0", summaries[1].MessageCount)
	}
	if summaries[1].LastMessageAt != nil {
		t.Error("summaries[1].LastMessageAt non-nil for empty conversation")
	}

	for i := 1; i < len(summaries); i++ {
		if summaries[i].UpdatedAt.After(summaries[i-1].UpdatedAt) {
			t.Errorf("summaries not ordered by updated_at descending at %d", i)
		}
	}
}

func TestListConversations_Limit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		if _, err := store.CreateConversation(fmt.Sprintf("c%d", i)); err != nil {
			t.Fatalf("CreateConversation() error = %v", err)
		}
	}

	summaries, err := store.ListConversations(3)
	if err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if len(summaries) != 3 {
		t.Errorf("got %d summaries, want 3", len(summaries))
	}
}

func TestGetTranscript(t *testing.T) {
	store := newTestStore(t)

	id, _ := store.CreateConversation("t")
	if _, err := store.AddMessage(id, RoleUser, "hi", nil); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}

	transcript, err := store.GetTranscript(id)
	if err != nil {
		t.Fatalf("GetTranscript() error = %v", err)
	}
	if transcript.Conversation.ID != id {
		t.Errorf("Conversation.ID = %d, want %d", transcript.Conversation.ID, id)
	}
	if len(transcript.Messages) != 1 {
		t.Errorf("got %d messages, want 1", len(transcript.Messages))
	}

	if _, err := store.GetTranscript(9999); !ErrIsNotFound(err) {
		t.Errorf("GetTranscript(9999) error = %v, want NotFoundError", err)
	}
}
