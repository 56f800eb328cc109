package cmd

import (
	"testing"

	"github.com/voxtalk/voxtalk/internal"
	"github.com/voxtalk/voxtalk/testutil"
)

func TestViewCommand(t *testing.T) {
	db := testutil.CreateConversationDB(t)

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "existing conversation",
			args:    []string{"view", "1", "--db", db},
			wantErr: false,
		},
		{
			name:    "unknown conversation",
			args:    []string{"view", "999", "--db", db},
			wantErr: true,
		},
		{
			name:    "invalid id",
			args:    []string{"view", "abc", "--db", db},
			wantErr: true,
		},
		{
			name:    "negative id",
			args:    []string{"view", "-5", "--db", db},
			wantErr: true,
		},
		{
			name:    "missing argument",
			args:    []string{"view", "--db", db},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("view error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDisplayTranscript(t *testing.T) {
	tests := []struct {
		name       string
		transcript *internal.Transcript
	}{
		{
			name:       "with messages",
			transcript: internal.CreateTestTranscript(1),
		},
		{
			name:       "empty",
			transcript: internal.CreateTestTranscriptWithMessages(2, nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Rendering goes straight to the terminal; verify it handles
			// both shapes without panicking.
			displayTranscript(tt.transcript)
		})
	}
}
