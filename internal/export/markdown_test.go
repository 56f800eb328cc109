package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/voxtalk/voxtalk/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name       string
		transcript *internal.Transcript
		want       []string
		wantErr    bool
	}{
		{
			name:       "basic transcript",
			transcript: internal.CreateTestTranscript(1),
			want: []string{
				"# Conversation 1",
				"**Title:** Test Conversation",
				"**Status:** paused",
				"**Messages:** 2",
				"## Messages",
				"**USER:**",
				"Hello, how are you?",
				"**ASSISTANT:**",
			},
			wantErr: false,
		},
		{
			name: "message timestamps rendered",
			transcript: internal.CreateTestTranscriptWithMessages(2, []internal.Message{
				{
					Role:      internal.RoleUser,
					Content:   "Hello",
					Timestamp: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
				},
			}),
			want: []string{
				"**USER:** (2024-03-01 10:00:00)",
			},
			wantErr: false,
		},
		{
			name: "markdown characters escaped",
			transcript: internal.CreateTestTranscriptWithMessages(3, []internal.Message{
				{
					Role:    internal.RoleAssistant,
					Content: "use *bold* and `code`",
				},
			}),
			want: []string{
				`use \*bold\* and \` + "\\`code\\`",
			},
			wantErr: false,
		},
		{
			name: "code blocks left untouched",
			transcript: internal.CreateTestTranscriptWithMessages(4, []internal.Message{
				{
					Role:    internal.RoleAssistant,
					Content: "```go\nx := a * b\n```",
				},
			}),
			want: []string{
				"x := a * b",
			},
			wantErr: false,
		},
		{
			name: "empty transcript",
			transcript: internal.CreateTestTranscriptWithMessages(5, nil),
			want: []string{
				"# Conversation 5",
				"**Messages:** 0",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := &MarkdownExporter{}
			err := e.Export(tt.transcript, &buf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Export() error = %v, wantErr %v", err, tt.wantErr)
			}
			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("Export() output missing %q\noutput:\n%s", want, out)
				}
			}
		})
	}
}

func TestMarkdownExporter_Extension(t *testing.T) {
	e := &MarkdownExporter{}
	if got := e.Extension(); got != "md" {
		t.Errorf("Extension() = %q, want %q", got, "md")
	}
}
