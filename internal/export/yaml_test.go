package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/voxtalk/voxtalk/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	transcript := internal.CreateTestTranscript(9)

	var buf bytes.Buffer
	e := &YAMLExporter{}
	if err := e.Export(transcript, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var decoded internal.Transcript
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}

	if decoded.Conversation.ID != 9 {
		t.Errorf("conversation id = %d, want 9", decoded.Conversation.ID)
	}
	if len(decoded.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(decoded.Messages))
	}
	if decoded.Messages[1].Content != "I'm doing well, thank you!" {
		t.Errorf("second message content = %q", decoded.Messages[1].Content)
	}

	if !strings.Contains(buf.String(), "conversation:") {
		t.Error("Export() output missing conversation key")
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	e := &YAMLExporter{}
	if got := e.Extension(); got != "yaml" {
		t.Errorf("Extension() = %q, want %q", got, "yaml")
	}
}
