package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/voxtalk/voxtalk/internal"
)

// MarkdownExporter exports transcripts in Markdown format
type MarkdownExporter struct{}

// Export exports a transcript to Markdown format
func (e *MarkdownExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	conv := transcript.Conversation

	_, _ = fmt.Fprintf(w, "# Conversation %d\n\n", conv.ID)
	if conv.Title != "" {
		_, _ = fmt.Fprintf(w, "**Title:** %s  \n", conv.Title)
	}
	_, _ = fmt.Fprintf(w, "**Status:** %s  \n", conv.Status)
	_, _ = fmt.Fprintf(w, "**Created:** %s  \n", conv.CreatedAt.Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(transcript.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	for i, msg := range transcript.Messages {
		timestamp := msg.Timestamp.Format("2006-01-02 15:04:05")
		content := escapeMarkdown(msg.Content)

		_, _ = fmt.Fprintf(w, "**%s:** (%s)\n\n%s\n\n", strings.ToUpper(msg.Role), timestamp, content)

		if i < len(transcript.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes markdown special characters outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
			continue
		}
		if inCodeBlock {
			result = append(result, line)
			continue
		}
		escaped := line
		for _, ch := range []string{"*", "_", "`"} {
			escaped = strings.ReplaceAll(escaped, ch, "\\"+ch)
		}
		result = append(result, escaped)
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
