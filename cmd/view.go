package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/voxtalk/voxtalk/internal"
)

var (
	// Styles for view command
	transcriptHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	transcriptMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// viewCmd represents the view command
var viewCmd = &cobra.Command{
	Use:   "view <conversation-id>",
	Short: "View a conversation transcript",
	Long:  `Display the full transcript of a stored conversation.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid conversation id %q", args[0])
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		transcript, err := store.GetTranscript(id)
		if err != nil {
			if internal.ErrIsNotFound(err) {
				return fmt.Errorf("conversation %d not found", id)
			}
			return err
		}

		displayTranscript(transcript)
		return nil
	},
}

func displayTranscript(transcript *internal.Transcript) {
	conv := transcript.Conversation

	fmt.Println(transcriptHeaderStyle.Render(fmt.Sprintf("Conversation %d — %s", conv.ID, conv.Title)))
	fmt.Println(transcriptMetaStyle.Render(fmt.Sprintf(
		"Status: %s   Created: %s   Messages: %d",
		conv.Status,
		conv.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		len(transcript.Messages))))

	if len(transcript.Messages) == 0 {
		fmt.Println(dimStyle.Render("No messages in this conversation."))
		return
	}

	for _, msg := range transcript.Messages {
		label := strings.ToUpper(msg.Role)
		switch msg.Role {
		case internal.RoleUser:
			label = userMessageStyle.Render(label)
		case internal.RoleAssistant:
			label = assistantMessageStyle.Render(label)
		}
		ts := timestampStyle.Render(msg.Timestamp.Local().Format("15:04:05"))

		fmt.Printf("%s %s\n", label, ts)
		fmt.Println(messageContentStyle.Render(msg.Content))
	}
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
