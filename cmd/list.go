package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/voxtalk/voxtalk/internal"
)

var (
	listLimit int
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	statusStyles = map[string]lipgloss.Style{
		internal.StatusActive:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		internal.StatusPaused:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		internal.StatusCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	}
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	Long:  `List stored conversations, most recently updated first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		summaries, err := store.ListConversations(listLimit)
		if err != nil {
			internal.LogError("Failed to list conversations: %v", err)
			fmt.Println(headerStyle.Render("No conversations yet"))
			return nil
		}

		displayConversations(summaries)
		return nil
	},
}

func displayConversations(summaries []internal.ConversationSummary) {
	if len(summaries) == 0 {
		fmt.Println(headerStyle.Render("No conversations yet"))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("Found %d conversation(s)", len(summaries)))
	fmt.Println(header)
	fmt.Println()

	// Use tabwriter for aligned columns with better spacing
	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Status")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Updated")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, sum := range summaries {
		title := sum.Title
		if title == "" {
			title = "Untitled"
		}
		title = truncateTitle(title, 50)

		status := sum.Status
		if style, ok := statusStyles[status]; ok {
			status = style.Render(status)
		}

		msgCount := countStyle.Render(strconv.Itoa(sum.MessageCount))
		updated := dateStyle.Render(relativeDate(sum.UpdatedAt))
		id := idStyle.Render(strconv.FormatInt(sum.ID, 10))

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", id, title, status, msgCount, updated)
	}

	_ = w.Flush()
	fmt.Println()
	fmt.Println(idStyle.Render("Tip: voxtalk view <id> shows a transcript, voxtalk resume <id> continues the conversation"))
}

// truncateTitle shortens title to at most max runes, replacing the tail
// with "..." so a multi-byte character is never cut mid-sequence.
func truncateTitle(title string, max int) string {
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max-3]) + "..."
}

// relativeDate formats t compactly relative to now, the way the list view
// shows dates.
func relativeDate(t time.Time) string {
	t = t.Local()
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum number of conversations to show")
}
