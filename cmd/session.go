package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/voxtalk/voxtalk/internal"
)

var (
	youStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	eviStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// runSession conducts one voice session against conversationID (0 starts a
// new conversation). Ctrl+C cancels cooperatively and drives the ordered
// teardown.
func runSession(cmd *cobra.Command, conversationID int64) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := internal.OpenStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open conversation database: %w", err)
	}
	defer store.Close()

	coordinator := internal.NewCoordinator(cfg, store, &internal.EVIDialer{}, internal.NewDeviceBridge())
	coordinator.AddObserver(internal.ObserverFunc(printMessage))

	fmt.Println(dimStyle.Render("Connecting to EVI..."))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if conversationID > 0 {
		fmt.Println(dimStyle.Render(fmt.Sprintf("Resuming conversation %d", conversationID)))
	}
	if cfg.AllowInterrupt {
		fmt.Println(noticeStyle.Render("Interruption enabled - use headphones to avoid feedback!"))
	} else {
		fmt.Println(dimStyle.Render("Microphone mutes while EVI speaks (walkie-talkie mode)"))
	}
	fmt.Println(dimStyle.Render("Say something to begin. Press Ctrl+C to end the conversation."))
	fmt.Println()

	result, err := coordinator.Run(ctx, conversationID)
	if err != nil {
		if internal.ErrIsNotFound(err) {
			return fmt.Errorf("conversation %d not found", conversationID)
		}
		return err
	}

	fmt.Println()
	fmt.Println(dimStyle.Render(internal.DescribeEnd(result)))
	return nil
}

// printMessage renders one session notification to the terminal.
func printMessage(role, content string) {
	switch role {
	case internal.RoleUser:
		fmt.Printf("%s %s\n", youStyle.Render("You:"), content)
	case internal.RoleAssistant:
		fmt.Printf("%s %s\n", eviStyle.Render("EVI:"), content)
	default:
		fmt.Println(systemStyle.Render(content))
	}
}
