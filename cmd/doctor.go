package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/voxtalk/voxtalk/internal"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that voxtalk is ready to hold a conversation",
	Long: `Verify the local setup:
  • Configuration (API key, config id)
  • Conversation database access
  • Audio capture and playback devices

Useful when a session won't start and you want to know which piece is
missing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("voxtalk setup check"))
		fmt.Println()
		failed := false

		// Step 1: configuration
		fmt.Println(stepStyle.Render("Step 1: Checking configuration..."))
		cfg, err := loadConfig()
		if err != nil {
			var cfgErr *internal.ConfigError
			if errors.As(err, &cfgErr) {
				fmt.Println(errStyle.Render("✗ Configuration incomplete:"), err)
			} else {
				fmt.Println(errStyle.Render("✗ Failed to load configuration:"), err)
			}
			failed = true
		} else {
			fmt.Println(successStyle.Render("✓ Configuration loaded"))
			fmt.Printf("   HUME_API_KEY: %s\n", maskSecret(cfg.APIKey))
			fmt.Printf("   HUME_CONFIG_ID: %s\n", truncateID(cfg.ConfigID))
			fmt.Printf("   ALLOW_INTERRUPT: %t\n", cfg.AllowInterrupt)
		}
		fmt.Println()

		// Step 2: database
		fmt.Println(stepStyle.Render("Step 2: Checking conversation database..."))
		store, err := openStore()
		if err != nil {
			fmt.Println(errStyle.Render("✗ Database not accessible:"), err)
			failed = true
		} else {
			summaries, lerr := store.ListConversations(1)
			store.Close()
			if lerr != nil {
				fmt.Println(errStyle.Render("✗ Database query failed:"), lerr)
				failed = true
			} else if len(summaries) == 0 {
				fmt.Println(successStyle.Render("✓ Database ready"), dimStyle.Render("(no conversations yet)"))
			} else {
				fmt.Println(successStyle.Render("✓ Database ready"))
			}
		}
		fmt.Println()

		// Step 3: audio devices
		fmt.Println(stepStyle.Render("Step 3: Checking audio devices..."))
		devices, err := internal.ListDevices()
		if err != nil {
			fmt.Println(errStyle.Render("✗ Audio backend unavailable:"), err)
			failed = true
		} else {
			var captures, playbacks int
			for _, dev := range devices {
				if dev.IsCapture {
					captures++
				} else {
					playbacks++
				}
			}
			if captures == 0 {
				fmt.Println(warningStyle.Render("⚠ No capture device found"))
				failed = true
			} else {
				fmt.Println(successStyle.Render(fmt.Sprintf("✓ %d capture device(s)", captures)))
			}
			if playbacks == 0 {
				fmt.Println(warningStyle.Render("⚠ No playback device found"))
				failed = true
			} else {
				fmt.Println(successStyle.Render(fmt.Sprintf("✓ %d playback device(s)", playbacks)))
			}
		}
		fmt.Println()

		if failed {
			fmt.Println(errStyle.Render("✗ Setup check failed. Fix the issues above and re-run."))
			os.Exit(1)
		}
		fmt.Println(successStyle.Render("✓ All checks passed. Run 'voxtalk start' to talk."))
		return nil
	},
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "********************"
}

func truncateID(s string) string {
	if len(s) > 8 {
		return s[:8] + "..."
	}
	return s
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
