package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/voxtalk/voxtalk/internal"
)

var (
	verbose bool
	dbPath  string
	envFile string
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "voxtalk",
	Short: "Voice conversations with EVI from your terminal",
	Long: `voxtalk conducts realtime voice conversations with Hume's Empathic
Voice Interface (EVI) and keeps every transcript in a local SQLite database.

Features:
  • Talk to EVI through your microphone and speakers
  • Resume a conversation exactly where you left off
  • List past conversations with message counts
  • View and export transcripts (Markdown, JSON, JSONL, YAML)

Quick Start:
  voxtalk start               # Start a new conversation
  voxtalk resume              # Pick up the most recent one
  voxtalk list                # See everything you've talked about
  voxtalk view <id>           # Read a transcript

Configuration is read from the environment (or a .env file):
  HUME_API_KEY, HUME_CONFIG_ID, ALLOW_INTERRUPT, DB_PATH, SSL_CERT_FILE`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Conversation database path (overrides DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment from this dotenv file")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadConfig builds the immutable configuration, applying the --db flag
// override.
func loadConfig() (*internal.Config, error) {
	cfg, err := internal.LoadConfig(envFile)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

// openStore opens the conversation database, honoring the --db flag without
// requiring the full (credentialed) configuration. Read-only commands like
// list and view work without an API key.
func openStore() (*internal.Store, error) {
	path := dbPath
	if path == "" {
		if envFile != "" {
			if err := internal.LoadEnvFile(envFile); err != nil {
				return nil, err
			}
		} else if err := internal.LoadEnvFile(".env"); err != nil {
			return nil, err
		}
		path = os.Getenv("DB_PATH")
	}
	if path == "" {
		path = internal.DefaultDBPath
	}

	store, err := internal.OpenStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open conversation database: %w", err)
	}
	return store, nil
}
