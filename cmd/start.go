package cmd

import (
	"github.com/spf13/cobra"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new conversation",
	Long:  `Start a new voice conversation with EVI. The transcript is saved as it happens.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd, 0)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
