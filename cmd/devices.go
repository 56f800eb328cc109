package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/voxtalk/voxtalk/internal"
)

// devicesCmd represents the devices command
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio devices",
	Long: `List the audio capture and playback devices voxtalk can use.

Echo cancellation is not available through the audio backend. If you enable
ALLOW_INTERRUPT, use headphones so the speaker output cannot feed back into
the microphone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := internal.ListDevices()
		if err != nil {
			return fmt.Errorf("failed to enumerate audio devices: %w", err)
		}

		if len(devices) == 0 {
			fmt.Println(headerStyle.Render("No audio devices found"))
			return nil
		}

		fmt.Println(headerStyle.Render("Audio devices"))
		fmt.Println()
		for _, dev := range devices {
			kind := "OUTPUT"
			if dev.IsCapture {
				kind = "INPUT"
			}
			suffix := ""
			if dev.IsDefault {
				suffix = dimStyle.Render(" (default)")
			}
			fmt.Printf("  %s %s%s\n", countStyle.Render(fmt.Sprintf("%-7s", kind)), dev.Name, suffix)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
