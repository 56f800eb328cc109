package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/voxtalk/voxtalk/internal"
	"github.com/voxtalk/voxtalk/internal/export"
)

var (
	exportFormat string
	exportOutput string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <conversation-id>",
	Short: "Export a conversation transcript to file",
	Long: `Export a conversation transcript in one of several formats
(md, json, jsonl, yaml).

Use 'voxtalk list' to see available conversation ids. Without --output the
transcript is written to conversation-<id>.<ext> in the current directory;
--output - writes to stdout.`,
	Args: cobra.ExactArgs(1),
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

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		if exportOutput == "-" {
			return exporter.Export(transcript, os.Stdout)
		}

		path := exportOutput
		if path == "" {
			path = fmt.Sprintf("conversation-%d.%s", id, exporter.Extension())
		}

		f, err := os.Create(path)
		if err != nil {
			return &internal.ExportError{Format: exportFormat, Path: path, Err: err}
		}
		defer f.Close()

		if err := exporter.Export(transcript, f); err != nil {
			return &internal.ExportError{Format: exportFormat, Path: path, Err: err}
		}

		fmt.Printf("Exported conversation %d to %s\n", id, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "md", "Export format: md, json, jsonl, yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path ('-' for stdout)")
}
