package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/voxtalk/voxtalk/internal"
)

// resumeCmd represents the resume command
var resumeCmd = &cobra.Command{
	Use:   "resume [conversation-id]",
	Short: "Resume a conversation",
	Long: `Resume a voice conversation. With an id, that conversation is resumed.
Without one, the most recently active conversation is resumed; if there is
none, a new conversation is started.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid conversation id %q", args[0])
			}
			return runSession(cmd, id)
		}

		id, err := lastActiveID()
		if err != nil {
			return err
		}
		if id == 0 {
			fmt.Println(noticeStyle.Render("No active conversation found. Starting a new one..."))
		}
		return runSession(cmd, id)
	},
}

// lastActiveID finds the most recently updated active conversation, or 0 if
// none exists.
func lastActiveID() (int64, error) {
	store, err := openStore()
	if err != nil {
		return 0, err
	}
	defer store.Close()

	conv, err := store.GetLastActive()
	if err != nil {
		if internal.ErrIsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return conv.ID, nil
}

func init() {
	rootCmd.AddCommand(resumeCmd)
}
