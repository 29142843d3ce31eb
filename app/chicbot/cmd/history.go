package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chicbot/chicbot/internal/session"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved conversations, newest first",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	history, cleanup, err := createHistoryStore()
	if err != nil {
		return err
	}
	defer cleanup()

	mgr := session.New(createAssistantClient(), history)
	conversations := mgr.ListConversations()
	if len(conversations) == 0 {
		fmt.Println("No saved conversations.")
		return nil
	}
	for i, conv := range conversations {
		fmt.Printf("%2d. %s  [%s] (%d messages)\n", i+1, conv.Title, conv.ID, len(conv.Messages))
	}
	return nil
}
