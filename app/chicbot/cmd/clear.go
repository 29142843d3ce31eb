package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chicbot/chicbot/internal/session"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all conversation history and reset the backend session",
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := setupContext()

	history, cleanup, err := createHistoryStore()
	if err != nil {
		return err
	}
	defer cleanup()

	mgr := session.New(createAssistantClient(), history)
	mgr.ClearAllHistory(ctx)
	fmt.Println("All history cleared.")
	return nil
}
