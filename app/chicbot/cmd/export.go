package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chicbot/chicbot/internal/session"
)

var exportOutputPath string

var exportCmd = &cobra.Command{
	Use:   "export <conversation-id>",
	Short: "Export a conversation as a plain-text transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutputPath, "output", "o", "", "Write the transcript to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	history, cleanup, err := createHistoryStore()
	if err != nil {
		return err
	}
	defer cleanup()

	mgr := session.New(createAssistantClient(), history)
	transcript, err := mgr.ExportConversation(args[0])
	if err != nil {
		return fmt.Errorf("failed to export conversation %s: %w", args[0], err)
	}

	if exportOutputPath == "" {
		fmt.Print(transcript)
		return nil
	}
	if err := os.WriteFile(exportOutputPath, []byte(transcript), 0666); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	fmt.Printf("Wrote transcript to %s\n", exportOutputPath)
	return nil
}
