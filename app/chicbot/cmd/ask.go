package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chicbot/chicbot/internal/session"
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send a single message and print the reply",
	Long: `Sends one message through the same pipeline as the interactive chat and
prints the assistant's reply. The exchange is appended to the active
conversation (or a new one) and persisted like any other.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := setupContext()

	client := createAssistantClient()
	history, cleanup, err := createHistoryStore()
	if err != nil {
		return err
	}
	defer cleanup()

	mgr := session.New(client, history)
	mgr.Subscribe(renderEvent)

	conv, err := mgr.SendQuickAction(ctx, strings.Join(args, " "))
	if errors.Is(err, session.ErrEmptyMessage) {
		return nil
	} else if err != nil {
		return fmt.Errorf("send failed: %w", err)
	}

	if len(conv.Messages) > 0 {
		fmt.Println(conv.Messages[len(conv.Messages)-1].Text)
	}
	return nil
}
