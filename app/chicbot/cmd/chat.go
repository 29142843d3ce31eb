package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chicbot/chicbot/internal/assistant"
	"github.com/chicbot/chicbot/internal/session"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Opens an interactive session against the ChicBot backend. Type a message
to send it, or use /-commands to manage conversations:

  /new          start a new conversation
  /list         list saved conversations
  /switch <n>   switch to conversation number n from /list
  /quick <n>    send a canned quick action
  /export       print a transcript of the current conversation
  /clear        delete all history
  /quit         exit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// quickActions are canned prompts matching the web UI's suggestion chips.
var quickActions = []string{
	"Show me new arrivals",
	"I'm looking for a dress",
	"What's trending right now?",
}

func runChat(_ *cobra.Command, _ []string) error {
	ctx := setupContext()

	telemetryProvider, err := createTelemetryProvider(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() { _ = telemetryProvider.Shutdown(context.Background()) }()

	client := createAssistantClient()
	history, cleanup, err := createHistoryStore()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := client.Health(ctx); err != nil {
		log.Printf("Warning: backend health check failed: %v", err)
	}

	mgr := session.New(client, history)
	mgr.Subscribe(renderEvent)

	fmt.Println("ChicBot — conversational shopping assistant")
	fmt.Println("Type /help for commands, /quit to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "/") {
			if quit := runChatCommand(ctx, mgr, line); quit {
				return nil
			}
			continue
		}

		sendAndPrint(ctx, mgr, line, false)
	}
	return scanner.Err()
}

// runChatCommand handles one /-command. It returns true when the session
// should end.
func runChatCommand(ctx context.Context, mgr *session.Manager, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Println("Commands: /new /list /switch <n> /quick <n> /export /clear /quit")
	case "/new":
		mgr.StartNewConversation(ctx)
		fmt.Println("Started a new conversation.")
	case "/list":
		printConversationList(mgr)
	case "/switch":
		switchByNumber(mgr, arg)
	case "/quick":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > len(quickActions) {
			for i, qa := range quickActions {
				fmt.Printf("  %d. %s\n", i+1, qa)
			}
			break
		}
		sendAndPrint(ctx, mgr, quickActions[n-1], true)
	case "/export":
		conv, ok := mgr.ActiveConversation()
		if !ok {
			fmt.Println("No active conversation.")
			break
		}
		transcript, err := mgr.ExportConversation(conv.ID)
		if err != nil {
			fmt.Printf("Export failed: %v\n", err)
			break
		}
		fmt.Print(transcript)
	case "/clear":
		mgr.ClearAllHistory(ctx)
		fmt.Println("All history cleared.")
	default:
		fmt.Printf("Unknown command %s, try /help\n", cmd)
	}
	return false
}

func sendAndPrint(ctx context.Context, mgr *session.Manager, text string, quick bool) {
	var conv *session.Conversation
	var err error
	if quick {
		conv, err = mgr.SendQuickAction(ctx, text)
	} else {
		conv, err = mgr.SendMessage(ctx, text)
	}
	switch {
	case errors.Is(err, session.ErrEmptyMessage):
		// Whitespace-only input is silently ignored
		return
	case errors.Is(err, session.ErrBusy):
		fmt.Println("Still waiting on the previous message...")
		return
	case err != nil:
		fmt.Printf("Send failed: %v\n", err)
		return
	}

	if len(conv.Messages) > 0 {
		last := conv.Messages[len(conv.Messages)-1]
		if last.Sender == session.SenderAssistant {
			fmt.Printf("ChicBot> %s\n", last.Text)
		}
	}
}

func printConversationList(mgr *session.Manager) {
	conversations := mgr.ListConversations()
	if len(conversations) == 0 {
		fmt.Println("No saved conversations.")
		return
	}
	activeID := ""
	if active, ok := mgr.ActiveConversation(); ok {
		activeID = active.ID
	}
	for i, conv := range conversations {
		marker := " "
		if conv.ID == activeID {
			marker = "*"
		}
		fmt.Printf("%s %2d. %s (%d messages)\n", marker, i+1, conv.Title, len(conv.Messages))
	}
}

func switchByNumber(mgr *session.Manager, arg string) {
	n, err := strconv.Atoi(arg)
	conversations := mgr.ListConversations()
	if err != nil || n < 1 || n > len(conversations) {
		fmt.Println("Usage: /switch <n>, see /list for numbers")
		return
	}
	if err := mgr.SwitchConversation(conversations[n-1].ID); err != nil {
		fmt.Printf("Switch failed: %v\n", err)
		return
	}
	fmt.Printf("Switched to: %s\n", conversations[n-1].Title)
	for _, msg := range mgr.Refresh() {
		label := "you"
		if msg.Sender == session.SenderAssistant {
			label = "ChicBot"
		}
		fmt.Printf("%s> %s\n", label, msg.Text)
	}
}

// renderEvent prints result batches as they arrive. Other event types drive
// richer frontends; the REPL prints replies inline instead.
func renderEvent(ev session.Event) {
	if ev.Type != session.EventResults {
		return
	}
	for _, item := range ev.Results {
		printResultItem(item)
	}
}

func printResultItem(item assistant.ResultItem) {
	fmt.Printf("  • %s — %s %s (%s)\n", item.Name, item.Price.StringFixed(2), item.Currency, item.Color)
	if item.DetailURL != "" {
		fmt.Printf("    %s\n", item.DetailURL)
	}
}
