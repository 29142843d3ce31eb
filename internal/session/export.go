package session

import (
	"fmt"
	"strings"
	"time"
)

const (
	assistantName    = "ChicBot"
	userLabel        = "You"
	separatorWidth   = 50
	exportTimeLayout = "January 2, 2006 at 3:04 PM"
)

// renderTranscript produces the fixed-format plain-text transcript: a title
// line, a date line, a separator, then one block per message in conversation
// order.
func renderTranscript(conv *Conversation, created time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Conversation - %s\n", assistantName, conv.Title)
	fmt.Fprintf(&b, "Date: %s\n", created.Format(exportTimeLayout))
	b.WriteString(strings.Repeat("=", separatorWidth))
	b.WriteString("\n")
	for _, msg := range conv.Messages {
		label := userLabel
		if msg.Sender == SenderAssistant {
			label = assistantName
		}
		fmt.Fprintf(&b, "%s: %s\n\n", label, msg.Text)
	}
	return b.String()
}
