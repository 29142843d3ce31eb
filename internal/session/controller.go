package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/chicbot/chicbot/internal/assistant"
)

// Fallback assistant messages for the two failure branches. Kept distinct so
// connectivity problems and backend rejections can be told apart.
const (
	transportFallbackText = "Sorry, I'm having trouble connecting to the server. Please try again."
	serverFallbackText    = "Sorry, something went wrong on our end. Please try again in a moment."
)

// Controller drives the Idle -> Sending -> Idle request lifecycle. Sends are
// single-flight: one that arrives while another is in flight is rejected,
// never queued. There are no retries; each user action is one attempt.
type Controller struct {
	client     assistant.Client
	store      *Store
	correlator *Correlator

	persist func()
	emit    func(Event)
	now     func() time.Time

	mu   sync.Mutex
	busy bool
}

func newController(client assistant.Client, store *Store, correlator *Correlator, persist func(), emit func(Event), now func() time.Time) *Controller {
	return &Controller{
		client:     client,
		store:      store,
		correlator: correlator,
		persist:    persist,
		emit:       emit,
		now:        now,
	}
}

// begin is the compare-and-set guard on entering Sending.
func (c *Controller) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.busy = true
	return true
}

func (c *Controller) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
}

// Busy reports whether a request is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Send runs one message through the lifecycle. The assistant reply is always
// appended to the conversation that was active when the send began, even if
// the caller switches threads while the request is in flight. Failure
// branches surface as appended fallback messages, not errors; the returned
// conversation reflects the appended exchange.
func (c *Controller) Send(ctx context.Context, text string) (*Conversation, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}
	if !c.begin() {
		return nil, ErrBusy
	}
	defer c.end()

	// Pin the target conversation now; replies land here regardless of
	// later switches
	targetID := c.store.ActiveID()
	if targetID == "" {
		conv := c.store.Create(trimmed)
		if err := c.store.SetActive(conv.ID); err != nil {
			return nil, err
		}
		targetID = conv.ID
		c.emit(Event{Type: EventConversations, ConversationID: targetID})
	}

	if _, err := c.store.Append(targetID, Message{Text: trimmed, Sender: SenderUser, Timestamp: c.now()}); err != nil {
		return nil, err
	}
	c.persist()
	c.emit(Event{Type: EventMessages, ConversationID: targetID})
	c.emit(Event{Type: EventComposing, ConversationID: targetID})

	// The single suspension point: one outbound call, no retry loop
	resp, err := c.client.Chat(ctx, assistant.ChatRequest{
		Message:      trimmed,
		SessionToken: c.correlator.Token(),
	})

	var replyText string
	var results []assistant.ResultItem
	if err == nil {
		c.correlator.Adopt(resp.SessionToken)
		replyText = resp.Reply
		results = resp.Results
	} else {
		var serverErr *assistant.ServerError
		if errors.As(err, &serverErr) {
			log.Printf("Assistant backend rejected request: %v", err)
			replyText = serverFallbackText
		} else {
			log.Printf("Assistant request failed: %v", err)
			replyText = transportFallbackText
		}
	}

	conv, appendErr := c.store.Append(targetID, Message{Text: replyText, Sender: SenderAssistant, Timestamp: c.now()})
	if appendErr != nil {
		// Target vanished mid-flight (history cleared); nothing to corrupt
		return nil, appendErr
	}
	c.persist()
	c.emit(Event{Type: EventMessages, ConversationID: targetID})
	if err == nil && len(results) > 0 {
		c.emit(Event{Type: EventResults, ConversationID: targetID, Results: results})
	}
	return conv, nil
}
