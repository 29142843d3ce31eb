// Package session owns conversation and message state, durable
// multi-conversation history, and the request lifecycle toward the ChicBot
// assistant backend.
package session

import (
	"errors"
	"time"

	"github.com/chicbot/chicbot/internal/assistant"
)

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is immutable once created.
type Message struct {
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is one ordered, independently addressable thread of messages.
// Messages are append-only and never reordered. Title is a snapshot of the
// first message, fixed at creation.
type Conversation struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

func (c *Conversation) clone() *Conversation {
	out := &Conversation{ID: c.ID, Title: c.Title}
	if c.Messages != nil {
		out.Messages = make([]Message, len(c.Messages))
		copy(out.Messages, c.Messages)
	}
	return out
}

var (
	// ErrNotFound indicates an operation referenced a missing conversation.
	ErrNotFound = errors.New("conversation not found")
	// ErrBusy indicates a request is already in flight; sends are
	// single-flight, never queued.
	ErrBusy = errors.New("a request is already in flight")
	// ErrEmptyMessage indicates the input was empty after trimming.
	ErrEmptyMessage = errors.New("message is empty")
)

// EventType classifies change notifications emitted to observers.
type EventType string

const (
	// EventConversations signals the conversation list or active pointer changed.
	EventConversations EventType = "conversations"
	// EventMessages signals messages were appended to a conversation.
	EventMessages EventType = "messages"
	// EventComposing signals a request entered the Sending state.
	EventComposing EventType = "composing"
	// EventResults carries a renderable batch of result items, emitted after
	// the assistant text message they accompany.
	EventResults EventType = "results"
)

// Event is a typed change notification. Observers must not block.
type Event struct {
	Type           EventType
	ConversationID string
	Results        []assistant.ResultItem
}

// Observer receives change events from a Manager.
type Observer func(Event)
