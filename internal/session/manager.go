package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/chicbot/chicbot/internal/assistant"
)

// Manager is the single entry point for presentation code. It composes the
// conversation store, history persistence, session correlator, and request
// lifecycle controller; all session state is owned here, never in globals,
// so independent instances stay isolated.
type Manager struct {
	store      *Store
	history    HistoryStore
	correlator *Correlator
	controller *Controller

	obsMu     sync.Mutex
	observers []Observer

	now func() time.Time
}

// Option configures a Manager.
type Option func(*managerOptions)

type managerOptions struct {
	now        func() time.Time
	titleLimit int
}

// WithClock substitutes the time source used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *managerOptions) { o.now = now }
}

// WithTitleLimit overrides the rune budget for derived conversation titles.
func WithTitleLimit(limit int) Option {
	return func(o *managerOptions) { o.titleLimit = limit }
}

// New builds a Manager and loads any persisted history. Malformed or missing
// history degrades to the empty state.
func New(client assistant.Client, history HistoryStore, opts ...Option) *Manager {
	options := managerOptions{now: time.Now, titleLimit: DefaultTitleLimit}
	for _, opt := range opts {
		opt(&options)
	}

	m := &Manager{
		store:      NewStore(options.titleLimit),
		history:    history,
		correlator: NewCorrelator(client),
		now:        options.now,
	}
	m.controller = newController(client, m.store, m.correlator, m.persist, m.emit, m.now)

	snap, err := history.Load()
	if err != nil {
		log.Printf("Warning: failed to load history: %v", err)
	} else {
		m.store.restore(snap.Conversations)
		m.correlator.Adopt(snap.SessionToken)
	}
	return m
}

// Subscribe registers an observer for change events.
func (m *Manager) Subscribe(o Observer) {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()
	m.observers = append(m.observers, o)
}

func (m *Manager) emit(ev Event) {
	m.obsMu.Lock()
	observers := make([]Observer, len(m.observers))
	copy(observers, m.observers)
	m.obsMu.Unlock()

	for _, o := range observers {
		o(ev)
	}
}

func (m *Manager) persist() {
	snap := Snapshot{
		Conversations: m.store.snapshot(),
		SessionToken:  m.correlator.Token(),
	}
	if err := m.history.Save(snap); err != nil {
		log.Printf("Warning: failed to persist history: %v", err)
	}
}

// SendMessage sends a typed message through the request lifecycle. Empty
// input returns ErrEmptyMessage; a send while another is in flight returns
// ErrBusy. Both leave state untouched.
func (m *Manager) SendMessage(ctx context.Context, text string) (*Conversation, error) {
	return m.controller.Send(ctx, text)
}

// SendQuickAction sends a canned prompt. It bypasses manual text entry but
// produces the same user message semantics as SendMessage.
func (m *Manager) SendQuickAction(ctx context.Context, text string) (*Conversation, error) {
	return m.controller.Send(ctx, text)
}

// StartNewConversation clears the active pointer and resets the backend
// session best-effort. No conversation becomes active until the next send.
// Idempotent regardless of the reset's outcome.
func (m *Manager) StartNewConversation(ctx context.Context) {
	m.store.ClearActive()
	m.correlator.Reset(ctx)
	m.persist()
	m.emit(Event{Type: EventConversations})
}

// SwitchConversation sets the active pointer. It never cancels an in-flight
// request; a pending reply still lands in its original target.
func (m *Manager) SwitchConversation(id string) error {
	if err := m.store.SetActive(id); err != nil {
		return err
	}
	m.emit(Event{Type: EventConversations, ConversationID: id})
	return nil
}

// ClearAllHistory removes all conversations, resets the backend session
// best-effort, and re-enters the start-new-conversation state. Always
// succeeds locally.
func (m *Manager) ClearAllHistory(ctx context.Context) {
	m.store.RemoveAll()
	m.correlator.Reset(ctx)
	m.persist()
	m.emit(Event{Type: EventConversations})
}

// ListConversations returns all conversations, newest-created-first.
func (m *Manager) ListConversations() []*Conversation {
	return m.store.List()
}

// GetConversation returns the identified conversation.
func (m *Manager) GetConversation(id string) (*Conversation, error) {
	conv, ok := m.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return conv, nil
}

// ActiveConversation returns the active conversation, if any.
func (m *Manager) ActiveConversation() (*Conversation, bool) {
	return m.store.Active()
}

// Busy reports whether a request is in flight.
func (m *Manager) Busy() bool {
	return m.controller.Busy()
}

// Refresh re-reads the active conversation's messages for re-presentation.
// It performs no state change.
func (m *Manager) Refresh() []Message {
	conv, ok := m.store.Active()
	if !ok {
		return nil
	}
	m.emit(Event{Type: EventMessages, ConversationID: conv.ID})
	return conv.Messages
}

// ExportConversation renders the identified conversation as a plain-text
// transcript.
func (m *Manager) ExportConversation(id string) (string, error) {
	conv, ok := m.store.Get(id)
	if !ok {
		return "", ErrNotFound
	}
	created := m.now()
	if len(conv.Messages) > 0 {
		created = conv.Messages[0].Timestamp
	}
	return renderTranscript(conv, created), nil
}
