package session

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// DefaultTitleLimit is the rune budget for conversation titles derived from
// the first message.
const DefaultTitleLimit = 30

// Store is the in-memory authoritative model of all conversations and the
// active pointer. All methods are safe for concurrent use; accessors return
// deep copies so state stays readable while a request is in flight.
type Store struct {
	mu            sync.RWMutex
	conversations []*Conversation // newest-created-first
	index         map[string]*Conversation
	activeID      string
	titleLimit    int
}

func NewStore(titleLimit int) *Store {
	if titleLimit <= 0 {
		titleLimit = DefaultTitleLimit
	}
	return &Store{
		index:      make(map[string]*Conversation),
		titleLimit: titleLimit,
	}
}

// Create adds a new conversation whose title is a truncation of seed, and
// returns a copy of it. The title is computed once here and never recomputed.
func (s *Store) Create(seed string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := &Conversation{
		ID:    uuid.New().String(),
		Title: truncateTitle(seed, s.titleLimit),
	}
	s.conversations = append([]*Conversation{conv}, s.conversations...)
	s.index[conv.ID] = conv
	return conv.clone()
}

// Append adds a message to the identified conversation and returns a copy of
// the updated conversation.
func (s *Store) Append(id string, msg Message) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.index[id]
	if !ok {
		return nil, ErrNotFound
	}
	conv.Messages = append(conv.Messages, msg)
	return conv.clone(), nil
}

// Get returns a copy of the identified conversation.
func (s *Store) Get(id string) (*Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return conv.clone(), true
}

// List returns copies of all conversations, newest-created-first.
func (s *Store) List() []*Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Conversation, len(s.conversations))
	for i, conv := range s.conversations {
		out[i] = conv.clone()
	}
	return out
}

// RemoveAll clears all conversations and the active pointer.
func (s *Store) RemoveAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = nil
	s.index = make(map[string]*Conversation)
	s.activeID = ""
}

// ActiveID returns the active conversation's ID, or "" when none is active.
func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Active returns a copy of the active conversation.
func (s *Store) Active() (*Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.index[s.activeID]
	if !ok {
		return nil, false
	}
	return conv.clone(), true
}

// SetActive points the store at an existing conversation.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		return ErrNotFound
	}
	s.activeID = id
	return nil
}

// ClearActive unsets the active pointer; no conversation is active until the
// next send creates or targets one.
func (s *Store) ClearActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = ""
}

// snapshot returns a deep copy of all conversations for persistence.
func (s *Store) snapshot() []*Conversation {
	return s.List()
}

// restore replaces the store's contents with previously persisted
// conversations. The active pointer is left unset; it is not durable.
func (s *Store) restore(conversations []*Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = nil
	s.index = make(map[string]*Conversation)
	s.activeID = ""
	for _, conv := range conversations {
		if conv == nil || conv.ID == "" {
			continue
		}
		c := conv.clone()
		s.conversations = append(s.conversations, c)
		s.index[c.ID] = c
	}
}

func truncateTitle(seed string, limit int) string {
	seed = strings.TrimSpace(seed)
	runes := []rune(seed)
	if len(runes) <= limit {
		return seed
	}
	return string(runes[:limit]) + "..."
}
