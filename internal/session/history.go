package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// HistoryKey is the fixed namespace key durable history is stored under.
const HistoryKey = "chicbot_history"

// Snapshot is the durable portion of session state. The transient busy flag
// is deliberately excluded.
type Snapshot struct {
	Conversations []*Conversation `json:"conversations"`
	SessionToken  string          `json:"sessionToken,omitempty"`
}

// HistoryStore is the persistence port for session state. Load must degrade
// to an empty snapshot on missing or malformed data rather than failing the
// caller; unknown fields in stored records are ignored.
type HistoryStore interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
}

// FileHistoryStore implements HistoryStore as a single JSON document on the
// OS file system.
type FileHistoryStore struct {
	path string
}

func NewFileHistoryStore(path string) FileHistoryStore {
	return FileHistoryStore{path: path}
}

func (f FileHistoryStore) Load() (Snapshot, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		// Nothing stored yet
		return Snapshot{}, nil
	} else if err != nil {
		log.Printf("Warning: failed to read history file %s, starting empty: %v", f.path, err)
		return Snapshot{}, nil
	}

	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		log.Printf("Warning: malformed history in %s, starting empty: %v", f.path, err)
		return Snapshot{}, nil
	}
	return snap, nil
}

func (f FileHistoryStore) Save(snap Snapshot) error {
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	if err := os.WriteFile(f.path, b, 0666); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}
