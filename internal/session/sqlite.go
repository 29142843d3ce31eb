package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteHistoryStore implements HistoryStore on a sqlite database. The whole
// snapshot lives in a single row keyed by HistoryKey, matching the one-record
// persisted layout.
type SQLiteHistoryStore struct {
	db *sql.DB
}

func NewSQLiteHistoryStore(path string) (*SQLiteHistoryStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	store := &SQLiteHistoryStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to init history schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteHistoryStore) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS history (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteHistoryStore) Load() (Snapshot, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM history WHERE key = ?`, HistoryKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		// Nothing stored yet
		return Snapshot{}, nil
	} else if err != nil {
		log.Printf("Warning: failed to read history row, starting empty: %v", err)
		return Snapshot{}, nil
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		log.Printf("Warning: malformed history record, starting empty: %v", err)
		return Snapshot{}, nil
	}
	return snap, nil
}

func (s *SQLiteHistoryStore) Save(snap Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	_, err = s.db.Exec(`
INSERT INTO history (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		HistoryKey, string(b), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write history row: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteHistoryStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
