package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dhr613/Location-QA-Assistant/internal/conv"
)

// Thread is one stored conversation.
type Thread struct {
	ID        string
	Title     string
	Mode      string
	State     *conv.State
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ThreadStore persists conversation threads.
type ThreadStore interface {
	Save(t *Thread) error
	Load(id string) (*Thread, error)
	List() ([]*Thread, error)
	Delete(id string) error
}

// ErrThreadNotFound is returned by Load for an unknown thread ID.
var ErrThreadNotFound = fmt.Errorf("thread not found")

// NewThread creates a fresh thread with an empty state.
func NewThread(title, mode string) *Thread {
	now := time.Now()
	return &Thread{
		ID:        uuid.New().String(),
		Title:     title,
		Mode:      mode,
		State:     conv.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Save upserts a thread, serializing its state as JSON.
func (db *DB) Save(t *Thread) error {
	stateJSON, err := json.Marshal(t.State)
	if err != nil {
		return fmt.Errorf("encode thread state: %w", err)
	}
	t.UpdatedAt = time.Now()

	db.mu.Lock()
	defer db.mu.Unlock()
	_, err = db.conn.Exec(`
		INSERT INTO threads (id, title, mode, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			mode = excluded.mode,
			state = excluded.state,
			updated_at = excluded.updated_at
	`, t.ID, t.Title, t.Mode, string(stateJSON), formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save thread: %w", err)
	}
	return nil
}

// Load fetches one thread by ID.
func (db *DB) Load(id string) (*Thread, error) {
	db.mu.RLock()
	row := db.conn.QueryRow(`
		SELECT id, title, mode, state, created_at, updated_at
		FROM threads WHERE id = ?
	`, id)
	db.mu.RUnlock()

	t, err := scanThread(row)
	if err == sql.ErrNoRows {
		return nil, ErrThreadNotFound
	}
	return t, err
}

// List returns all threads, most recently updated first. States are loaded
// in full; the thread count stays small for a local assistant.
func (db *DB) List() ([]*Thread, error) {
	db.mu.RLock()
	rows, err := db.conn.Query(`
		SELECT id, title, mode, state, created_at, updated_at
		FROM threads ORDER BY updated_at DESC
	`)
	db.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	defer rows.Close()

	var threads []*Thread
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

// Delete removes one thread.
func (db *DB) Delete(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.conn.Exec("DELETE FROM threads WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanThread(row rowScanner) (*Thread, error) {
	var (
		t         Thread
		stateJSON string
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Mode, &stateJSON, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan thread: %w", err)
	}

	t.State = conv.NewState()
	if err := json.Unmarshal([]byte(stateJSON), t.State); err != nil {
		return nil, fmt.Errorf("decode thread state: %w", err)
	}

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &t, nil
}
