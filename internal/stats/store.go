package stats

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DBFileName is the database file created inside the data directory
const DBFileName = "stats.db"

// ErrSessionNotFound is returned for an unknown session id
var ErrSessionNotFound = errors.New("session not found")

// Store persists widget history using SQLite
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the database at dbPath
func NewStore(dbPath string) (*Store, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// initSchema creates the database tables if they don't exist
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		ended_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS bursts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		at TIMESTAMP NOT NULL,
		pulses INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS repairs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		at TIMESTAMP NOT NULL,
		path TEXT NOT NULL,
		backup_path TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bursts_at ON bursts(at);
	CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// StartSession records the start of a new application session
func (s *Store) StartSession() (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO sessions (id, started_at) VALUES (?, ?)",
		id,
		time.Now(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// EndSession marks a session as ended
func (s *Store) EndSession(sessionID string) error {
	result, err := s.db.Exec(
		"UPDATE sessions SET ended_at = ? WHERE id = ?",
		time.Now(),
		sessionID,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// SessionStartedAt returns when the session with the given id started
func (s *Store) SessionStartedAt(sessionID string) (time.Time, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return time.Time{}, err
	}
	return session.StartedAt, nil
}

// getSession returns a session by id
func (s *Store) getSession(sessionID string) (*Session, error) {
	var session Session
	var endedAt sql.NullTime
	err := s.db.QueryRow(
		"SELECT id, started_at, ended_at FROM sessions WHERE id = ?",
		sessionID,
	).Scan(&session.ID, &session.StartedAt, &endedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, err
	}
	if endedAt.Valid {
		session.EndedAt = &endedAt.Time
	}
	return &session, nil
}

// RecordBurst records a completed blink burst
func (s *Store) RecordBurst(sessionID string, pulses int) error {
	_, err := s.db.Exec(
		"INSERT INTO bursts (session_id, at, pulses) VALUES (?, ?, ?)",
		sessionID,
		time.Now(),
		pulses,
	)
	return err
}

// BurstsSince counts bursts recorded at or after since
func (s *Store) BurstsSince(since time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM bursts WHERE at >= ?",
		since,
	).Scan(&count)
	return count, err
}

// RecordRepair records a regenerated settings file
func (s *Store) RecordRepair(path, backupPath string) error {
	_, err := s.db.Exec(
		"INSERT INTO repairs (at, path, backup_path) VALUES (?, ?, ?)",
		time.Now(),
		path,
		backupPath,
	)
	return err
}

// GetRepairs returns every recorded repair, newest first
func (s *Store) GetRepairs() ([]Repair, error) {
	rows, err := s.db.Query(
		"SELECT id, at, path, backup_path FROM repairs ORDER BY at DESC, id DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repairs []Repair
	for rows.Next() {
		var r Repair
		if err := rows.Scan(&r.ID, &r.At, &r.Path, &r.BackupPath); err != nil {
			return nil, err
		}
		repairs = append(repairs, r)
	}

	return repairs, rows.Err()
}
