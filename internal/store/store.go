// Package store persists run history in SQLite and the JSON artifacts a
// run produces.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex // Protects all database operations
}

// Run is one ledger row describing a pipeline invocation.
type Run struct {
	ID              string
	Mode            string // "run", "collect", "analyze"
	StartedAt       time.Time
	FinishedAt      time.Time
	SignalsAnalyzed int
	Narratives      int
	Status          string
	Model           string
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	// Build connection string based on database type
	connStr := dbPath
	if dbPath == ":memory:" {
		// For in-memory databases, use shared cache mode so all connections
		// in the pool see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// For in-memory databases, limit to 1 connection to avoid issues
	// with multiple connections getting different databases
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Enable WAL mode for file-based databases (not :memory:)
	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// createTables creates the required tables and indexes if they don't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		signals_analyzed INTEGER DEFAULT 0,
		narratives INTEGER DEFAULT 0,
		status TEXT,
		model TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// RecordRun appends one run to the ledger.
// Thread-safe: acquires write lock.
func (s *Store) RecordRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO runs (id, mode, started_at, finished_at, signals_analyzed, narratives, status, model)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Mode,
		run.StartedAt,
		run.FinishedAt,
		run.SignalsAnalyzed,
		run.Narratives,
		run.Status,
		run.Model,
	)
	return err
}

// RecentRuns returns the most recent runs, newest first.
// Thread-safe: acquires read lock.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, mode, started_at, finished_at, signals_analyzed, narratives, status, model
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var status, model sql.NullString
		err := rows.Scan(
			&run.ID,
			&run.Mode,
			&run.StartedAt,
			&run.FinishedAt,
			&run.SignalsAnalyzed,
			&run.Narratives,
			&status,
			&model,
		)
		if err != nil {
			return nil, err
		}
		run.Status = status.String
		run.Model = model.String
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// RunCount returns the total number of recorded runs.
// Thread-safe: acquires read lock.
func (s *Store) RunCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}
