// Package history records confirmed launcher actions in a SQLite database.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const currentSchemaVersion = 2

// timeFormat is fixed width so launched_at sorts correctly as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Record is one confirmed action.
type Record struct {
	ID         string
	Kind       string // prefix, math, app or search
	Label      string
	Target     string // URL, exec line or value
	Query      string
	LaunchedAt time.Time
}

// Usage counts how often a target was launched.
type Usage struct {
	Kind   string
	Label  string
	Target string
	Count  int
	Last   time.Time
}

// Recorder stores confirmed actions.
type Recorder interface {
	Record(r Record) error
}

// Store implements Recorder on a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	if version < currentSchemaVersion {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}
	return nil
}

// migrateV1 creates the launches table.
func (s *Store) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS launches (
			id TEXT PRIMARY KEY NOT NULL,
			kind TEXT NOT NULL,
			label TEXT NOT NULL,
			target TEXT NOT NULL,
			launched_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_launches_launched_at ON launches(launched_at);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// migrateV2 keeps the query that led to each launch.
func (s *Store) migrateV2() error {
	migration := `
		ALTER TABLE launches ADD COLUMN query TEXT NOT NULL DEFAULT '';
		CREATE INDEX IF NOT EXISTS idx_launches_target ON launches(target);
		UPDATE schema_version SET version = 2;
	`
	_, err := s.db.Exec(migration)
	return err
}

// Record stores r. A missing ID or time is filled in.
func (s *Store) Record(r Record) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.LaunchedAt.IsZero() {
		r.LaunchedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO launches (id, kind, label, target, query, launched_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, r.Kind, r.Label, r.Target, r.Query, r.LaunchedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("record launch: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT id, kind, label, target, query, launched_at
		FROM launches
		ORDER BY launched_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var r Record
		var launchedAt string
		if err := rows.Scan(&r.ID, &r.Kind, &r.Label, &r.Target, &r.Query, &launchedAt); err != nil {
			return nil, err
		}
		r.LaunchedAt, _ = time.Parse(time.RFC3339Nano, launchedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Top returns the most launched targets, most frequent first.
func (s *Store) Top(limit int) ([]Usage, error) {
	rows, err := s.db.Query(`
		SELECT kind, label, target, COUNT(*) AS n, MAX(launched_at)
		FROM launches
		GROUP BY kind, target
		ORDER BY n DESC, MAX(launched_at) DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usage := []Usage{}
	for rows.Next() {
		var u Usage
		var last string
		if err := rows.Scan(&u.Kind, &u.Label, &u.Target, &u.Count, &last); err != nil {
			return nil, err
		}
		u.Last, _ = time.Parse(time.RFC3339Nano, last)
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

// Clear deletes every record.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM launches")
	return err
}

// DefaultPath returns $XDG_STATE_HOME/sprint/history.db, falling back to
// ~/.local/state/sprint/history.db.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "sprint", "history.db"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "state", "sprint", "history.db"), nil
}
