package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docshelf/internal/adapters/driven/storage"
	"github.com/custodia-labs/docshelf/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/core/ports/driven"
)

// Store is a SQLite-based storage that provides access to the session
// store through a wrapper type.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docshelf/data/session.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docshelf", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "session.db")

	// WAL keeps readers off the writer's back while a save commits
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SessionStore returns a SessionStore backed by this store.
// maxBytes caps the serialised session; zero or negative disables the cap.
func (s *Store) SessionStore(maxBytes int) driven.SessionStore {
	return &sessionStore{store: s, key: domain.SessionKey, maxBytes: maxBytes, now: time.Now}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Session Store ====================

// sessionStore implements driven.SessionStore as a single keyed entry.
// The entry's generation column is bumped on every save; a save only
// applies while the generation still matches the one this value last saw.
type sessionStore struct {
	store    *Store
	key      string
	maxBytes int
	now      func() time.Time

	mu   sync.Mutex
	seen int64
}

var _ driven.SessionStore = (*sessionStore)(nil)

// Save replaces the session entry. The payload is built in full before
// the write, so an oversized session never reaches the database.
func (s *sessionStore) Save(ctx context.Context, docs []domain.Document) error {
	savedAt := s.now().UTC()
	payload, err := storage.MarshalSession(docs, savedAt, s.maxBytes)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Each statement is its own atomic compare-and-swap, so two processes
	// cannot both succeed from the same generation. Entries written before
	// generations existed sit at 0.
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE session_entries
		SET version = ?, payload = ?, saved_at = ?, generation = generation + 1
		WHERE key = ? AND generation = ?
	`, domain.SessionVersion, string(payload), savedAt, s.key, s.seen)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	if n == 0 && s.seen == 0 {
		res, err = s.store.db.ExecContext(ctx, `
			INSERT INTO session_entries (key, version, payload, saved_at, generation)
			VALUES (?, ?, ?, ?, 1)
			ON CONFLICT(key) DO NOTHING
		`, s.key, domain.SessionVersion, string(payload), savedAt)
		if err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		if n, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
	}
	if n == 0 {
		return fmt.Errorf("saving session at generation %d: %w", s.seen, domain.ErrSessionConflict)
	}
	s.seen++
	return nil
}

// Load returns the saved documents and records the entry's generation,
// even when the payload turns out to be unreadable, so the next save can
// replace it.
func (s *sessionStore) Load(ctx context.Context) ([]domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT payload, generation FROM session_entries WHERE key = ?
	`, s.key)

	var (
		payload    string
		generation int64
	)
	if err := row.Scan(&payload, &generation); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.setSeen(0)
			return nil, domain.ErrNoSession
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	s.setSeen(generation)

	return storage.UnmarshalSession([]byte(payload))
}

// Clear removes the session entry.
func (s *sessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.store.db.ExecContext(ctx, "DELETE FROM session_entries WHERE key = ?", s.key)
	if err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	s.seen = 0
	return nil
}

func (s *sessionStore) setSeen(generation int64) {
	s.mu.Lock()
	s.seen = generation
	s.mu.Unlock()
}
