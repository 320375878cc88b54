// Package sqlite provides a SQLite-based implementation of the session store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// The session lives in a single row of session_entries, keyed by
// domain.SessionKey. Every save replaces that row with a single
// compare-and-swap on its generation column, so processes sharing the data
// directory get domain.ErrSessionConflict instead of overwriting each other.
//
// # Data Location
//
// By default, the database is stored at ~/.docshelf/data/session.db
package sqlite
