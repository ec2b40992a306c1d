// Package store provides the SQLite-backed application store. Opening
// the store is idempotent (the schema is created only when missing),
// and a failure here must never prevent server startup: the caller
// logs it and continues degraded.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"skylarkhq/perch/pkg/config"
)

// schema is applied on every open; every statement is idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	username   TEXT NOT NULL UNIQUE,
	password   TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
`

// Store wraps the application database.
type Store struct {
	db        *sql.DB
	path      string
	closeOnce sync.Once
}

// Open opens (creating if necessary) the database at cfg.Path, enables
// WAL mode, and ensures the schema exists.
func Open(cfg config.StoreConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory %q: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %q: %w", cfg.Path, err)
	}

	// modernc.org/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY churn under concurrent request handlers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: cfg.Path}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize store schema: %w", err)
	}
	return nil
}

// Ping verifies the database is reachable. Used as a health check.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Checkpoint flushes the write-ahead log back into the main database
// file. Run periodically by the maintenance scheduler.
func (s *Store) Checkpoint(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)")
	if err != nil {
		return fmt.Errorf("wal checkpoint failed: %w", err)
	}
	return nil
}

// Close closes the database. Safe to call more than once.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.db.Close()
	})
	return err
}

// User is an application account row.
type User struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}

// CreateUser inserts a new user and returns its ID.
func (s *Store) CreateUser(ctx context.Context, username, password string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password) VALUES (?, ?)", username, password)
	if err != nil {
		return 0, fmt.Errorf("failed to create user %q: %w", username, err)
	}
	return res.LastInsertId()
}

// GetUser fetches a user by username. Returns sql.ErrNoRows when the
// user does not exist.
func (s *Store) GetUser(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, created_at FROM users WHERE username = ?", username).
		Scan(&u.ID, &u.Username, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
