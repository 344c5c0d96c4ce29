// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mohanganesh3/fitplanner/pkg/types"
)

// SQLiteStore persists profiles in a SQLite database. Each profile is one
// row holding the JSON-encoded record; Put is an upsert that replaces the
// record in a single statement.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the profile database at dbPath, creating
// parent directories and the schema as needed.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		record TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Get returns the stored profile, or an empty one for unknown users.
func (s *SQLiteStore) Get(ctx context.Context, userID string) (types.Profile, error) {
	var record string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM profiles WHERE user_id = ?`, userID,
	).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Profile{}, nil
	}
	if err != nil {
		return types.Profile{}, fmt.Errorf("reading profile %s: %w", userID, err)
	}

	var p types.Profile
	if err := json.Unmarshal([]byte(record), &p); err != nil {
		return types.Profile{}, fmt.Errorf("decoding profile %s: %w", userID, err)
	}
	return p, nil
}

// Put replaces the user's profile.
func (s *SQLiteStore) Put(ctx context.Context, userID string, p types.Profile) error {
	record, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile %s: %w", userID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, record, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET record=excluded.record, updated_at=excluded.updated_at`,
		userID, string(record), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing profile %s: %w", userID, err)
	}
	return nil
}
