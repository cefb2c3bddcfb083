// Package sqlite persists trained classifier state in a SQLite database,
// an alternative to the gob model file for deployments that want durable,
// inspectable training data.
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/simplebayes/simplebayes/bayes/category"
)

// Store is a durable home for trained classifier state. Each Save replaces
// the stored model wholesale and records a ULID-identified snapshot row.
type Store struct {
	db      *sql.DB
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Open opens a SQLite database at path with WAL mode enabled, creating the
// schema if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS categories (
	name TEXT PRIMARY KEY,
	trainings INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tokens (
	category TEXT NOT NULL,
	token TEXT NOT NULL,
	weight REAL NOT NULL,
	PRIMARY KEY (category, token),
	FOREIGN KEY (category) REFERENCES categories(name) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	saved_at TEXT NOT NULL
);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Save replaces the stored model with states and returns the new snapshot's
// ULID.
func (s *Store) Save(ctx context.Context, states map[string]category.PersistedCategory) (string, error) {
	s.mu.Lock()
	snapshotID := ulid.MustNew(ulid.Now(), s.entropy).String()
	s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tokens"); err != nil {
		return "", fmt.Errorf("clear tokens: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM categories"); err != nil {
		return "", fmt.Errorf("clear categories: %w", err)
	}

	for name, state := range states {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO categories (name, trainings) VALUES (?, ?)",
			name, state.Trainings,
		); err != nil {
			return "", fmt.Errorf("insert category %q: %w", name, err)
		}
		for token, weight := range state.Tokens {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO tokens (category, token, weight) VALUES (?, ?, ?)",
				name, token, weight,
			); err != nil {
				return "", fmt.Errorf("insert token %q/%q: %w", name, token, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO snapshots (id, saved_at) VALUES (?, ?)",
		snapshotID, time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return "", fmt.Errorf("record snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save: %w", err)
	}
	return snapshotID, nil
}

// Load returns the stored model and the latest snapshot ID. An empty store
// yields an empty state map and an empty ID.
func (s *Store) Load(ctx context.Context) (map[string]category.PersistedCategory, string, error) {
	states := make(map[string]category.PersistedCategory)

	rows, err := s.db.QueryContext(ctx, "SELECT name, trainings FROM categories")
	if err != nil {
		return nil, "", fmt.Errorf("load categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var trainings int
		if err := rows.Scan(&name, &trainings); err != nil {
			return nil, "", fmt.Errorf("scan category: %w", err)
		}
		states[name] = category.PersistedCategory{
			Tokens:    make(map[string]float64),
			Trainings: trainings,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("load categories: %w", err)
	}

	tokenRows, err := s.db.QueryContext(ctx, "SELECT category, token, weight FROM tokens")
	if err != nil {
		return nil, "", fmt.Errorf("load tokens: %w", err)
	}
	defer tokenRows.Close()
	for tokenRows.Next() {
		var name, token string
		var weight float64
		if err := tokenRows.Scan(&name, &token, &weight); err != nil {
			return nil, "", fmt.Errorf("scan token: %w", err)
		}
		state, ok := states[name]
		if !ok {
			return nil, "", fmt.Errorf("token %q references unknown category %q", token, name)
		}
		state.Tokens[token] = weight
	}
	if err := tokenRows.Err(); err != nil {
		return nil, "", fmt.Errorf("load tokens: %w", err)
	}

	// ULIDs sort lexicographically by creation time.
	var snapshotID string
	err = s.db.QueryRowContext(ctx, "SELECT id FROM snapshots ORDER BY id DESC LIMIT 1").Scan(&snapshotID)
	if err != nil && err != sql.ErrNoRows {
		return nil, "", fmt.Errorf("load snapshot: %w", err)
	}

	return states, snapshotID, nil
}
