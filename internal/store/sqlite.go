package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS selection_state (
    namespace  TEXT PRIMARY KEY,
    payload    TEXT NOT NULL CHECK(json_valid(payload)),
    updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);
`

// SQLiteBackend keeps the selection record in a SQLite database.
type SQLiteBackend struct {
	db        *sql.DB
	namespace string
}

// OpenSQLite opens or creates the database at dbPath and initializes the schema.
func OpenSQLite(dbPath, namespace string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &SQLiteBackend{db: db, namespace: namespace}, nil
}

func (b *SQLiteBackend) Load(ctx context.Context) (State, error) {
	var payload string
	err := b.db.QueryRowContext(ctx, `
		SELECT payload FROM selection_state WHERE namespace = ?
	`, b.namespace).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to load selection state: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return State{}, fmt.Errorf("failed to decode selection state: %w", err)
	}
	return state, nil
}

func (b *SQLiteBackend) Save(ctx context.Context, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode selection state: %w", err)
	}

	_, err = b.db.ExecContext(ctx, `
		INSERT INTO selection_state (namespace, payload)
		VALUES (?, ?)
		ON CONFLICT(namespace) DO UPDATE SET
			payload = excluded.payload,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now')
	`, b.namespace, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save selection state: %w", err)
	}
	return nil
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
