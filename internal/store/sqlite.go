package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/desertthunder/spotr/internal/auth"
	"github.com/desertthunder/spotr/internal/shared"
)

// SQLiteStore keeps all profiles in a single SQLite database. Token
// records are stored as their JSON wire shape, so the schema survives
// field additions.
type SQLiteStore struct {
	db *sql.DB
}

const tokensSchema = `
	CREATE TABLE IF NOT EXISTS tokens (
		profile TEXT PRIMARY KEY,
		token TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)
`

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema. The path can be ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(tokensSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Save upserts the token under the profile name.
func (s *SQLiteStore) Save(name string, token *auth.Token) error {
	if err := validateName(name); err != nil {
		return err
	}

	payload, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	query := `
		INSERT INTO tokens (profile, token, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(profile) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, name, string(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Load reads the token saved under the profile name.
func (s *SQLiteStore) Load(name string) (*auth.Token, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	var payload string
	err := s.db.QueryRow(`SELECT token FROM tokens WHERE profile = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: profile %q", shared.ErrTokenNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	return auth.TokenFromJSON([]byte(payload))
}

// Delete removes the saved token. Deleting a missing profile is not an
// error.
func (s *SQLiteStore) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	if _, err := s.db.Exec(`DELETE FROM tokens WHERE profile = ?`, name); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
