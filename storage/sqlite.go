// Package storage provides SQLite artifact storage.
//
// Information Hiding:
// - SQLite connection management hidden behind ArtifactStore
// - Schema details encapsulated
// - Thread-safe via sql.DB's built-in connection pooling

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SqliteStore implements ArtifactStore with one row per artifact name.
// Thread-safe: sql.DB handles connection pooling and concurrent access.
type SqliteStore struct {
	db   *sql.DB
	path string
}

// OpenSqlite opens or creates a SQLite database at the given path.
// Creates parent directories if they don't exist.
func OpenSqlite(path string) (*SqliteStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	store := &SqliteStore{db: db, path: path}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// NewSqliteInMemory creates an in-memory database (useful for testing).
func NewSqliteInMemory() (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}
	// Every pooled connection to :memory: would get its own empty database.
	db.SetMaxOpenConns(1)

	store := &SqliteStore{db: db, path: ":memory:"}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS artifacts (
			name TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			size_bytes INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Save upserts the artifact row.
func (s *SqliteStore) Save(ctx context.Context, name string, content any) (Artifact, error) {
	if err := ValidateName(name); err != nil {
		return Artifact{}, err
	}

	data, err := Encode(content)
	if err != nil {
		return Artifact{}, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO artifacts (name, content, size_bytes, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			content = excluded.content,
			size_bytes = excluded.size_bytes,
			updated_at = excluded.updated_at`,
		name, string(data), len(data), time.Now().Unix(),
	)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to save artifact: %w", err)
	}

	return Artifact{
		Name:      name,
		Location:  fmt.Sprintf("sqlite://%s#%s", s.path, name),
		SizeBytes: len(data),
	}, nil
}

// Load returns the stored JSON for name.
func (s *SqliteStore) Load(ctx context.Context, name string) ([]byte, error) {
	var content string
	err := s.db.QueryRowContext(ctx,
		"SELECT content FROM artifacts WHERE name = ?", name,
	).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact: %w", err)
	}
	return []byte(content), nil
}

// List returns stored artifact names starting with prefix.
func (s *SqliteStore) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM artifacts WHERE substr(name, 1, length(?)) = ? ORDER BY name",
		prefix, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan artifact name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

var _ ArtifactStore = (*SqliteStore)(nil)
