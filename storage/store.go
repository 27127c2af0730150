// Package storage provides persistence for review artifacts.
//
// Information Hiding:
// - Backend (directory, SQLite, memory) hidden behind ArtifactStore
// - Serialization format fixed here: indented UTF-8 JSON
// - Artifact naming rules enforced in one place

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when an artifact does not exist.
var ErrNotFound = errors.New("artifact not found")

// Artifact describes a persisted document.
type Artifact struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	SizeBytes int    `json:"size_bytes"`
}

// ArtifactStore persists named JSON artifacts. Saving an existing name
// replaces it.
type ArtifactStore interface {
	Save(ctx context.Context, name string, content any) (Artifact, error)
	Load(ctx context.Context, name string) ([]byte, error)
	// List returns the names starting with prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Encode serializes content the way every store writes it.
func Encode(content any) ([]byte, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode artifact: %w", err)
	}
	return data, nil
}

// ValidateName rejects names that could escape a store's namespace.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("artifact name is empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid artifact name %q", name)
	}
	return nil
}
