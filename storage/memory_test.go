package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	artifact, err := store.Save(ctx, "p1_assessment.json", map[string]string{"k": "v"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if artifact.Location != "memory://p1_assessment.json" {
		t.Errorf("unexpected location %q", artifact.Location)
	}

	data, err := store.Load(ctx, "p1_assessment.json")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(data) != artifact.SizeBytes {
		t.Errorf("expected %d bytes, got %d", artifact.SizeBytes, len(data))
	}

	// Mutating the returned slice must not affect the store.
	data[0] = 'X'
	again, _ := store.Load(ctx, "p1_assessment.json")
	if again[0] == 'X' {
		t.Error("store returned shared slice")
	}
}

func TestMemoryStoreRejectsBadNames(t *testing.T) {
	store := NewMemoryStore()
	for _, name := range []string{"", "../x.json", "a/b.json", ".."} {
		if _, err := store.Save(context.Background(), name, 1); err == nil {
			t.Errorf("expected error for name %q", name)
		}
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d", store.Len())
	}
}

func TestMemoryStoreLoadMissing(t *testing.T) {
	_, err := NewMemoryStore().Load(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
