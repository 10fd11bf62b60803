package snippets

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	// Create temp directory for test
	tempDir, err := os.MkdirTemp("", "snippets-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	store, err := New(filepath.Join(tempDir, "snippets.db"))
	if err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("failed to create store: %v", err)
	}

	cleanup := func() {
		os.RemoveAll(tempDir)
	}

	return store, cleanup
}

func TestStore_BasicOperations(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	// Test Save
	snippet, err := store.Save("func main() {}")
	if err != nil {
		t.Fatalf("failed to save snippet: %v", err)
	}
	if snippet.ID == "" {
		t.Error("snippet ID should not be empty")
	}
	if snippet.Content != "func main() {}" {
		t.Errorf("content mismatch: got %q", snippet.Content)
	}

	// Test List
	snippets, err := store.List(10)
	if err != nil {
		t.Fatalf("failed to list snippets: %v", err)
	}
	if len(snippets) != 1 {
		t.Errorf("expected 1 snippet, got %d", len(snippets))
	}

	// Test Delete
	if err := store.Delete(snippet.ID); err != nil {
		t.Fatalf("failed to delete snippet: %v", err)
	}

	snippets, err = store.List(10)
	if err != nil {
		t.Fatalf("failed to list snippets: %v", err)
	}
	if len(snippets) != 0 {
		t.Errorf("expected 0 snippets after delete, got %d", len(snippets))
	}
}

func TestStore_Deduplication(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	first, err := store.Save("duplicate content")
	if err != nil {
		t.Fatalf("failed to save first snippet: %v", err)
	}

	// Small delay to ensure different timestamps
	time.Sleep(time.Millisecond * 100)

	second, err := store.Save("duplicate content")
	if err != nil {
		t.Fatalf("failed to save second snippet: %v", err)
	}

	if first.ID != second.ID {
		t.Error("deduplication failed: got different IDs for same content")
	}

	snippets, err := store.List(0)
	if err != nil {
		t.Fatalf("failed to list snippets: %v", err)
	}
	if len(snippets) != 1 {
		t.Errorf("expected 1 snippet, got %d", len(snippets))
	}
}

func TestStore_DeleteMissing(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if err := store.Delete("999"); err == nil {
		t.Error("expected error deleting missing snippet")
	}
}
