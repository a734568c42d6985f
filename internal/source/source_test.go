package source

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// TestReadDir tests discovery and ordering of input documents.
func TestReadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "b.json", `{"user_id": "b"}`)
	writeFile(t, dir, "a.JSON", `{"user_id": "a", "count": 12345678901234567}`)
	writeFile(t, dir, "notes.txt", `ignored`)
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0o750); err != nil {
		t.Fatal(err)
	}

	docs, err := ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[0].Name != "a.JSON" || docs[1].Name != "b.json" {
		t.Errorf("unexpected order: %s, %s", docs[0].Name, docs[1].Name)
	}

	body, ok := docs[0].Body.(map[string]any)
	if !ok {
		t.Fatalf("body is %T", docs[0].Body)
	}
	n, ok := body["count"].(json.Number)
	if !ok || n.String() != "12345678901234567" {
		t.Errorf("count = %#v, want exact json.Number", body["count"])
	}
}

// TestReadDirErrors tests the failure cases.
func TestReadDirErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		if _, err := ReadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("no documents", func(t *testing.T) {
		t.Parallel()
		if _, err := ReadDir(t.TempDir()); !errors.Is(err, ErrNoDocuments) {
			t.Errorf("expected ErrNoDocuments, got %v", err)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "bad.json", `{"user_id": `)
		_, err := ReadDir(dir)
		if err == nil || !strings.Contains(err.Error(), "bad.json") {
			t.Errorf("expected decode error naming the file, got %v", err)
		}
	})
}

// TestDecodeTrailingData tests that only one document is accepted.
func TestDecodeTrailingData(t *testing.T) {
	t.Parallel()

	if _, err := Decode(strings.NewReader(`{} {}`)); err == nil {
		t.Error("expected error for trailing data")
	}
	if _, err := Decode(strings.NewReader("{}\n")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
