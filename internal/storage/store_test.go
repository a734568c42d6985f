package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestLocalStorePut tests content addressing of stored blobs.
func TestLocalStorePut(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewLocalStore(dir, "https://gateway.example.com/ipfs/")
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}

	ctx := context.Background()
	h1, err := store.Put(ctx, "schema", []byte(`{"name":"instagram"}`))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	h2, err := store.Put(ctx, "schema-again", []byte(`{"name":"instagram"}`))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if h1.CID != h2.CID {
		t.Errorf("same bytes produced different CIDs: %s vs %s", h1.CID, h2.CID)
	}
	if !strings.HasPrefix(h1.CID, "bafkrei") {
		t.Errorf("expected a CIDv1 raw/sha2-256 identifier, got %s", h1.CID)
	}
	if h1.URL != "https://gateway.example.com/ipfs/"+h1.CID {
		t.Errorf("URL = %s", h1.URL)
	}
	if h1.Name != "schema" || h1.Size != int64(len(`{"name":"instagram"}`)) {
		t.Errorf("unexpected handle: %+v", h1)
	}
	if _, err := os.Stat(filepath.Join(dir, h1.CID)); err != nil {
		t.Errorf("blob not written: %v", err)
	}

	h3, err := store.Put(ctx, "other", []byte("different"))
	if err != nil {
		t.Fatal(err)
	}
	if h3.CID == h1.CID {
		t.Error("different bytes produced the same CID")
	}
}

// TestLocalStoreGet tests reading blobs back with integrity checks.
func TestLocalStoreGet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewLocalStore(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	h, err := store.Put(ctx, "proof", []byte("proof bytes"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(h.URL, "file://") {
		t.Errorf("expected a file URL without gateway, got %s", h.URL)
	}

	got, err := store.Get(ctx, h.CID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "proof bytes" {
		t.Errorf("Get() = %q", got)
	}

	missing, err := Sum([]byte("never stored"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, missing.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, h.CID), []byte("tampered"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, h.CID); !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}

	if _, err := store.Get(ctx, "not-a-cid"); err == nil {
		t.Error("expected error for invalid CID")
	}
}

// TestLocalStoreCanceled tests that a canceled context stops Put.
func TestLocalStoreCanceled(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStore(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Put(ctx, "x", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// TestJSONFileSaveProof tests the proof sink.
func TestJSONFileSaveProof(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "proof.json")
	sink := NewJSONFile(path)

	proof := map[string]any{
		"user_id":          "u1",
		"confidence_score": 0.6,
		"posts_hash":       "abc",
	}
	if err := sink.SaveProof(context.Background(), proof); err != nil {
		t.Fatalf("SaveProof() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("permissions = %o, want 600", perm)
	}

	data, err := os.ReadFile(path) //nolint:gosec // test file
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"confidence_score\": 0.6,\n  \"posts_hash\": \"abc\",\n  \"user_id\": \"u1\"\n}\n"
	if string(data) != want {
		t.Errorf("file content = %q, want %q", data, want)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Errorf("written proof is not valid JSON: %v", err)
	}
}
