package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONFile writes one JSON document to a fixed path. It is the proof sink
// of a refinement run.
type JSONFile struct {
	path string
}

// NewJSONFile returns a sink writing to path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the destination path.
func (f *JSONFile) Path() string {
	return f.path
}

// SaveProof writes proof as indented JSON with owner-only permissions.
// Map keys are written in sorted order.
func (f *JSONFile) SaveProof(ctx context.Context, proof map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := MarshalIndent(proof)
	if err != nil {
		return fmt.Errorf("failed to encode proof: %w", err)
	}
	return f.write(data)
}

// SaveJSON writes any JSON-encodable value.
func (f *JSONFile) SaveJSON(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := MarshalIndent(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(f.path), err)
	}
	return f.write(data)
}

func (f *JSONFile) write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	return nil
}

// MarshalIndent encodes v with two-space indentation, no HTML escaping and
// a trailing newline.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
