// Package source reads raw export documents from disk.
//
// Documents are decoded into the generic structure of encoding/json with
// UseNumber, so integer counts keep their exact textual value until
// validation.
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoDocuments is returned when a directory holds no *.json file.
var ErrNoDocuments = errors.New("no JSON documents found")

// Document is one decoded input document.
type Document struct {
	// Name is the file name the document was read from.
	Name string
	// Body is the decoded, untyped document.
	Body any
}

// ReadDir decodes every *.json file directly inside dir, sorted by name.
func ReadDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDocuments, dir)
	}
	sort.Strings(names)

	docs := make([]Document, 0, len(names))
	for _, name := range names {
		doc, err := ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ReadFile decodes one JSON document.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	body, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Document{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return Document{Name: filepath.Base(path), Body: body}, nil
}

// Decode reads exactly one JSON value from r.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after the JSON document")
	}
	return body, nil
}
