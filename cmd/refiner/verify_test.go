package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/refiner/internal/proof"
	"github.com/nao1215/refiner/internal/source"
	"github.com/nao1215/refiner/internal/validate"
)

// writeProofFor generates the proof of body and writes it, after mutate, to dir.
func writeProofFor(t *testing.T, dir, body string, mutate func(map[string]any)) (exportPath, proofPath string) {
	t.Helper()

	exportPath = filepath.Join(dir, "export.json")
	if err := os.WriteFile(exportPath, []byte(body), 0600); err != nil {
		t.Fatalf("write export: %v", err)
	}

	doc, err := source.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	export, err := validate.Export(doc.Body)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	p, err := proof.NewGenerator().Generate(export)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	m := p.Map()
	if mutate != nil {
		mutate(m)
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal proof: %v", err)
	}
	proofPath = filepath.Join(dir, "proof.json")
	if err := os.WriteFile(proofPath, data, 0600); err != nil {
		t.Fatalf("write proof: %v", err)
	}
	return exportPath, proofPath
}

func TestVerifyCmd(t *testing.T) {
	t.Parallel()

	t.Run("matching proof", func(t *testing.T) {
		t.Parallel()

		exportPath, proofPath := writeProofFor(t, t.TempDir(), aliceExport, nil)
		out, err := run(t, "verify", "-e", exportPath, "-p", proofPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "verification_method: api_scraping") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("tampered proof lists every mismatch", func(t *testing.T) {
		t.Parallel()

		exportPath, proofPath := writeProofFor(t, t.TempDir(), aliceExport, func(m map[string]any) {
			m["total_posts"] = 3
			m["posts_hash"] = "0000"
		})
		out, err := run(t, "verify", "-e", exportPath, "-p", proofPath)
		if !errors.Is(err, proof.ErrMismatch) {
			t.Fatalf("expected ErrMismatch, got %v", err)
		}
		for _, field := range []string{"total_posts", "posts_hash"} {
			if !strings.Contains(out, field) {
				t.Errorf("expected %s in output:\n%s", field, out)
			}
		}
	})

	t.Run("invalid export", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		_, proofPath := writeProofFor(t, dir, aliceExport, nil)
		bad := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(bad, []byte(`{"user_id": 1}`), 0600); err != nil {
			t.Fatalf("write: %v", err)
		}

		_, err := run(t, "verify", "-e", bad, "-p", proofPath)
		if !errors.Is(err, validate.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("export flag is required", func(t *testing.T) {
		t.Parallel()
		if _, err := run(t, "verify"); err == nil {
			t.Error("expected an error without --export")
		}
	})

	t.Run("unreadable proof", func(t *testing.T) {
		t.Parallel()

		exportPath, _ := writeProofFor(t, t.TempDir(), aliceExport, nil)
		_, err := run(t, "verify", "-e", exportPath, "-p", filepath.Join(t.TempDir(), "missing.json"))
		if err == nil || !strings.Contains(err.Error(), "failed to read proof") {
			t.Errorf("expected read error, got %v", err)
		}
	})
}
