package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/refiner/internal/config"
	"github.com/nao1215/refiner/internal/crypt"
	"github.com/nao1215/refiner/internal/model"
	"github.com/nao1215/refiner/internal/validate"
)

// TestNewRefineCmd tests the refine command creation.
func TestNewRefineCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRefineCmd()

	tests := []struct {
		flag      string
		shorthand string
		def       string
	}{
		{"input", "i", config.DefaultInputDir},
		{"output", "O", config.DefaultOutputDir},
		{"config", "c", ""},
		{"json", "j", "false"},
		{"markdown", "m", "false"},
		{"report", "r", ""},
		{"concurrency", "", "4"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tt.flag)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.flag)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.def {
				t.Errorf("expected default %q, got %q", tt.def, flag.DefValue)
			}
		})
	}
}

// TestRefine runs a full refinement and checks every artifact it leaves behind.
func TestRefine(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "correct-horse-battery-staple")
	env.addDocument(t, "alice.json", aliceExport)

	stdout, err := run(t, env.refineArgs()...)
	if err != nil {
		t.Fatalf("refine failed: %v", err)
	}

	t.Run("writes a readable report", func(t *testing.T) {
		t.Parallel()
		if !strings.Contains(stdout, "REFINEMENT REPORT") {
			t.Errorf("expected report on stdout, got:\n%s", stdout)
		}
		if strings.Contains(stdout, "see you at noon") || strings.Contains(stdout, "Alice Doe") {
			t.Errorf("report leaks clear-text export content:\n%s", stdout)
		}
	})

	t.Run("writes the output files", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"db.libsql", schemaFileName, proofFileName, outputFileName} {
			if _, err := os.Stat(filepath.Join(env.output, name)); err != nil {
				t.Errorf("expected %s: %v", name, err)
			}
		}
	})

	t.Run("proof describes the export", func(t *testing.T) {
		t.Parallel()
		p, err := readProof(filepath.Join(env.output, proofFileName))
		if err != nil {
			t.Fatalf("readProof: %v", err)
		}
		if p.UserID != "1001" || p.TotalPosts != 2 || p.TotalComments != 1 || p.TotalDMs != 1 {
			t.Errorf("unexpected proof: %+v", p)
		}
		if p.ProofType != model.ProofType {
			t.Errorf("ProofType = %q", p.ProofType)
		}
	})

	t.Run("output points at the sealed database", func(t *testing.T) {
		t.Parallel()

		data, err := os.ReadFile(filepath.Join(env.output, outputFileName))
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		var out model.Output
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("decode output: %v", err)
		}
		if out.Schema == nil || out.Schema.Dialect != "sqlite" {
			t.Errorf("unexpected schema: %+v", out.Schema)
		}
		if !strings.HasPrefix(out.RefinementURL, "file://") {
			t.Fatalf("expected file:// URL, got %q", out.RefinementURL)
		}

		sealed, err := os.ReadFile(strings.TrimPrefix(out.RefinementURL, "file://"))
		if err != nil {
			t.Fatalf("read sealed database: %v", err)
		}
		if !crypt.IsSealed(sealed) {
			t.Fatal("published database is not sealed")
		}

		sealer, err := crypt.NewSealer("correct-horse-battery-staple")
		if err != nil {
			t.Fatalf("NewSealer: %v", err)
		}
		t.Cleanup(sealer.Close)

		plain, err := sealer.Open(sealed)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if !bytes.HasPrefix(plain, []byte("SQLite format 3\x00")) {
			t.Error("decrypted artifact is not a SQLite database")
		}
	})

	t.Run("verify accepts the proof", func(t *testing.T) {
		t.Parallel()
		out, err := run(t, "verify",
			"--export", filepath.Join(env.input, "alice.json"),
			"--proof", filepath.Join(env.output, proofFileName),
		)
		if err != nil {
			t.Fatalf("verify failed: %v\n%s", err, out)
		}
		if !strings.Contains(out, "Proof verified") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("stats reads the database", func(t *testing.T) {
		t.Parallel()
		out, err := run(t, "stats", "-O", env.output, "--json")
		if err != nil {
			t.Fatalf("stats failed: %v", err)
		}
		var stats []userStats
		if err := json.Unmarshal([]byte(out), &stats); err != nil {
			t.Fatalf("decode stats: %v\n%s", err, out)
		}
		if len(stats) != 1 || stats[0].UserID != "1001" {
			t.Fatalf("unexpected stats: %+v", stats)
		}
		if stats[0].Counts[model.TablePosts] != 2 || stats[0].Counts[model.TableMedia] != 1 {
			t.Errorf("unexpected counts: %v", stats[0].Counts)
		}
	})
}

// TestRefine_InvalidDocument tests that one invalid document fails the run
// and nothing is published.
func TestRefine_InvalidDocument(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "secret")
	env.addDocument(t, "a.json", aliceExport)
	env.addDocument(t, "b.json", `{"user_id": "2002", "profile": {}, "posts": "nope"}`)

	stdout, err := run(t, env.refineArgs()...)
	if err == nil {
		t.Fatal("expected refine to fail")
	}
	if !errors.Is(err, validate.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "b.json") {
		t.Errorf("expected the failing document name in %q", err)
	}
	if !strings.Contains(stdout, "FAILED") {
		t.Errorf("expected a failed report, got:\n%s", stdout)
	}
	if _, err := os.Stat(filepath.Join(env.output, outputFileName)); !os.IsNotExist(err) {
		t.Errorf("expected no %s after a failed run, got %v", outputFileName, err)
	}
}

// TestRefine_MarkdownReportFile tests writing the report to a file.
func TestRefine_MarkdownReportFile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "secret")
	env.addDocument(t, "alice.json", aliceExport)
	reportPath := filepath.Join(env.output, "reports", "run.md")

	stdout, err := run(t, env.refineArgs("--markdown", "--report", reportPath)...)
	if err != nil {
		t.Fatalf("refine failed: %v", err)
	}
	if stdout != "" {
		t.Errorf("expected nothing on stdout, got:\n%s", stdout)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "# Refinement Report") {
		t.Errorf("unexpected report:\n%s", data)
	}
}

// TestRefine_ConfigErrors tests configuration failures reported before any work starts.
func TestRefine_ConfigErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()
		_, err := run(t, "refine", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
		if err == nil || !strings.Contains(err.Error(), "configuration file not found") {
			t.Errorf("expected missing config error, got %v", err)
		}
	})

	t.Run("conflicting report formats", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, "secret")
		_, err := run(t, env.refineArgs("--json", "--markdown")...)
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("missing encryption key", func(t *testing.T) {
		t.Parallel()
		if os.Getenv(config.EncryptionKeyEnv) != "" {
			t.Skipf("%s is set in the environment", config.EncryptionKeyEnv)
		}
		env := newTestEnv(t, "")
		_, err := run(t, env.refineArgs()...)
		if !errors.Is(err, config.ErrNoEncryptionKey) {
			t.Errorf("expected ErrNoEncryptionKey, got %v", err)
		}
	})

	t.Run("empty input directory", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, "secret")
		_, err := run(t, env.refineArgs()...)
		if err == nil || !strings.Contains(err.Error(), "no JSON documents") {
			t.Errorf("expected no documents error, got %v", err)
		}
	})
}
