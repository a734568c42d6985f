package main

import (
	"strings"
	"testing"

	"github.com/nao1215/refiner/internal/model"
)

func TestStatsCmd(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "secret")
	env.addDocument(t, "alice.json", aliceExport)
	if _, err := run(t, env.refineArgs()...); err != nil {
		t.Fatalf("refine failed: %v", err)
	}

	t.Run("text output lists every table", func(t *testing.T) {
		t.Parallel()

		out, err := run(t, "stats", "-O", env.output)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "User 1001") {
			t.Errorf("expected user header, got:\n%s", out)
		}
		for _, table := range model.TableNames() {
			if !strings.Contains(out, table) {
				t.Errorf("expected table %s in output", table)
			}
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		_, err := run(t, "stats", "-O", env.output, "9999")
		if err == nil || !strings.Contains(err.Error(), "has not been refined") {
			t.Errorf("expected unknown user error, got %v", err)
		}
	})

	t.Run("missing database", func(t *testing.T) {
		t.Parallel()

		if _, err := run(t, "stats", "-O", t.TempDir()); err == nil {
			t.Error("expected an error for a directory without a database")
		}
	})
}
