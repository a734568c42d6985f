package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const aliceExport = `{
  "user_id": "1001",
  "data_export_timestamp": "2024-01-15T10:30:00Z",
  "profile": {
    "username": "Alice",
    "full_name": "Alice Doe",
    "bio": "coffee, code and #travel https://alice.example.com",
    "follower_count": 250,
    "following_count": 80,
    "post_count": 2,
    "is_verified": false,
    "is_private": false
  },
  "posts": [
    {
      "post_id": "p1",
      "caption": "sunrise #Travel",
      "timestamp": "2024-01-01T07:15:00Z",
      "like_count": 20,
      "comment_count": 5,
      "media": [{"media_type": "photo", "url": "https://cdn.example.com/p1.jpg"}],
      "hashtags": ["#Travel"]
    },
    {
      "post_id": "p2",
      "caption": "lunch",
      "timestamp": "2024-01-02T12:00:00+02:00",
      "like_count": 8,
      "comment_count": 1,
      "media": [],
      "hashtags": ["#travel", "#food"]
    }
  ],
  "comments": [
    {
      "comment_id": "c1",
      "post_id": "p1",
      "text": "lovely",
      "timestamp": "2024-01-01T08:00:00Z",
      "author_username": "bob"
    }
  ],
  "direct_messages": [
    {
      "message_id": "m1",
      "conversation_id": "conv-1",
      "sender_username": "Alice",
      "recipient_username": "bob",
      "message_text": "see you at noon",
      "timestamp": "2024-01-03T09:00:00Z",
      "message_type": "text"
    }
  ]
}
`

// testEnv is a scratch workspace for one command run.
type testEnv struct {
	input  string
	output string
	store  string
	config string
}

// newTestEnv creates input/output/store directories and a config file
// carrying the encryption key, so tests never depend on the environment.
func newTestEnv(t *testing.T, key string) *testEnv {
	t.Helper()

	root := t.TempDir()
	env := &testEnv{
		input:  filepath.Join(root, "input"),
		output: filepath.Join(root, "output"),
		store:  filepath.Join(root, "store"),
		config: filepath.Join(root, "refiner.yaml"),
	}
	if err := os.MkdirAll(env.input, 0750); err != nil {
		t.Fatalf("failed to create input dir: %v", err)
	}

	content := "uploadConcurrency: 2\n"
	if key != "" {
		content += "encryptionKey: " + key + "\n"
	}
	if err := os.WriteFile(env.config, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return env
}

func (e *testEnv) addDocument(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(e.input, name)
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}
	return path
}

func (e *testEnv) refineArgs(extra ...string) []string {
	args := []string{"refine", "--config", e.config, "-i", e.input, "-O", e.output, "--store", e.store}
	return append(args, extra...)
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}
