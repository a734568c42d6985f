package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/refiner/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *RefinementDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleRecords(userID string) []model.Record {
	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return []model.Record{
		model.UserProfile{
			UserID: userID, UsernameHash: "uh", FullNameHash: "fh",
			BioLength: 12, BioWordCount: 2, BioHasURL: true,
			FollowerCount: 100, FollowingCount: 5, PostCount: 1,
			IsVerified: true, DataExportDate: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		model.Post{PostID: userID + "-p1", UserID: userID, PostDate: at, LikeCount: 5, CommentCount: 5, MediaCount: 2, EngagementRate: 10},
		model.Media{PostID: userID + "-p1", MediaType: "photo"},
		model.Media{PostID: userID + "-p1", MediaType: "video"},
		model.Story{StoryID: userID + "-s1", UserID: userID, StoryDate: at, MediaType: "photo", ViewCount: 3},
		model.Comment{CommentID: userID + "-c1", UserID: userID, PostID: userID + "-p1", CommentLength: 4, CommentDate: at, AuthorUsernameHash: "ah"},
		model.DirectMessage{MessageID: userID + "-m1", UserID: userID, ConversationIDHash: "ch", MessageDate: at, MessageType: "text", IsSender: true},
		model.EngagementMetric{UserID: userID, MetricDate: at, ProfileViews: 1, Reach: 2, Impressions: 3},
		model.HashtagUsage{UserID: userID, HashtagHash: "hh", UsageCount: 2, FirstUsed: at, LastUsed: at},
		model.ActivityPattern{UserID: userID, HourOfDay: 9, DayOfWeek: 0, PostCount: 1, StoryCount: 1, CommentCount: 1, DMCount: 1},
	}
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("Path() = %s", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "nonexistent-db")
		_, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err == nil {
			t.Fatal("expected error when CreateIfNotExists=false and database does not exist")
		}
		if !strings.Contains(err.Error(), "database not found") {
			t.Errorf("unexpected error: %v", err)
		}
		if _, statErr := os.Stat(dbDir); !os.IsNotExist(statErr) {
			t.Error("database directory should not have been created")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		db1, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		ctx := context.Background()
		if err := db1.SaveRecords(ctx, "u1", sampleRecords("u1")); err != nil {
			t.Fatal(err)
		}
		_ = db1.Close()

		db2, err := Open(dbDir, Options{CreateIfNotExists: false})
		if err != nil {
			t.Fatalf("failed to reopen: %v", err)
		}
		defer db2.Close()

		ids, err := db2.UserIDs(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(ids) != 1 || ids[0] != "u1" {
			t.Errorf("UserIDs() = %v", ids)
		}
	})
}

// TestDefaultOptions tests the default options values.
func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	if !opts.CreateIfNotExists || !opts.EnableWAL {
		t.Errorf("unexpected defaults: %+v", opts)
	}
}

// TestSaveRecords tests persisting a full record set.
func TestSaveRecords(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.SaveRecords(ctx, "u1", sampleRecords("u1")); err != nil {
		t.Fatalf("SaveRecords() error = %v", err)
	}

	counts, err := db.TableCounts(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int{
		model.TableUserProfiles: 1, model.TablePosts: 1, model.TableMedia: 2,
		model.TableStories: 1, model.TableComments: 1, model.TableDirectMessages: 1,
		model.TableEngagementMetrics: 1, model.TableHashtagUsage: 1, model.TableActivityPatterns: 1,
	}
	for table, n := range want {
		if counts[table] != n {
			t.Errorf("%s: got %d rows, want %d", table, counts[table], n)
		}
	}

	profile, err := db.UserProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("UserProfile() error = %v", err)
	}
	if profile.FollowerCount != 100 || !profile.IsVerified || !profile.BioHasURL || profile.BioLength != 12 {
		t.Errorf("unexpected profile: %+v", profile)
	}
	if !profile.DataExportDate.Equal(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("export date = %v", profile.DataExportDate)
	}
}

// TestSaveRecordsReplaces tests that a second run replaces the first.
func TestSaveRecordsReplaces(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.SaveRecords(ctx, "u1", sampleRecords("u1")); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveRecords(ctx, "u2", sampleRecords("u2")); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveRecords(ctx, "u1", sampleRecords("u1")); err != nil {
		t.Fatalf("second save error = %v", err)
	}

	for _, user := range []string{"u1", "u2"} {
		counts, err := db.TableCounts(ctx, user)
		if err != nil {
			t.Fatal(err)
		}
		if counts[model.TableMedia] != 2 || counts[model.TableActivityPatterns] != 1 {
			t.Errorf("%s: rows duplicated or lost: %v", user, counts)
		}
	}
}

// TestSaveRecordsAtomic tests that a failing insert leaves nothing behind.
func TestSaveRecordsAtomic(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	records := sampleRecords("u1")
	// Duplicate primary key.
	records = append(records, model.Post{PostID: "u1-p1", UserID: "u1"})

	if err := db.SaveRecords(ctx, "u1", records); err == nil {
		t.Fatal("expected error for duplicate post id")
	}

	counts, err := db.TableCounts(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	for table, n := range counts {
		if n != 0 {
			t.Errorf("%s has %d rows after a failed save", table, n)
		}
	}
}

// TestBeginRecords tests the two-phase write.
func TestBeginRecords(t *testing.T) {
	t.Parallel()

	t.Run("rollback keeps the previous rows", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		if err := db.SaveRecords(ctx, "u1", sampleRecords("u1")); err != nil {
			t.Fatal(err)
		}

		pending, err := db.BeginRecords(ctx, "u1", sampleRecords("u1")[:1])
		if err != nil {
			t.Fatalf("BeginRecords() error = %v", err)
		}
		if pending.Len() != 1 {
			t.Errorf("Len() = %d, want 1", pending.Len())
		}
		if err := pending.Rollback(); err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}
		if err := pending.Commit(); err != nil {
			t.Fatalf("Commit() after Rollback() error = %v", err)
		}

		counts, err := db.TableCounts(ctx, "u1")
		if err != nil {
			t.Fatal(err)
		}
		if counts[model.TablePosts] != 1 || counts[model.TableMedia] != 2 {
			t.Errorf("previous rows lost after rollback: %v", counts)
		}
	})

	t.Run("commit replaces the rows", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		if err := db.SaveRecords(ctx, "u1", sampleRecords("u1")); err != nil {
			t.Fatal(err)
		}

		pending, err := db.BeginRecords(ctx, "u1", sampleRecords("u1")[:1])
		if err != nil {
			t.Fatalf("BeginRecords() error = %v", err)
		}
		if err := pending.Commit(); err != nil {
			t.Fatalf("Commit() error = %v", err)
		}

		counts, err := db.TableCounts(ctx, "u1")
		if err != nil {
			t.Fatal(err)
		}
		if counts[model.TableUserProfiles] != 1 || counts[model.TablePosts] != 0 {
			t.Errorf("unexpected counts after commit: %v", counts)
		}
	})
}

// TestTimestampPrecision tests that sub-second timestamps survive a round trip.
func TestTimestampPrecision(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	exported := time.Date(2024, 1, 15, 10, 30, 0, 123456000, time.UTC)
	profile := model.UserProfile{UserID: "u1", UsernameHash: "uh", FullNameHash: "fh", DataExportDate: exported}
	if err := db.SaveRecords(ctx, "u1", []model.Record{profile}); err != nil {
		t.Fatal(err)
	}

	got, err := db.UserProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("UserProfile() error = %v", err)
	}
	if !got.DataExportDate.Equal(exported) {
		t.Errorf("DataExportDate = %v, want %v", got.DataExportDate, exported)
	}
}

// TestUserProfileNotFound tests the missing-profile error.
func TestUserProfileNotFound(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	if _, err := db.UserProfile(context.Background(), "nobody"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

// TestCheckpoint tests that the WAL can be folded into the main file.
func TestCheckpoint(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	if err := db.SaveRecords(ctx, "u1", sampleRecords("u1")); err != nil {
		t.Fatal(err)
	}
	if err := db.Checkpoint(ctx); err != nil {
		t.Fatalf("Checkpoint() error = %v", err)
	}

	info, err := os.Stat(db.Path() + "-wal")
	if err == nil && info.Size() != 0 {
		t.Errorf("WAL not truncated: %d bytes", info.Size())
	}
}

// TestParseTimestamp tests the timestamp parser with various formats.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "stored layout", input: "2024-01-15T10:30:00Z", want: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{name: "SQLite default", input: "2024-01-15 10:30:00", want: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{name: "RFC3339 with offset", input: "2024-01-15T12:30:00+02:00", want: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{name: "invalid", input: "garbage", want: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := parseTimestamp(tt.input); !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
