package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/refiner/internal/model"
)

// FileName is the name of the database file inside the output directory.
const FileName = "db.libsql"

// ErrNotFound is returned when a user has no stored profile.
var ErrNotFound = errors.New("not found")

// RefinementDB stores anonymized analytic records.
type RefinementDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// tables is the schema the database was created from.
	tables []model.TableSchema
}

// Options configures RefinementDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	// Call Checkpoint before reading the file directly.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the refinement database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RefinementDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw prevents creating new files, mode=rwc allows it.
	mode := "rw"
	if opts.CreateIfNotExists {
		mode = "rwc"
	}
	dsn := dbPath + "?mode=" + mode + "&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RefinementDB{
		db:     db,
		dbPath: dbPath,
		tables: model.Schema(),
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RefinementDB) Close() error {
	return rdb.db.Close()
}

// Path returns the database file path.
func (rdb *RefinementDB) Path() string {
	return rdb.dbPath
}

// Checkpoint moves every WAL frame into the main database file so that the
// file alone holds all committed data.
func (rdb *RefinementDB) Checkpoint(ctx context.Context) error {
	if _, err := rdb.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to checkpoint database: %w", err)
	}
	return nil
}

// createTables creates the schema if it doesn't exist, plus an index on
// user_id for every partitioned table.
func (rdb *RefinementDB) createTables() error {
	stmts := make([]string, 0, len(rdb.tables)*2)
	for _, t := range rdb.tables {
		stmts = append(stmts, t.DDL())
		if t.Name != model.TableUserProfiles && t.HasColumn("user_id") {
			stmts = append(stmts, fmt.Sprintf(
				"CREATE INDEX IF NOT EXISTS idx_%s_user ON %s(user_id);", t.Name, t.Name))
		}
	}
	stmts = append(stmts, "CREATE INDEX IF NOT EXISTS idx_media_post ON media(post_id);")

	_, err := rdb.db.ExecContext(context.Background(), strings.Join(stmts, "\n"))
	return err
}

// SaveRecords replaces everything stored for userID with records, in one
// transaction. Records must be parents first, as Transform returns them.
func (rdb *RefinementDB) SaveRecords(ctx context.Context, userID string, records []model.Record) error {
	pending, err := rdb.BeginRecords(ctx, userID, records)
	if err != nil {
		return err
	}
	return pending.Commit()
}

// PendingRecords is a staged, uncommitted record set. Exactly one of Commit
// or Rollback takes effect; calling either again is a no-op.
type PendingRecords struct {
	tx    *sql.Tx
	count int
	done  bool
}

// Len returns the number of staged records.
func (p *PendingRecords) Len() int {
	return p.count
}

// Commit makes the staged records visible.
func (p *PendingRecords) Commit() error {
	if p.done {
		return nil
	}
	p.done = true
	if err := p.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

// Rollback discards the staged records.
func (p *PendingRecords) Rollback() error {
	if p.done {
		return nil
	}
	p.done = true
	if err := p.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back records: %w", err)
	}
	return nil
}

// BeginRecords stages the replacement of userID's rows inside an open
// transaction and returns it uncommitted, so the caller can finish other
// work first. On error nothing is staged.
func (rdb *RefinementDB) BeginRecords(ctx context.Context, userID string, records []model.Record) (_ *PendingRecords, err error) {
	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err := rdb.deleteUser(ctx, tx, userID); err != nil {
		return nil, err
	}

	stmts := make(map[string]*sql.Stmt)
	defer func() {
		for _, s := range stmts {
			_ = s.Close()
		}
	}()

	for i, r := range records {
		stmt, ok := stmts[r.TableName()]
		if !ok {
			stmt, err = rdb.prepareInsert(ctx, tx, r.TableName())
			if err != nil {
				return nil, err
			}
			stmts[r.TableName()] = stmt
		}

		if _, err := stmt.ExecContext(ctx, toArgs(r.Row())...); err != nil {
			return nil, fmt.Errorf("failed to insert record %d into %s: %w", i, r.TableName(), err)
		}
	}

	return &PendingRecords{tx: tx, count: len(records)}, nil
}

// deleteUser removes every row belonging to userID, children first.
func (rdb *RefinementDB) deleteUser(ctx context.Context, tx *sql.Tx, userID string) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM media WHERE post_id IN (SELECT post_id FROM posts WHERE user_id = ?)", userID); err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}

	for i := len(rdb.tables) - 1; i >= 0; i-- {
		t := rdb.tables[i]
		if !t.HasColumn("user_id") {
			continue
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t.Name+" WHERE user_id = ?", userID); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", t.Name, err)
		}
	}
	return nil
}

func (rdb *RefinementDB) prepareInsert(ctx context.Context, tx *sql.Tx, table string) (*sql.Stmt, error) {
	var schema *model.TableSchema
	for i := range rdb.tables {
		if rdb.tables[i].Name == table {
			schema = &rdb.tables[i]
			break
		}
	}
	if schema == nil {
		return nil, fmt.Errorf("unknown table %q", table)
	}

	cols := schema.InsertColumns()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), placeholders)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert into %s: %w", table, err)
	}
	return stmt, nil
}

// timestampLayout is how DATETIME columns are written. Fractional seconds
// are kept; whole seconds print without a fraction.
const timestampLayout = time.RFC3339Nano

// toArgs converts record values to driver arguments. Times are stored as
// UTC text so every reader sees the same representation.
func toArgs(row []any) []any {
	args := make([]any, len(row))
	for i, v := range row {
		if t, ok := v.(time.Time); ok {
			args[i] = t.UTC().Format(timestampLayout)
			continue
		}
		args[i] = v
	}
	return args
}

// TableCounts returns the number of rows stored for userID in every table.
func (rdb *RefinementDB) TableCounts(ctx context.Context, userID string) (map[string]int, error) {
	counts := make(map[string]int, len(rdb.tables))
	for _, t := range rdb.tables {
		var query string
		if t.HasColumn("user_id") {
			query = "SELECT COUNT(*) FROM " + t.Name + " WHERE user_id = ?"
		} else {
			query = "SELECT COUNT(*) FROM " + t.Name + " WHERE post_id IN (SELECT post_id FROM posts WHERE user_id = ?)"
		}

		var n int
		if err := rdb.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", t.Name, err)
		}
		counts[t.Name] = n
	}
	return counts, nil
}

// UserProfile returns the stored profile record of userID.
func (rdb *RefinementDB) UserProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	query := `
	SELECT user_id, username_hash, full_name_hash, bio_length, bio_word_count,
		bio_has_url, bio_has_email, bio_has_hashtags, follower_count, following_count,
		post_count, is_verified, is_private, data_export_date
	FROM user_profiles
	WHERE user_id = ?
	`

	var p model.UserProfile
	var exportDate string
	err := rdb.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.UsernameHash,
		&p.FullNameHash,
		&p.BioLength,
		&p.BioWordCount,
		&p.BioHasURL,
		&p.BioHasEmail,
		&p.BioHasHashtags,
		&p.FollowerCount,
		&p.FollowingCount,
		&p.PostCount,
		&p.IsVerified,
		&p.IsPrivate,
		&exportDate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user profile %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	p.DataExportDate = parseTimestamp(exportDate)
	return &p, nil
}

// UserIDs returns every user with a stored profile, sorted.
func (rdb *RefinementDB) UserIDs(ctx context.Context) ([]string, error) {
	rows, err := rdb.db.QueryContext(ctx, "SELECT user_id FROM user_profiles ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
