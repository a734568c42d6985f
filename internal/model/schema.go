package model

import (
	"fmt"
	"strings"
)

// ColumnType is the primitive type of a column in the analytic schema.
type ColumnType string

// Primitive column types.
const (
	TypeText     ColumnType = "TEXT"
	TypeInteger  ColumnType = "INTEGER"
	TypeReal     ColumnType = "REAL"
	TypeBoolean  ColumnType = "BOOLEAN"
	TypeDateTime ColumnType = "DATETIME"
)

// Column describes one column of an analytic table.
type Column struct {
	Name          string     `json:"name"`
	Type          ColumnType `json:"type"`
	PrimaryKey    bool       `json:"primary_key,omitempty"`
	AutoIncrement bool       `json:"auto_increment,omitempty"`
	Nullable      bool       `json:"nullable,omitempty"`
	// References is "table(column)" for foreign keys.
	References string `json:"references,omitempty"`
}

// TableSchema describes one analytic table.
type TableSchema struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// InsertColumns returns the columns a Record's Row fills, in order.
func (t TableSchema) InsertColumns() []string {
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.AutoIncrement {
			continue
		}
		cols = append(cols, c.Name)
	}
	return cols
}

// HasColumn reports whether the table has a column with the given name.
func (t TableSchema) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// DDL returns the CREATE TABLE statement for the table.
func (t TableSchema) DDL() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE IF NOT EXISTS %s (\n", t.Name)

	lines := make([]string, 0, len(t.Columns))
	var foreign []string
	for _, c := range t.Columns {
		line := "\t" + c.Name + " " + string(c.Type)
		switch {
		case c.PrimaryKey && c.AutoIncrement:
			line += " PRIMARY KEY AUTOINCREMENT"
		case c.PrimaryKey:
			line += " PRIMARY KEY"
		case !c.Nullable:
			line += " NOT NULL"
		}
		lines = append(lines, line)
		if c.References != "" {
			foreign = append(foreign, fmt.Sprintf("\tFOREIGN KEY (%s) REFERENCES %s", c.Name, c.References))
		}
	}
	lines = append(lines, foreign...)

	sb.WriteString(strings.Join(lines, ",\n"))
	sb.WriteString("\n);")
	return sb.String()
}

func col(name string, typ ColumnType) Column {
	return Column{Name: name, Type: typ}
}

func nullable(name string, typ ColumnType) Column {
	return Column{Name: name, Type: typ, Nullable: true}
}

func pk(name string, typ ColumnType) Column {
	return Column{Name: name, Type: typ, PrimaryKey: true}
}

func autoID(name string) Column {
	return Column{Name: name, Type: TypeInteger, PrimaryKey: true, AutoIncrement: true}
}

func userFK() Column {
	return Column{Name: "user_id", Type: TypeText, References: "user_profiles(user_id)"}
}

// Schema describes every table of the analytic record set, parents first.
// It is the passive introspection contract used to create storage and to
// publish a schema artifact.
func Schema() []TableSchema {
	return []TableSchema{
		{
			Name: TableUserProfiles,
			Columns: []Column{
				pk("user_id", TypeText),
				col("username_hash", TypeText),
				col("full_name_hash", TypeText),
				nullable("bio_length", TypeInteger),
				nullable("bio_word_count", TypeInteger),
				col("bio_has_url", TypeBoolean),
				col("bio_has_email", TypeBoolean),
				col("bio_has_hashtags", TypeBoolean),
				col("follower_count", TypeInteger),
				col("following_count", TypeInteger),
				col("post_count", TypeInteger),
				col("is_verified", TypeBoolean),
				col("is_private", TypeBoolean),
				col("data_export_date", TypeDateTime),
			},
		},
		{
			Name: TablePosts,
			Columns: []Column{
				pk("post_id", TypeText),
				userFK(),
				nullable("caption_length", TypeInteger),
				col("post_date", TypeDateTime),
				col("like_count", TypeInteger),
				col("comment_count", TypeInteger),
				col("media_count", TypeInteger),
				col("has_location", TypeBoolean),
				col("hashtag_count", TypeInteger),
				nullable("engagement_rate", TypeReal),
			},
		},
		{
			Name: TableMedia,
			Columns: []Column{
				autoID("media_id"),
				{Name: "post_id", Type: TypeText, References: "posts(post_id)"},
				col("media_type", TypeText),
			},
		},
		{
			Name: TableStories,
			Columns: []Column{
				pk("story_id", TypeText),
				userFK(),
				col("story_date", TypeDateTime),
				col("media_type", TypeText),
				col("view_count", TypeInteger),
			},
		},
		{
			Name: TableComments,
			Columns: []Column{
				pk("comment_id", TypeText),
				userFK(),
				col("post_id", TypeText),
				col("comment_length", TypeInteger),
				col("comment_date", TypeDateTime),
				col("like_count", TypeInteger),
				col("author_username_hash", TypeText),
			},
		},
		{
			Name: TableDirectMessages,
			Columns: []Column{
				pk("message_id", TypeText),
				userFK(),
				col("conversation_id_hash", TypeText),
				nullable("message_length", TypeInteger),
				col("message_date", TypeDateTime),
				col("message_type", TypeText),
				col("is_sender", TypeBoolean),
			},
		},
		{
			Name: TableEngagementMetrics,
			Columns: []Column{
				autoID("metric_id"),
				userFK(),
				col("metric_date", TypeDateTime),
				col("profile_views", TypeInteger),
				col("reach", TypeInteger),
				col("impressions", TypeInteger),
				col("website_clicks", TypeInteger),
			},
		},
		{
			Name: TableHashtagUsage,
			Columns: []Column{
				autoID("usage_id"),
				userFK(),
				col("hashtag_hash", TypeText),
				col("usage_count", TypeInteger),
				col("first_used", TypeDateTime),
				col("last_used", TypeDateTime),
			},
		},
		{
			Name: TableActivityPatterns,
			Columns: []Column{
				autoID("pattern_id"),
				userFK(),
				col("hour_of_day", TypeInteger),
				col("day_of_week", TypeInteger),
				col("post_count", TypeInteger),
				col("story_count", TypeInteger),
				col("comment_count", TypeInteger),
				col("dm_count", TypeInteger),
			},
		},
	}
}

// LookupTable returns the schema of the named table.
func LookupTable(name string) (TableSchema, bool) {
	for _, t := range Schema() {
		if t.Name == name {
			return t, true
		}
	}
	return TableSchema{}, false
}

// SchemaDDL returns the CREATE TABLE statements of every table.
func SchemaDDL() string {
	tables := Schema()
	stmts := make([]string, len(tables))
	for i, t := range tables {
		stmts[i] = t.DDL()
	}
	return strings.Join(stmts, "\n\n")
}

// OffChainSchema is the schema artifact published next to the refined data.
type OffChainSchema struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Dialect     string `json:"dialect"`
	// Schema holds the DDL for every table.
	Schema string `json:"schema"`
	// Tables is the structured form of Schema.
	Tables []TableSchema `json:"tables"`
}

// NewOffChainSchema builds the schema artifact from the descriptor.
func NewOffChainSchema(name, version, description, dialect string) *OffChainSchema {
	return &OffChainSchema{
		Name:        name,
		Version:     version,
		Description: description,
		Dialect:     dialect,
		Schema:      SchemaDDL(),
		Tables:      Schema(),
	}
}
