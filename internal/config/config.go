package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "refiner"

	// DefaultInputDir is where raw export documents (*.json) are read from.
	DefaultInputDir = "input"

	// DefaultOutputDir receives db.libsql, schema.json, proof.json and output.json.
	DefaultOutputDir = "output"

	// DefaultGatewayURL is the prefix of published artifact URLs.
	// An empty gateway makes the store hand out file:// URLs instead.
	DefaultGatewayURL = ""

	// DefaultUploadConcurrency bounds the number of artifacts published at once.
	// The local store is disk bound; a handful of writers is plenty.
	DefaultUploadConcurrency = 4

	// DefaultSchemaName is the name recorded in the off-chain schema.
	DefaultSchemaName = "Instagram Data Export"

	// DefaultSchemaVersion is the version recorded in the off-chain schema.
	DefaultSchemaVersion = "0.0.1"

	// DefaultSchemaDescription is the description recorded in the off-chain schema.
	DefaultSchemaDescription = "Anonymized Instagram profile, content, messaging and engagement data"

	// DefaultSchemaDialect is the SQL dialect of the generated DDL.
	DefaultSchemaDialect = "sqlite"

	// EncryptionKeyEnv names the environment variable read when no
	// encryption key is configured elsewhere. Keeping the key out of
	// argv keeps it out of shell history and process listings.
	EncryptionKeyEnv = "REFINER_ENCRYPTION_KEY"
)

// Config holds all configuration options for a refinement run.
// This struct is populated from defaults, the optional config file and CLI
// flags, and passed through the application rather than kept as global state.
//
// Design decision: We use a single flat struct instead of nested structs.
// The number of options is manageable and every command reads only a few of them.
type Config struct {
	// InputDir is the directory scanned for *.json export documents.
	InputDir string

	// OutputDir receives the analytic database and the JSON artifacts.
	// It is created if it does not exist.
	OutputDir string

	// StoreDir is the content-addressed store that published artifacts are
	// written to. Defaults to the XDG data directory (~/.local/share/refiner/store).
	StoreDir string

	// GatewayURL prefixes published artifact URLs ("<gateway>/<cid>").
	GatewayURL string

	// EncryptionKey is the secret the analytic database is sealed with
	// before publication. Never logged.
	EncryptionKey string

	// UploadConcurrency is the number of artifacts published concurrently.
	UploadConcurrency int

	// SchemaName, SchemaVersion, SchemaDescription and SchemaDialect describe
	// the off-chain schema written to schema.json.
	SchemaName        string
	SchemaVersion     string
	SchemaDescription string
	SchemaDialect     string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of human-readable format.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .refiner in the current directory
	// and then in the user's home directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		InputDir:          DefaultInputDir,
		OutputDir:         DefaultOutputDir,
		StoreDir:          XDGStoreDir(),
		GatewayURL:        DefaultGatewayURL,
		UploadConcurrency: DefaultUploadConcurrency,
		SchemaName:        DefaultSchemaName,
		SchemaVersion:     DefaultSchemaVersion,
		SchemaDescription: DefaultSchemaDescription,
		SchemaDialect:     DefaultSchemaDialect,
	}
}

// XDGDataDir returns the XDG data directory for the refiner.
// On Linux: ~/.local/share/refiner
// On macOS: ~/Library/Application Support/refiner
// On Windows: %LOCALAPPDATA%\refiner
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGStoreDir returns the default content store directory.
func XDGStoreDir() string {
	return filepath.Join(XDGDataDir(), "store")
}

// XDGConfigDir returns the XDG config directory for the refiner.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return ErrNoInputDir
	}
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}
	if c.StoreDir == "" {
		return ErrNoStoreDir
	}
	if c.EncryptionKey == "" {
		return ErrNoEncryptionKey
	}
	if c.UploadConcurrency <= 0 {
		return ErrInvalidUploadConcurrency
	}
	if c.SchemaName == "" || c.SchemaVersion == "" || c.SchemaDialect == "" {
		return ErrIncompleteSchema
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// Apply copies every value set in the config file onto c.
// Zero values in the file leave the current setting untouched.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	if f.InputDir != "" {
		c.InputDir = f.InputDir
	}
	if f.OutputDir != "" {
		c.OutputDir = f.OutputDir
	}
	if f.StoreDir != "" {
		c.StoreDir = f.StoreDir
	}
	if f.GatewayURL != "" {
		c.GatewayURL = f.GatewayURL
	}
	if f.EncryptionKey != "" {
		c.EncryptionKey = f.EncryptionKey
	}
	if f.UploadConcurrency != 0 {
		c.UploadConcurrency = f.UploadConcurrency
	}
	if f.Schema.Name != "" {
		c.SchemaName = f.Schema.Name
	}
	if f.Schema.Version != "" {
		c.SchemaVersion = f.Schema.Version
	}
	if f.Schema.Description != "" {
		c.SchemaDescription = f.Schema.Description
	}
	if f.Schema.Dialect != "" {
		c.SchemaDialect = f.Schema.Dialect
	}
}

// ApplyEnv reads the encryption key from EncryptionKeyEnv when it is set.
// getenv is os.Getenv outside of tests.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if key := getenv(EncryptionKeyEnv); key != "" {
		c.EncryptionKey = key
	}
}
