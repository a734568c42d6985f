package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoInputDir is returned when no input directory is configured.
	ErrNoInputDir = errors.New("no input directory specified: use --input or inputDir in the config file")

	// ErrNoOutputDir is returned when no output directory is configured.
	ErrNoOutputDir = errors.New("no output directory specified: use --output or outputDir in the config file")

	// ErrNoStoreDir is returned when the content store directory is empty.
	ErrNoStoreDir = errors.New("no content store directory specified")

	// ErrNoEncryptionKey is returned when the database cannot be sealed
	// because no key was provided.
	ErrNoEncryptionKey = errors.New("no encryption key: set " + EncryptionKeyEnv + " or encryptionKey in the config file")

	// ErrInvalidUploadConcurrency is returned when the upload concurrency is not positive.
	ErrInvalidUploadConcurrency = errors.New("invalid upload concurrency: must be positive")

	// ErrIncompleteSchema is returned when the schema name, version or dialect is empty.
	ErrIncompleteSchema = errors.New("incomplete schema description: name, version and dialect are required")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
