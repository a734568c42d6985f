package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nao1215/refiner/internal/config"
	"github.com/nao1215/refiner/internal/crypt"
	"github.com/nao1215/refiner/internal/database"
	seclog "github.com/nao1215/refiner/internal/log"
	"github.com/nao1215/refiner/internal/model"
	"github.com/nao1215/refiner/internal/pipeline"
	"github.com/nao1215/refiner/internal/report"
	"github.com/nao1215/refiner/internal/source"
	"github.com/nao1215/refiner/internal/storage"
	"github.com/spf13/cobra"
)

// Names of the files written to the output directory.
const (
	schemaFileName = "schema.json"
	proofFileName  = "proof.json"
	outputFileName = "output.json"
)

// NewRefineCmd creates the refine command.
func NewRefineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refine",
		Short: "Refine raw data exports into anonymized analytic records",
		Long: `Refine reads every *.json export in the input directory and, for each one:
- validates it and reports every structural violation
- transforms it into anonymized analytic records stored in db.libsql
- generates a proof document (proof.json)

When every document succeeded, the schema, the proofs and the encrypted
database are published to the content store and output.json records the
refinement URL. A single invalid document fails the run and nothing is
published.

Examples:
  # Refine ./input into ./output
  REFINER_ENCRYPTION_KEY=secret refiner refine

  # Use explicit directories and a gateway
  refiner refine -i exports -O refined --gateway https://gateway.example.com/ipfs

  # Markdown report written to a file
  refiner refine --markdown --report report.md`,
		Args: cobra.NoArgs,
		RunE: runRefineCmd,
	}

	cmd.Flags().StringP("input", "i", config.DefaultInputDir,
		"Directory containing raw export documents (*.json)")
	cmd.Flags().StringP("output", "O", config.DefaultOutputDir,
		"Directory for the analytic database and JSON artifacts")
	cmd.Flags().String("store", "",
		"Content store directory (default: XDG data directory)")
	cmd.Flags().String("gateway", config.DefaultGatewayURL,
		"URL prefix of published artifacts")
	cmd.Flags().Int("concurrency", config.DefaultUploadConcurrency,
		"Number of artifacts published concurrently")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .refiner in current or home directory)")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("report", "r", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runRefineCmd executes the refine command.
func runRefineCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	summary, runErr := runRefine(ctx, cfg, logger)
	if summary != nil {
		if err := outputReport(cmd.OutOrStdout(), cfg, summary); err != nil {
			logger.Error("report failed", "error", err)
		}
	}
	return runErr
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig resolves the configuration: defaults, then the config file,
// then the environment, then flags the user actually set.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named config file must exist; the implicit one is optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.Apply(file)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.ApplyEnv(os.Getenv)

	flags := cmd.Flags()
	if flags.Changed("input") {
		if cfg.InputDir, err = flags.GetString("input"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("output") {
		if cfg.OutputDir, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("store") {
		if cfg.StoreDir, err = flags.GetString("store"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("gateway") {
		if cfg.GatewayURL, err = flags.GetString("gateway"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.UploadConcurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("report"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setupLogger creates a structured logger that masks export content.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	return seclog.NewSecureLogger(w, verbose)
}

// runRefine refines every document of cfg.InputDir and publishes the result.
// The returned summary is non-nil whenever at least one document was read,
// so a failed run can still be reported.
func runRefine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*model.RunSummary, error) {
	docs, err := source.ReadDir(cfg.InputDir)
	if err != nil {
		return nil, err
	}

	logger.Info("starting refinement",
		"input", cfg.InputDir,
		"output", cfg.OutputDir,
		"documents", len(docs),
	)
	startTime := time.Now()

	db, err := database.Open(cfg.OutputDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	proofFile := storage.NewJSONFile(filepath.Join(cfg.OutputDir, proofFileName))
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.Default(pipeline.NewDatabaseSink(db), proofFile, logger)
		},
		pipeline.WithBatchLogger(logger),
	)

	reports, err := bp.ProcessBatch(ctx, docs)
	summary := model.NewRunSummary(reports)
	if err != nil {
		return summary, fmt.Errorf("refinement failed: %w", err)
	}

	schema := model.NewOffChainSchema(cfg.SchemaName, cfg.SchemaVersion, cfg.SchemaDescription, cfg.SchemaDialect)
	if err := storage.NewJSONFile(filepath.Join(cfg.OutputDir, schemaFileName)).SaveJSON(ctx, schema); err != nil {
		return summary, err
	}

	pub, err := publish(ctx, cfg, db, schema, reports, logger)
	if err != nil {
		return summary, err
	}
	summary.SetPublication(pub.Output, pub.Artifacts)
	for _, r := range reports {
		r.Schema = schema
		r.RefinementURL = pub.Output.RefinementURL
	}

	if err := storage.NewJSONFile(filepath.Join(cfg.OutputDir, outputFileName)).SaveJSON(ctx, pub.Output); err != nil {
		return summary, err
	}

	logger.Info("refinement complete",
		"documents", len(reports),
		"records", summary.TotalRecords(),
		"elapsed", time.Since(startTime),
	)
	return summary, nil
}

// publish seals the analytic database and uploads it with the schema and
// every proof.
func publish(ctx context.Context, cfg *config.Config, db *database.RefinementDB, schema *model.OffChainSchema, reports []*model.RefinementReport, logger *slog.Logger) (*pipeline.Publication, error) {
	// Fold the WAL into the main file so the bytes we read are complete.
	if err := db.Checkpoint(ctx); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(db.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to read database: %w", err)
	}

	sealer, err := crypt.NewSealer(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}
	defer sealer.Close()

	store, err := storage.NewLocalStore(cfg.StoreDir, cfg.GatewayURL)
	if err != nil {
		return nil, err
	}

	proofs := make([]*model.Proof, 0, len(reports))
	for _, r := range reports {
		if r.Proof != nil {
			proofs = append(proofs, r.Proof)
		}
	}

	publisher := pipeline.NewPublisher(store, sealer,
		pipeline.WithPublishLogger(logger),
		pipeline.WithUploadConcurrency(cfg.UploadConcurrency),
	)
	return publisher.Publish(ctx, pipeline.Bundle{
		Schema:   schema,
		Proofs:   proofs,
		Database: data,
	})
}

// outputReport writes the run summary in the requested format, to
// cfg.ReportFile when set and to stdout otherwise.
func outputReport(stdout io.Writer, cfg *config.Config, summary *model.RunSummary) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
	_, err := w.WriteSummary(summary)
	return err
}
