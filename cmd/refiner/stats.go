package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/refiner/internal/config"
	"github.com/nao1215/refiner/internal/database"
	"github.com/nao1215/refiner/internal/model"
	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command.
// This command summarizes what a refinement database holds.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [user-id]",
		Short: "Show record counts stored in the analytic database",
		Long: `Stats opens the analytic database in the output directory and prints
the number of records per table for every refined user, or for one user
when a user id is given.

Only counts and digests are shown; the database holds no clear-text export
content.

Examples:
  # Summarize every user in ./output/db.libsql
  refiner stats

  # Summarize one user in another output directory
  refiner stats -O refined 1234567890

  # JSON output
  refiner stats --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runStatsCmd,
	}

	cmd.Flags().StringP("output", "O", config.DefaultOutputDir,
		"Directory containing the analytic database")
	cmd.Flags().BoolP("json", "j", false,
		"Output statistics in JSON format")

	return cmd
}

// userStats is the per-user output of the stats command.
type userStats struct {
	UserID       string         `json:"user_id"`
	UsernameHash string         `json:"username_hash,omitempty"`
	Counts       map[string]int `json:"record_counts"`
}

// runStatsCmd executes the stats command.
func runStatsCmd(cmd *cobra.Command, args []string) error {
	dir, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	db, err := database.Open(dir, database.Options{CreateIfNotExists: false})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var userIDs []string
	if len(args) == 1 {
		userIDs = args
	} else if userIDs, err = db.UserIDs(ctx); err != nil {
		return err
	}

	stats, err := collectStats(ctx, db, userIDs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	printStats(out, stats)
	return nil
}

func collectStats(ctx context.Context, db *database.RefinementDB, userIDs []string) ([]userStats, error) {
	stats := make([]userStats, 0, len(userIDs))
	for _, id := range userIDs {
		profile, err := db.UserProfile(ctx, id)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, fmt.Errorf("user %s has not been refined", id)
			}
			return nil, err
		}
		counts, err := db.TableCounts(ctx, id)
		if err != nil {
			return nil, err
		}
		stats = append(stats, userStats{
			UserID:       id,
			UsernameHash: profile.UsernameHash,
			Counts:       counts,
		})
	}
	return stats, nil
}

func printStats(w io.Writer, stats []userStats) {
	if len(stats) == 0 {
		fmt.Fprintln(w, "No refined users in the database.")
		return
	}
	for _, s := range stats {
		fmt.Fprintf(w, "User %s\n", s.UserID)
		if s.UsernameHash != "" {
			fmt.Fprintf(w, "  username_hash: %s\n", s.UsernameHash)
		}
		for _, table := range model.TableNames() {
			fmt.Fprintf(w, "  %-20s %d\n", table, s.Counts[table])
		}
		fmt.Fprintln(w)
	}
}
