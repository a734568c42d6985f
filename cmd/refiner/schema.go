package main

import (
	"fmt"

	"github.com/nao1215/refiner/internal/config"
	"github.com/nao1215/refiner/internal/model"
	"github.com/nao1215/refiner/internal/storage"
	"github.com/spf13/cobra"
)

// NewSchemaCmd creates the schema command.
func NewSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the analytic schema",
		Long: `Schema prints the off-chain schema of the analytic record set: every
table, its columns and their primitive types, plus the SQL DDL used to
create the database.

Examples:
  # Print the schema document written to schema.json
  refiner schema

  # Print only the SQL DDL
  refiner schema --ddl`,
		Args: cobra.NoArgs,
		RunE: runSchemaCmd,
	}

	cmd.Flags().Bool("ddl", false, "Print only the SQL DDL")
	cmd.Flags().String("name", config.DefaultSchemaName, "Schema name")
	cmd.Flags().String("schema-version", config.DefaultSchemaVersion, "Schema version")
	cmd.Flags().String("description", config.DefaultSchemaDescription, "Schema description")
	cmd.Flags().String("dialect", config.DefaultSchemaDialect, "SQL dialect")

	return cmd
}

// runSchemaCmd executes the schema command.
func runSchemaCmd(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	ddl, err := cmd.Flags().GetBool("ddl")
	if err != nil {
		return err
	}
	if ddl {
		_, err := fmt.Fprintln(out, model.SchemaDDL())
		return err
	}

	var fields [4]string
	for i, name := range []string{"name", "schema-version", "description", "dialect"} {
		if fields[i], err = cmd.Flags().GetString(name); err != nil {
			return err
		}
	}

	data, err := storage.MarshalIndent(model.NewOffChainSchema(fields[0], fields[1], fields[2], fields[3]))
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	_, err = out.Write(data)
	return err
}
