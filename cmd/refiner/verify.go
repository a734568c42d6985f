package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/refiner/internal/config"
	"github.com/nao1215/refiner/internal/model"
	"github.com/nao1215/refiner/internal/proof"
	"github.com/nao1215/refiner/internal/source"
	"github.com/nao1215/refiner/internal/validate"
	"github.com/spf13/cobra"
)

// NewVerifyCmd creates the verify command.
// This command checks a proof document against the raw export it claims to describe.
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a proof document against a raw export",
		Long: `Verify recomputes the counts, content hashes, confidence score and
verification method of a raw export and compares them with a proof document.

Every differing field is listed. The proof generation timestamp is not
checked. The command exits with an error when any field differs.

Examples:
  # Verify the proof written by the last refine run
  refiner verify --export input/alice.json

  # Verify a proof stored elsewhere
  refiner verify --export alice.json --proof proofs/alice.json`,
		Args: cobra.NoArgs,
		RunE: runVerifyCmd,
	}

	cmd.Flags().StringP("export", "e", "",
		"Raw export document the proof was generated from")
	cmd.Flags().StringP("proof", "p", filepath.Join(config.DefaultOutputDir, proofFileName),
		"Proof document to verify")
	_ = cmd.MarkFlagRequired("export") //nolint:errcheck // flag is defined above

	return cmd
}

// runVerifyCmd executes the verify command.
func runVerifyCmd(cmd *cobra.Command, _ []string) error {
	exportPath, err := cmd.Flags().GetString("export")
	if err != nil {
		return err
	}
	proofPath, err := cmd.Flags().GetString("proof")
	if err != nil {
		return err
	}

	doc, err := source.ReadFile(exportPath)
	if err != nil {
		return err
	}
	export, err := validate.Export(doc.Body)
	if err != nil {
		return fmt.Errorf("invalid export %s: %w", doc.Name, err)
	}

	p, err := readProof(proofPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	err = proof.Verify(export, p)

	var verr *proof.VerificationError
	switch {
	case err == nil:
		fmt.Fprintf(out, "Proof verified: %s matches %s\n", proofPath, doc.Name)
		fmt.Fprintf(out, "  user_id:             %s\n", p.UserID)
		fmt.Fprintf(out, "  confidence_score:    %.2f\n", p.ConfidenceScore)
		fmt.Fprintf(out, "  verification_method: %s\n", p.VerificationMethod)
		return nil
	case errors.As(err, &verr):
		fmt.Fprintf(out, "Proof does not match %s:\n", doc.Name)
		for _, m := range verr.Mismatches {
			fmt.Fprintf(out, "  %s\n    expected: %s\n    actual:   %s\n", m.Field, m.Expected, m.Actual)
		}
		return err
	default:
		return fmt.Errorf("failed to verify proof: %w", err)
	}
}

// readProof loads a proof document written by refine.
func readProof(path string) (*model.Proof, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read proof: %w", err)
	}
	var p model.Proof
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode proof %s: %w", path, err)
	}
	return &p, nil
}
