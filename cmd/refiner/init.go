package main

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/refiner/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/refiner.yaml
var configTemplate embed.FS

const (
	configFileName    = config.DefaultConfigFile
	xdgConfigFileName = "config.yaml"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a refiner configuration file",
		Long: `Init writes a commented configuration file listing every setting with
its default value. The encryption key is left out; add it to the file or set
` + config.EncryptionKeyEnv + `.

Examples:
  # Create .refiner in the current directory
  refiner init

  # Create the per-user file under $XDG_CONFIG_HOME/refiner
  refiner init --xdg

  # Write somewhere else, replacing an existing file
  refiner init -o deploy/refiner.yaml -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName, "Path of the file to write")
	cmd.Flags().Bool("xdg", false, "Write to the XDG config directory instead of --output")
	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
	cmd.MarkFlagsMutuallyExclusive("output", "xdg")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	path, err := initTarget(cmd)
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	if err := writeTemplate(path, force); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", path)
	fmt.Fprintln(out, "\nEdit this file to configure:")
	fmt.Fprintln(out, "  - Input and output directories")
	fmt.Fprintln(out, "  - The content store and gateway URL")
	fmt.Fprintln(out, "  - The off-chain schema description")
	fmt.Fprintf(out, "\nSet %s to provide the encryption key.\n", config.EncryptionKeyEnv)
	return nil
}

func initTarget(cmd *cobra.Command) (string, error) {
	useXDG, err := cmd.Flags().GetBool("xdg")
	if err != nil {
		return "", err
	}
	if useXDG {
		return filepath.Join(config.XDGConfigDir(), xdgConfigFileName), nil
	}
	return cmd.Flags().GetString("output")
}

func writeTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	content, err := configTemplate.ReadFile("templates/refiner.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// 0600: the file may end up holding the encryption key.
	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}
