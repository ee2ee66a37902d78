package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/veiltext/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/homoglyph.yaml templates/invisible.yaml templates/veiltext.yaml
var configTemplates embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the veiltext configuration files",
		Long: `Initialize writes the default data tables and a sample profile into
the veiltext config directory:

  homoglyph.yaml  - homoglyph substitution table
  invisible.yaml  - invisible character pool
  veiltext.yaml   - sample .veiltext profile with documentation

Edit the tables to tune which characters are substituted or injected.
All three files are optional; veiltext falls back to compiled-in
defaults when a file is missing.

Examples:
  # Write config files to the XDG config directory
  veiltext init

  # Write to a custom directory
  veiltext init -d ./config

  # Force overwrite existing files
  veiltext init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("dir", "d", "",
		"Target directory for the configuration files (default: XDG config dir)")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration files")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	targetDir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}
	if targetDir == "" {
		targetDir = config.XDGConfigDir()
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	files := []string{"homoglyph.yaml", "invisible.yaml", "veiltext.yaml"}
	for _, name := range files {
		outputPath := filepath.Join(targetDir, name)

		if !force {
			if _, err := os.Stat(outputPath); err == nil {
				return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
			}
		}

		content, err := configTemplates.ReadFile("templates/" + name)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", name, err)
		}

		if err := os.WriteFile(outputPath, content, 0600); err != nil {
			return fmt.Errorf("failed to write configuration file: %w", err)
		}

		fmt.Printf("Created %s\n", outputPath)
	}

	fmt.Println("\nEdit these files to tune the transformation:")
	fmt.Println("  - homoglyph.yaml: which characters and words get look-alike substitutes")
	fmt.Println("  - invisible.yaml: which invisible codepoints get injected")
	fmt.Println("  - veiltext.yaml:  sample profile; copy it to .veiltext to activate")

	return nil
}
