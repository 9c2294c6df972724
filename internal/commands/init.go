package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/collectivites/m57/internal/archive"
	"github.com/collectivites/m57/internal/config"
	"github.com/collectivites/m57/internal/id"
	"github.com/collectivites/m57/internal/nomenclature"
)

func newInitCommand() *cobra.Command {
	var name string
	var siren string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new report workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, name, siren)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "municipality name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&siren, "siren", "", "default SIREN of the municipality")

	return cmd
}

func runInit(out io.Writer, dir, name, siren string) error {
	if siren != "" && !id.ValidSIREN(siren) {
		return fmt.Errorf("invalid SIREN %q: expected 9 digits", siren)
	}

	// Create directory structure.
	dirs := []string{
		"import",
		filepath.Join("import", "processed"),
		"reports",
		"logs",
		"nomenclature",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write m57.yaml.
	cfg := config.Default(siren, name)
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the nomenclature.
	chart := nomenclature.NewChart(nomenclature.DefaultChart())
	if err := chart.Save(dir); err != nil {
		return fmt.Errorf("writing nomenclature: %w", err)
	}

	// Write .gitignore.
	gitignore := ".env\n*.tmp\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	for _, d := range []string{"import", "reports"} {
		if err := os.WriteFile(filepath.Join(dir, d, ".gitkeep"), []byte{}, 0o644); err != nil {
			return fmt.Errorf("writing .gitkeep: %w", err)
		}
	}

	// Initialize git and create initial commit.
	if err := archive.Init(dir); err != nil {
		return err
	}

	author := archive.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := archive.Commit(dir, "init: Initialize "+name, author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized m57 workspace at %s (%s)\n", dir, hash)
	return nil
}
