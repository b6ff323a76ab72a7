package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/richdraft/internal/logging"
	"github.com/yaklabco/richdraft/pkg/config"
	"github.com/yaklabco/richdraft/pkg/fsutil"
)

type initFlags struct {
	force  bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a richdraft configuration file",
		Long: `Create a .richdraft.yml configuration file in the current directory.
Every setting is present with its default value and a short description.

Examples:
  richdraft init                     Create .richdraft.yml
  richdraft init --format json       Create .richdraft.json instead
  richdraft init -o custom.yml       Write to a custom path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output path (default: .richdraft.yml or .richdraft.json)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	if flags.format != "yaml" && flags.format != "json" {
		return usageError("invalid format %q: must be yaml or json", flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".richdraft.yml"
		if flags.format == "json" {
			outputPath = ".richdraft.json"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if fileExists(absPath) {
		if !flags.force {
			return usageError("file %q already exists; use --force to overwrite", outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Format: flags.format})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(commandContext(cmd), absPath, content, fsutil.DefaultFileMode); err != nil {
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	if flags.format == "json" {
		logger.Info("json files are not discovered automatically; pass them with --config")
	}

	return nil
}
