package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/richdraft/pkg/config"
	"github.com/yaklabco/richdraft/pkg/convert"
	"github.com/yaklabco/richdraft/pkg/docfile"
	"github.com/yaklabco/richdraft/pkg/fsutil"
	"github.com/yaklabco/richdraft/pkg/reporter"
	"github.com/yaklabco/richdraft/pkg/runner"
)

type exportFlags struct {
	format string
	output string
	outDir string
	jobs   int
}

func newExportCommand() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export <path>... ",
		Short: "Convert documents to Markdown, HTML, JSON or text",
		Long: `Convert documents to another format.

A single document is written to stdout, or to --output. With several
documents or a directory, --out-dir is required and each document is
written there with the format's extension.

Examples:
  richdraft export doc.json                      Markdown on stdout
  richdraft export doc.json -f html -o doc.html
  richdraft export drafts/ -f html --out-dir site/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "markdown", "output format: markdown, html, json, text")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file for a single document")
	cmd.Flags().StringVar(&flags.outDir, "out-dir", "", "output directory for several documents")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string, flags *exportFlags) error {
	ctx := commandContext(cmd)

	format, err := convert.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	cfg, err := loadConfig(cmd, &config.Config{Jobs: flags.jobs, Format: string(format)})
	if err != nil {
		return err
	}
	exportOpts := convert.ExportOptions{Indent: cfg.Output.Indent, Sanitize: cfg.SanitizeHTML()}

	if flags.outDir == "" {
		if len(args) > 1 {
			return usageError("--out-dir is required when exporting %d documents", len(args))
		}
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			return usageError("--out-dir is required when exporting a directory")
		}

		doc, err := docfile.Open(ctx, args[0])
		if err != nil {
			return err
		}
		out, err := convert.Export(doc.Content, format, exportOpts)
		if err != nil {
			return err
		}
		return writeOutput(ctx, cmd.OutOrStdout(), flags.output, out)
	}

	if flags.output != "" {
		return usageError("--output and --out-dir are mutually exclusive")
	}
	if err := os.MkdirAll(flags.outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", flags.outDir, err)
	}

	batch := runner.New(func(ctx context.Context, doc *docfile.Document) (string, error) {
		out, err := convert.Export(doc.Content, format, exportOpts)
		if err != nil {
			return "", err
		}
		base := strings.TrimSuffix(filepath.Base(doc.Path), filepath.Ext(doc.Path))
		target := filepath.Join(flags.outDir, base+format.Extension())
		if err := fsutil.WriteAtomic(ctx, target, out, fsutil.DefaultFileMode); err != nil {
			return "", err
		}
		return target, nil
	})

	return runBatch(cmd, cfg, batch, args, reporter.FormatText)
}

// runBatch runs batch over paths and reports the outcome in format.
func runBatch(cmd *cobra.Command, cfg *config.Config, batch *runner.Runner, paths []string, format reporter.Format) error {
	ctx := commandContext(cmd)

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	result, err := batch.Run(ctx, runner.Options{
		Paths:        paths,
		WorkingDir:   workDir,
		Extensions:   runner.DefaultExtensions(),
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
	})
	if err != nil {
		return err
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       cfg.Output.Color,
		ShowSummary: true,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	failed, err := rep.Report(ctx, result)
	if err != nil {
		return fmt.Errorf("report results: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrInvalidDocuments, failed, result.Stats.FilesDiscovered)
	}
	return nil
}

