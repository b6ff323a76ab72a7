package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/richdraft/internal/logging"
	"github.com/yaklabco/richdraft/pkg/config"
	"github.com/yaklabco/richdraft/pkg/docfile"
	"github.com/yaklabco/richdraft/pkg/reporter"
	"github.com/yaklabco/richdraft/pkg/richtext"
	"github.com/yaklabco/richdraft/pkg/runner"
)

type checkFlags struct {
	format string
	ignore []string
	jobs   int
}

func newCheckCommand() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Validate document files",
		Long: `Validate raw draft JSON documents.

Each file must parse, satisfy the document invariants (unique block keys,
ranges inside the text, entity references that resolve) and survive a
save/open round trip unchanged. Directories are searched for .json files.

Examples:
  richdraft check                     Check the current directory
  richdraft check drafts/ a.json      Check a directory and a file
  richdraft check --format json       Machine-readable output`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, summary")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, flags *checkFlags) error {
	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	cli := &config.Config{Jobs: flags.jobs, Format: string(format)}
	if flags.ignore != nil {
		cli.Ignore = flags.ignore
	}
	cfg, err := loadConfig(cmd, cli)
	if err != nil {
		return err
	}

	logging.Default().Debug("starting check",
		logging.FieldPaths, args,
		logging.FieldJobs, cfg.Jobs,
	)

	return runBatch(cmd, cfg, runner.New(checkRoundTrip), args, format)
}

// checkRoundTrip verifies that a parsed document encodes back to an equal one.
func checkRoundTrip(_ context.Context, doc *docfile.Document) (string, error) {
	data, err := richtext.MarshalRaw(doc.Content, 0)
	if err != nil {
		return "", err
	}
	again, err := richtext.Parse(data)
	if err != nil {
		return "", fmt.Errorf("re-parse: %w", err)
	}
	if !doc.Content.Equal(again) {
		return "", fmt.Errorf("%w: document changes on save", richtext.ErrMalformedWireFormat)
	}
	return "", nil
}
