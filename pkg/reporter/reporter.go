// Package reporter writes the outcome of batch document runs.
package reporter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/richdraft/pkg/runner"
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes result and returns the number of files that failed.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for opts.Format.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatSummary:
		opts.ShowSummary = false
		return &summaryReporter{text: NewTextReporter(opts)}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func failures(result *runner.Result) int {
	if result == nil {
		return 0
	}
	return result.Stats.FilesInvalid + result.Stats.FilesErrored
}

func displayPath(path, workDir string) string {
	if workDir == "" {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	return rel
}
