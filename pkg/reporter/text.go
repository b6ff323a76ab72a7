package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/richdraft/internal/ui/pretty"
	"github.com/yaklabco/richdraft/pkg/runner"
)

// TextReporter writes one styled line per file.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No documents to check."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		file.Path = displayPath(file.Path, r.opts.WorkingDir)
		fmt.Fprint(r.bw, r.styles.FormatOutcome(file))
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}
	return failures(result), nil
}

// summaryReporter prints only the aggregate block.
type summaryReporter struct {
	text *TextReporter
}

func (r *summaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.text.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	var stats runner.Stats
	if result != nil {
		stats = result.Stats
	}
	fmt.Fprint(r.text.bw, r.text.styles.FormatSummary(stats))
	return failures(result), nil
}
