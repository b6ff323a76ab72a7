package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/richdraft/pkg/docfile"
)

// ProcessFunc runs against each successfully opened document. A nil
// ProcessFunc only validates.
type ProcessFunc func(ctx context.Context, doc *docfile.Document) (string, error)

// Runner opens every discovered document and applies Process to it.
type Runner struct {
	Process ProcessFunc
}

// New creates a Runner.
func New(process ProcessFunc) *Runner {
	return &Runner{Process: process}
}

// Run discovers files and processes them with at most opts.Jobs workers.
// Per-file failures are recorded in the result; only discovery errors and
// cancellation are returned as errors.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.process(gctx, path)
			done[i] = true
			return nil
		})
	}

	waitErr := group.Wait()

	for i, outcome := range outcomes {
		if done[i] {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	if waitErr != nil {
		return result, fmt.Errorf("run: %w", waitErr)
	}
	return result, nil
}

func (r *Runner) process(ctx context.Context, path string) FileOutcome {
	outcome := FileOutcome{Path: path}

	doc, err := docfile.Open(ctx, path)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Blocks = doc.Content.BlockCount()
	outcome.Entities = doc.Content.EntityCount()

	if r.Process != nil {
		outcome.Output, outcome.Err = r.Process(ctx, doc)
	}
	return outcome
}
