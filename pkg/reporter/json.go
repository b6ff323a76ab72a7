package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yaklabco/richdraft/pkg/richtext"
	"github.com/yaklabco/richdraft/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult is one file's outcome.
type JSONFileResult struct {
	Path     string `json:"path"`
	Status   string `json:"status"`
	Blocks   int    `json:"blocks,omitempty"`
	Entities int    `json:"entities,omitempty"`
	Output   string `json:"output,omitempty"`
	Error    string `json:"error,omitempty"`

	// ErrorPath locates a wire-format violation, e.g. "blocks[0].entityRanges[0]".
	ErrorPath string `json:"errorPath,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked  int `json:"filesChecked"`
	FilesValid    int `json:"filesValid"`
	FilesInvalid  int `json:"filesInvalid"`
	FilesErrored  int `json:"filesErrored"`
	BlocksTotal   int `json:"blocksTotal"`
	EntitiesTotal int `json:"entitiesTotal"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(r.buildOutput(result)); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}
	return failures(result), nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{Version: "1.0.0", Files: []JSONFileResult{}}
	if result == nil {
		return output
	}

	for _, file := range result.Files {
		entry := JSONFileResult{
			Path:     displayPath(file.Path, r.opts.WorkingDir),
			Status:   string(file.Status()),
			Blocks:   file.Blocks,
			Entities: file.Entities,
			Output:   file.Output,
		}
		if file.Err != nil {
			entry.Error = file.Err.Error()
			var malformed *richtext.MalformedWireFormatError
			if errors.As(file.Err, &malformed) {
				entry.ErrorPath = malformed.Path
			}
		}
		output.Files = append(output.Files, entry)
	}

	output.Summary = JSONSummary{
		FilesChecked:  result.Stats.FilesDiscovered,
		FilesValid:    result.Stats.FilesOK,
		FilesInvalid:  result.Stats.FilesInvalid,
		FilesErrored:  result.Stats.FilesErrored,
		BlocksTotal:   result.Stats.BlocksTotal,
		EntitiesTotal: result.Stats.EntitiesTotal,
	}
	return output
}
