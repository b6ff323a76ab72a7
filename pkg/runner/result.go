package runner

import (
	"errors"

	"github.com/yaklabco/richdraft/pkg/richtext"
)

// Status classifies a FileOutcome.
type Status string

// Outcome statuses.
const (
	StatusOK      Status = "ok"
	StatusInvalid Status = "invalid"
	StatusError   Status = "error"
)

// FileOutcome is the result for one file.
type FileOutcome struct {
	Path string

	// Blocks and Entities describe the document when it was read.
	Blocks   int
	Entities int

	// Output is whatever the process function produced.
	Output string

	Err error
}

// Status reports whether the file was processed, rejected as a malformed
// document, or failed for another reason.
func (o FileOutcome) Status() Status {
	switch {
	case o.Err == nil:
		return StatusOK
	case errors.Is(o.Err, richtext.ErrMalformedWireFormat):
		return StatusInvalid
	default:
		return StatusError
	}
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesOK         int
	FilesInvalid    int
	FilesErrored    int
	BlocksTotal     int
	EntitiesTotal   int
}

// Result holds outcomes in path order.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports whether any file was invalid or failed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesInvalid > 0 || r.Stats.FilesErrored > 0
}

func (r *Result) accumulate(o FileOutcome) {
	r.Files = append(r.Files, o)

	switch o.Status() {
	case StatusOK:
		r.Stats.FilesOK++
		r.Stats.BlocksTotal += o.Blocks
		r.Stats.EntitiesTotal += o.Entities
	case StatusInvalid:
		r.Stats.FilesInvalid++
	case StatusError:
		r.Stats.FilesErrored++
	}
}
