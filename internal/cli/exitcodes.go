package cli

import (
	"errors"

	"github.com/yaklabco/richdraft/pkg/fsutil"
	"github.com/yaklabco/richdraft/pkg/richtext"
)

// Exit codes for richdraft.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitInvalidDocuments indicates one or more documents failed validation.
	ExitInvalidDocuments = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrInvalidDocuments is returned when a batch contained invalid documents.
	ErrInvalidDocuments = errors.New("invalid documents found")

	// ErrUsage marks errors caused by bad flags or arguments.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig marks configuration errors.
	ErrConfig = errors.New("configuration error")
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrInvalidDocuments),
		errors.Is(err, richtext.ErrMalformedWireFormat):
		return ExitInvalidDocuments
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fsutil.ErrChangedOnDisk):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
