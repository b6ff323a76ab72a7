package richtext

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is.
var (
	// ErrNotFound indicates a block or entity key that is absent from the document.
	ErrNotFound = errors.New("not found")

	// ErrInvalidSelection indicates a selection that references unknown keys or out-of-range offsets.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrMalformedWireFormat indicates that a serialized document failed validation.
	ErrMalformedWireFormat = errors.New("malformed wire format")

	// ErrEntityTypeMismatch indicates replacement data of a different entity variant.
	ErrEntityTypeMismatch = errors.New("entity type mismatch")
)

// NotFoundError reports a missing block or entity key.
type NotFoundError struct {
	// Kind is "block" or "entity".
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// Is makes errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidSelectionError reports why a selection cannot be resolved against a document.
type InvalidSelectionError struct {
	Key    string
	Offset int
	Reason string
}

func (e *InvalidSelectionError) Error() string {
	if e.Key == "" {
		return "invalid selection: " + e.Reason
	}
	return fmt.Sprintf("invalid selection at %q:%d: %s", e.Key, e.Offset, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidSelection) match.
func (e *InvalidSelectionError) Is(target error) bool {
	return target == ErrInvalidSelection
}

// MalformedWireFormatError describes the first violation found while importing a document.
type MalformedWireFormatError struct {
	// Path locates the offending value, e.g. "blocks[0].entityRanges[1]".
	Path    string
	Message string
	Err     error
}

func (e *MalformedWireFormatError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Path == "" {
		return "malformed wire format: " + msg
	}
	return fmt.Sprintf("malformed wire format at %s: %s", e.Path, msg)
}

func (e *MalformedWireFormatError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrMalformedWireFormat) match.
func (e *MalformedWireFormatError) Is(target error) bool {
	return target == ErrMalformedWireFormat
}

func malformed(path, format string, args ...any) error {
	return &MalformedWireFormatError{Path: path, Message: fmt.Sprintf(format, args...)}
}
