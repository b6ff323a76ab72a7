package editor

import "errors"

var (
	// ErrUnhandled is returned for commands the editor leaves to the host.
	ErrUnhandled = errors.New("command not handled")

	// ErrCollapsedSelection is returned by operations that need selected text.
	ErrCollapsedSelection = errors.New("selection is collapsed")

	// ErrNotCollapsed is returned by operations that need a caret.
	ErrNotCollapsed = errors.New("selection is not collapsed")

	// ErrUnknownAction is returned when decoding an unrecognised action.
	ErrUnknownAction = errors.New("unknown action")
)
