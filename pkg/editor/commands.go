package editor

import (
	"fmt"

	"github.com/yaklabco/richdraft/pkg/modifier"
	"github.com/yaklabco/richdraft/pkg/richtext"
	"github.com/yaklabco/richdraft/pkg/selection"
)

// Command names understood by HandleKeyCommand.
const (
	CommandBold            = "bold"
	CommandItalic          = "italic"
	CommandUnderline       = "underline"
	CommandCode            = "code"
	CommandStrikethrough   = "strikethrough"
	CommandSplitBlock      = "split-block"
	CommandBackspace       = "backspace"
	CommandBackspaceWord   = "backspace-word"
	CommandBackspaceToLine = "backspace-to-start-of-line"
	CommandDelete          = "delete"
	CommandDeleteWord      = "delete-word"
	CommandDeleteToLine    = "delete-to-end-of-block"
)

//nolint:gochecknoglobals // lookup table
var styleCommands = map[string]string{
	CommandBold:          richtext.StyleBold,
	CommandItalic:        richtext.StyleItalic,
	CommandUnderline:     richtext.StyleUnderline,
	CommandCode:          richtext.StyleCode,
	CommandStrikethrough: richtext.StyleStrikethrough,
}

// HandleKeyCommand routes a named editing command to the matching primitive.
// Unknown commands, and known ones that do not apply to the current state,
// return s unchanged with ErrUnhandled.
func HandleKeyCommand(s State, command string) (State, error) {
	if style, ok := styleCommands[command]; ok {
		return ToggleInlineStyle(s, style)
	}

	var (
		next State
		ok   bool
		err  error
	)
	switch command {
	case CommandSplitBlock:
		next, err = splitBlock(s)
		ok = err == nil
	case CommandBackspace, CommandBackspaceWord, CommandBackspaceToLine:
		next, ok, err = backspace(s)
	case CommandDelete, CommandDeleteWord, CommandDeleteToLine:
		next, ok, err = deleteForward(s)
	default:
		return s, fmt.Errorf("%q: %w", command, ErrUnhandled)
	}

	if err != nil {
		return s, err
	}
	if !ok {
		return s, fmt.Errorf("%q: %w", command, ErrUnhandled)
	}
	return next, nil
}

func splitBlock(s State) (State, error) {
	content, caret, err := modifier.SplitBlock(s.Content, s.Selection)
	if err != nil {
		return s, err
	}
	return s.push(content).WithSelection(caret), nil
}

// backspace handles the structural cases at the start of a block: removing
// a preceding atomic block, and resetting a styled block to unstyled. Plain
// character deletion is left to the host.
func backspace(s State) (State, bool, error) {
	span, err := selection.Resolve(s.Content, s.Selection)
	if err != nil {
		return s, false, err
	}
	if !span.IsCollapsed() {
		content, caret, err := modifier.RemoveRange(s.Content, s.Selection)
		if err != nil {
			return s, false, err
		}
		return s.push(content).WithSelection(caret), true, nil
	}
	if span.StartOffset != 0 {
		return s, false, nil
	}

	block := s.Content.BlockAt(span.StartIndex)
	before := s.Content.BlockBefore(block.Key())

	if before != nil && before.Type() == richtext.Atomic {
		content, err := modifier.RemoveBlock(s.Content, before.Key())
		if err != nil {
			return s, false, err
		}
		return s.push(content), true, nil
	}

	if block.Type() == richtext.Unstyled {
		return s, false, nil
	}
	if block.Type() == richtext.CodeBlock && before != nil && before.Type() == richtext.CodeBlock && before.Len() > 0 {
		return s, false, nil
	}

	content, err := modifier.SetBlockType(s.Content, s.Selection, richtext.Unstyled)
	if err != nil {
		return s, false, err
	}
	return s.push(content), true, nil
}

// deleteForward removes an atomic block that follows a caret at the end of a block.
func deleteForward(s State) (State, bool, error) {
	span, err := selection.Resolve(s.Content, s.Selection)
	if err != nil {
		return s, false, err
	}
	if !span.IsCollapsed() {
		content, caret, err := modifier.RemoveRange(s.Content, s.Selection)
		if err != nil {
			return s, false, err
		}
		return s.push(content).WithSelection(caret), true, nil
	}

	block := s.Content.BlockAt(span.StartIndex)
	if span.StartOffset != block.Len() {
		return s, false, nil
	}

	after := s.Content.BlockAfter(block.Key())
	if after == nil || after.Type() != richtext.Atomic {
		return s, false, nil
	}

	content, err := modifier.RemoveBlock(s.Content, after.Key())
	if err != nil {
		return s, false, err
	}
	return s.push(content), true, nil
}

// OnTab adjusts the depth of a list item under a single-block selection.
// Other states are returned unchanged.
func OnTab(s State, shift bool, maxDepth int) (State, error) {
	if s.Selection.AnchorKey != s.Selection.FocusKey {
		return s, nil
	}

	block, err := s.Content.Block(s.Selection.AnchorKey)
	if err != nil {
		return s, &richtext.InvalidSelectionError{Key: s.Selection.AnchorKey, Reason: "unknown block"}
	}
	if !block.Type().IsList() {
		return s, nil
	}
	if !shift && block.Depth() >= maxDepth {
		return s, nil
	}

	adjustment := 1
	if shift {
		adjustment = -1
	}

	content, err := modifier.AdjustBlockDepth(s.Content, s.Selection, adjustment, maxDepth)
	if err != nil {
		return s, err
	}
	return s.push(content), nil
}
