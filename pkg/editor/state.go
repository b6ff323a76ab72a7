// Package editor holds the (snapshot, selection) pair owned by a user
// interface and the reducer that turns actions into new states.
package editor

import (
	"github.com/yaklabco/richdraft/pkg/modifier"
	"github.com/yaklabco/richdraft/pkg/richtext"
	"github.com/yaklabco/richdraft/pkg/selection"
)

// DefaultMaxDepth is the deepest list nesting reachable with Tab.
const DefaultMaxDepth = 4

// State is an immutable editor state.
type State struct {
	Content   *richtext.Content
	Selection selection.Selection
	// StyleOverride, when set, is the style for the next typed character.
	// It is produced by style changes on a caret and cleared by any
	// selection change.
	StyleOverride *richtext.StyleSet
}

// NewState returns a state with a caret at the start of the first block.
func NewState(content *richtext.Content) State {
	return State{
		Content:   content,
		Selection: selection.Collapsed(content.FirstBlock().Key(), 0),
	}
}

// WithSelection returns s with sel selected and the style override cleared.
func (s State) WithSelection(sel selection.Selection) State {
	s.Selection = sel
	s.StyleOverride = nil
	return s
}

// push returns s holding content with the override kept.
func (s State) push(content *richtext.Content) State {
	s.Content = content
	return s
}

func (s State) withOverride(styles richtext.StyleSet) State {
	s.StyleOverride = &styles
	return s
}

// CurrentInlineStyle returns the override when set, or the styles at the selection.
func CurrentInlineStyle(s State) (richtext.StyleSet, error) {
	if s.StyleOverride != nil {
		return *s.StyleOverride, nil
	}
	return modifier.StyleAtSelection(s.Content, s.Selection)
}

// CurrentBlockType returns the type of the block at the selection start.
func CurrentBlockType(s State) (richtext.BlockType, error) {
	return modifier.BlockTypeAtSelection(s.Content, s.Selection)
}
