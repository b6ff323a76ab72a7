package editor

import (
	"fmt"

	"github.com/yaklabco/richdraft/pkg/modifier"
	"github.com/yaklabco/richdraft/pkg/richtext"
)

// DefaultAtomicPlaceholder is the text carried by inserted atomic blocks.
const DefaultAtomicPlaceholder = " "

// InsertAtomicBlock inserts an atomic block referencing key at the selection.
func InsertAtomicBlock(s State, key richtext.EntityKey, placeholder string) (State, error) {
	content, caret, err := modifier.InsertAtomicBlock(s.Content, s.Selection, key, placeholder)
	if err != nil {
		return s, err
	}
	return s.push(content).WithSelection(caret), nil
}

// InsertMedia creates an IMMUTABLE image or video entity and inserts it as an
// atomic block. The selection must be a caret.
func InsertMedia(s State, data richtext.EntityData, placeholder string) (State, error) {
	switch data.EntityType() {
	case richtext.EntityImage, richtext.EntityVideo:
	default:
		return s, fmt.Errorf("insert media of type %s: unsupported", data.EntityType())
	}
	if !s.Selection.IsCollapsed() {
		return s, fmt.Errorf("insert media: %w", ErrNotCollapsed)
	}

	content, key := s.Content.CreateEntity(richtext.Immutable, data)
	return InsertAtomicBlock(s.push(content), key, placeholder)
}

// InsertDivider turns the blocks at the selection into horizontal rules.
func InsertDivider(s State) (State, error) {
	return ToggleBlockType(s, richtext.HorizontalRule)
}
