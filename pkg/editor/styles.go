package editor

import (
	"slices"

	"github.com/yaklabco/richdraft/pkg/modifier"
	"github.com/yaklabco/richdraft/pkg/richtext"
)

// ToggleInlineStyle toggles style over the selection. On a caret only the
// style override changes.
func ToggleInlineStyle(s State, style string) (State, error) {
	if s.Selection.IsCollapsed() {
		current, err := CurrentInlineStyle(s)
		if err != nil {
			return s, err
		}
		return s.withOverride(current.Toggle(style)), nil
	}

	content, err := modifier.ToggleInlineStyle(s.Content, s.Selection, style)
	if err != nil {
		return s, err
	}
	return s.push(content), nil
}

// ToggleBlockType toggles typ on the blocks touched by the selection.
func ToggleBlockType(s State, typ richtext.BlockType) (State, error) {
	content, err := modifier.ToggleBlockType(s.Content, s.Selection, typ)
	if err != nil {
		return s, err
	}
	return s.push(content), nil
}

// ColorGroup is a set of mutually exclusive colour styles. The first entry is
// the default colour, which is represented by the absence of any group style.
type ColorGroup []string

// Default returns the default colour, or "" for an empty group.
func (g ColorGroup) Default() string {
	if len(g) == 0 {
		return ""
	}
	return g[0]
}

// Contains reports whether style belongs to the group.
func (g ColorGroup) Contains(style string) bool {
	return slices.Contains(g, style)
}

// ApplyColor replaces any colour of group over the selection with color.
// Choosing the default colour only clears the group. On a caret the style
// override keeps the active styles outside the group.
func ApplyColor(s State, group ColorGroup, color string) (State, error) {
	current, err := CurrentInlineStyle(s)
	if err != nil {
		return s, err
	}

	content := s.Content
	for _, style := range group {
		content, err = modifier.RemoveInlineStyle(content, s.Selection, style)
		if err != nil {
			return s, err
		}
	}
	next := s.push(content)

	// Picking the colour that is already active clears it.
	apply := color != group.Default() && !current.Has(color)

	if s.Selection.IsCollapsed() {
		override := richtext.StyleSet{}
		for _, style := range current.Names() {
			if !group.Contains(style) {
				override = override.Add(style)
			}
		}
		if apply {
			override = override.Add(color)
		}
		return next.withOverride(override), nil
	}

	if !apply {
		return next, nil
	}

	content, err = modifier.ApplyInlineStyle(next.Content, s.Selection, color)
	if err != nil {
		return s, err
	}
	return next.push(content), nil
}
