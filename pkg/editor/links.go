package editor

import (
	"github.com/yaklabco/richdraft/pkg/modifier"
	"github.com/yaklabco/richdraft/pkg/richtext"
	"github.com/yaklabco/richdraft/pkg/selection"
)

// ToggleLink applies key over the selection, or clears entities for NoEntity.
func ToggleLink(s State, key richtext.EntityKey) (State, error) {
	content, err := modifier.ToggleLink(s.Content, s.Selection, key)
	if err != nil {
		return s, err
	}
	return s.push(content), nil
}

// LinkAtSelection returns the LINK entity at the selection start, if any.
func LinkAtSelection(s State) (*richtext.Entity, bool, error) {
	key, err := modifier.EntityAtSelection(s.Content, s.Selection)
	if err != nil {
		return nil, false, err
	}
	if key == richtext.NoEntity {
		return nil, false, nil
	}

	entity, err := s.Content.Entity(key)
	if err != nil {
		return nil, false, err
	}
	if entity.Type() != richtext.EntityLink {
		return nil, false, nil
	}
	return entity, true, nil
}

// CanEditLink reports whether a link may be created or edited: the selection
// spans text, or the caret sits on an existing link.
func CanEditLink(s State) (bool, error) {
	if !s.Selection.IsCollapsed() {
		return true, nil
	}
	_, ok, err := LinkAtSelection(s)
	return ok, err
}

// ConfirmLink edits the link at the selection start when one exists, and
// otherwise creates a MUTABLE link and applies it to the selected text.
func ConfirmLink(s State, url string, targetBlank bool) (State, error) {
	data := richtext.LinkData{URL: url}
	if targetBlank {
		data.Target = richtext.TargetBlank
	}

	existing, ok, err := LinkAtSelection(s)
	if err != nil {
		return s, err
	}
	if ok {
		content, err := s.Content.ReplaceEntityData(existing.Key(), data)
		if err != nil {
			return s, err
		}
		return s.push(content), nil
	}

	if s.Selection.IsCollapsed() {
		return s, ErrCollapsedSelection
	}

	content, key := s.Content.CreateEntity(richtext.Mutable, data)
	content, err = modifier.ToggleLink(content, s.Selection, key)
	if err != nil {
		return s, err
	}
	return s.push(content), nil
}

// LinkRemovalSelection returns the range cleared by RemoveLink. It starts at
// the end of the block before the selection start, or at offset zero of the
// start block when there is none, and runs to the end of the selection's
// last block.
func LinkRemovalSelection(s State) (selection.Selection, error) {
	span, err := selection.Resolve(s.Content, s.Selection)
	if err != nil {
		return selection.Selection{}, err
	}

	anchor := selection.Point{Key: span.StartKey}
	if before := s.Content.BlockBefore(span.StartKey); before != nil {
		anchor = selection.Point{Key: before.Key(), Offset: before.Len()}
	}
	end := s.Content.BlockAt(span.EndIndex)

	return selection.Range(anchor, selection.Point{Key: end.Key(), Offset: end.Len()}), nil
}

// RemoveLink clears entities over LinkRemovalSelection. The widened range
// also clears any other entity in it.
func RemoveLink(s State) (State, error) {
	target, err := LinkRemovalSelection(s)
	if err != nil {
		return s, err
	}
	content, err := modifier.ToggleLink(s.Content, target, richtext.NoEntity)
	if err != nil {
		return s, err
	}
	return s.push(content), nil
}
