package modifier

import (
	"github.com/yaklabco/richdraft/pkg/richtext"
	"github.com/yaklabco/richdraft/pkg/selection"
)

// ApplyEntity sets key as the entity of every character in sel. NoEntity
// clears entities over the range.
func ApplyEntity(content *richtext.Content, sel selection.Selection, key richtext.EntityKey) (*richtext.Content, error) {
	span, err := selection.Resolve(content, sel)
	if err != nil {
		return nil, err
	}
	if key != richtext.NoEntity {
		if _, err := content.Entity(key); err != nil {
			return nil, err
		}
	}
	return mapSpan(content, span, func(m richtext.CharMeta) richtext.CharMeta {
		m.Entity = key
		return m
	})
}

// ToggleLink applies key over sel, or removes entities when key is NoEntity.
func ToggleLink(content *richtext.Content, sel selection.Selection, key richtext.EntityKey) (*richtext.Content, error) {
	return ApplyEntity(content, sel, key)
}

// EntityAtSelection returns the entity under the start of sel, or NoEntity.
// For a caret the character after it is inspected.
func EntityAtSelection(content *richtext.Content, sel selection.Selection) (richtext.EntityKey, error) {
	span, err := selection.Resolve(content, sel)
	if err != nil {
		return richtext.NoEntity, err
	}
	return content.BlockAt(span.StartIndex).EntityAt(span.StartOffset), nil
}
