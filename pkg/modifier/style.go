package modifier

import (
	"github.com/yaklabco/richdraft/pkg/richtext"
	"github.com/yaklabco/richdraft/pkg/selection"
)

// ApplyInlineStyle adds style to every character in sel.
func ApplyInlineStyle(content *richtext.Content, sel selection.Selection, style string) (*richtext.Content, error) {
	span, err := selection.Resolve(content, sel)
	if err != nil {
		return nil, err
	}
	return mapSpan(content, span, func(m richtext.CharMeta) richtext.CharMeta {
		m.Style = m.Style.Add(style)
		return m
	})
}

// RemoveInlineStyle removes style from every character in sel.
func RemoveInlineStyle(content *richtext.Content, sel selection.Selection, style string) (*richtext.Content, error) {
	span, err := selection.Resolve(content, sel)
	if err != nil {
		return nil, err
	}
	return mapSpan(content, span, func(m richtext.CharMeta) richtext.CharMeta {
		m.Style = m.Style.Remove(style)
		return m
	})
}

// HasInlineStyle reports whether every character in sel carries style.
// A selection that covers no characters reports false.
func HasInlineStyle(content *richtext.Content, sel selection.Selection, style string) (bool, error) {
	span, err := selection.Resolve(content, sel)
	if err != nil {
		return false, err
	}
	all, _ := everyChar(content, span, func(m richtext.CharMeta) bool {
		return m.Style.Has(style)
	})
	return all, nil
}

// ToggleInlineStyle removes style from sel when every selected character has
// it and adds it to all of them otherwise. A collapsed selection leaves the
// stored ranges untouched.
func ToggleInlineStyle(content *richtext.Content, sel selection.Selection, style string) (*richtext.Content, error) {
	span, err := selection.Resolve(content, sel)
	if err != nil {
		return nil, err
	}
	if span.IsCollapsed() {
		return content, nil
	}

	all, touched := everyChar(content, span, func(m richtext.CharMeta) bool {
		return m.Style.Has(style)
	})
	if !touched {
		return content, nil
	}

	if all {
		return mapSpan(content, span, func(m richtext.CharMeta) richtext.CharMeta {
			m.Style = m.Style.Remove(style)
			return m
		})
	}
	return mapSpan(content, span, func(m richtext.CharMeta) richtext.CharMeta {
		m.Style = m.Style.Add(style)
		return m
	})
}

// StyleAtSelection returns the styles in effect for sel: the styles of the
// character before a caret, or of the first selected character.
func StyleAtSelection(content *richtext.Content, sel selection.Selection) (richtext.StyleSet, error) {
	span, err := selection.Resolve(content, sel)
	if err != nil {
		return richtext.StyleSet{}, err
	}

	block := content.BlockAt(span.StartIndex)
	if span.IsCollapsed() {
		if span.StartOffset > 0 {
			return block.StyleAt(span.StartOffset - 1), nil
		}
		if block.Len() > 0 {
			return block.StyleAt(0), nil
		}
		return styleBeforeEmptyBlock(content, span.StartIndex), nil
	}

	if span.StartOffset == block.Len() && span.StartIndex < span.EndIndex {
		for idx := span.StartIndex + 1; idx <= span.EndIndex; idx++ {
			if next := content.BlockAt(idx); next.Len() > 0 {
				return next.StyleAt(0), nil
			}
		}
	}
	return block.StyleAt(span.StartOffset), nil
}

// styleBeforeEmptyBlock looks backwards for the last styled character.
func styleBeforeEmptyBlock(content *richtext.Content, idx int) richtext.StyleSet {
	for i := idx - 1; i >= 0; i-- {
		block := content.BlockAt(i)
		if block.Len() > 0 {
			return block.StyleAt(block.Len() - 1)
		}
	}
	return richtext.StyleSet{}
}
