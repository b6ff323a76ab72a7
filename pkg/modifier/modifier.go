// Package modifier implements the pure mutation operations over document
// snapshots. Every function takes a snapshot and a selection and returns a new
// snapshot; the inputs are never modified and a failed call leaves no partial
// result behind.
package modifier

import (
	"fmt"

	"github.com/yaklabco/richdraft/pkg/richtext"
	"github.com/yaklabco/richdraft/pkg/selection"
)

// mapSpan applies fn to every character covered by span and swaps the
// affected blocks into a new snapshot.
func mapSpan(
	content *richtext.Content,
	span selection.Span,
	fn func(richtext.CharMeta) richtext.CharMeta,
) (*richtext.Content, error) {
	return mapBlocks(content, span, func(idx int, block *richtext.Block) *richtext.Block {
		start, end, _ := span.BlockRange(idx, block.Len())
		return block.MapChars(start, end, fn)
	})
}

// mapBlocks replaces every block touched by span with fn's result.
func mapBlocks(
	content *richtext.Content,
	span selection.Span,
	fn func(idx int, block *richtext.Block) *richtext.Block,
) (*richtext.Content, error) {
	changed := false
	replaced := make([]*richtext.Block, 0, span.EndIndex-span.StartIndex+1)
	for idx := span.StartIndex; idx <= span.EndIndex; idx++ {
		block := content.BlockAt(idx)
		next := fn(idx, block)
		if next != block {
			changed = true
		}
		replaced = append(replaced, next)
	}

	if !changed {
		return content, nil
	}

	out, err := content.Splice(span.StartIndex, len(replaced), replaced...)
	if err != nil {
		return nil, fmt.Errorf("replace blocks: %w", err)
	}
	return out, nil
}

// everyChar reports whether pred holds for every character covered by span.
// The second result is false when the span covers no characters.
func everyChar(content *richtext.Content, span selection.Span, pred func(richtext.CharMeta) bool) (bool, bool) {
	touched := false
	for idx := span.StartIndex; idx <= span.EndIndex; idx++ {
		block := content.BlockAt(idx)
		start, end, _ := span.BlockRange(idx, block.Len())
		for i := start; i < end; i++ {
			touched = true
			if !pred(block.CharAt(i)) {
				return false, true
			}
		}
	}
	return touched, touched
}

// rebuild returns block with its text and annotations replaced.
func rebuild(block *richtext.Block, text []rune, chars []richtext.CharMeta) (*richtext.Block, error) {
	cfg := block.Config()
	cfg.Text = string(text)
	cfg.Chars = chars
	out, err := richtext.NewBlockFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("rebuild block %q: %w", block.Key(), err)
	}
	return out, nil
}
