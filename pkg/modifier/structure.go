package modifier

import (
	"fmt"
	"slices"

	"github.com/yaklabco/richdraft/pkg/richtext"
	"github.com/yaklabco/richdraft/pkg/selection"
)

// RemoveRange deletes the text covered by sel, joining the first and last
// blocks. The joined block keeps the first block's key, type, depth and data.
// It returns the new snapshot and a caret at the deletion point.
func RemoveRange(content *richtext.Content, sel selection.Selection) (*richtext.Content, selection.Selection, error) {
	span, err := selection.Resolve(content, sel)
	if err != nil {
		return nil, selection.Selection{}, err
	}
	return removeSpan(content, span)
}

func removeSpan(content *richtext.Content, span selection.Span) (*richtext.Content, selection.Selection, error) {
	caret := selection.Collapsed(span.StartKey, span.StartOffset)
	if span.IsCollapsed() {
		return content, caret, nil
	}

	first := content.BlockAt(span.StartIndex)
	last := content.BlockAt(span.EndIndex)

	firstText, firstChars := first.Runes(), first.Chars()
	lastText, lastChars := last.Runes(), last.Chars()

	joined, err := rebuild(first,
		slices.Concat(firstText[:span.StartOffset], lastText[span.EndOffset:]),
		slices.Concat(firstChars[:span.StartOffset], lastChars[span.EndOffset:]),
	)
	if err != nil {
		return nil, selection.Selection{}, err
	}

	out, err := content.Splice(span.StartIndex, span.EndIndex-span.StartIndex+1, joined)
	if err != nil {
		return nil, selection.Selection{}, fmt.Errorf("remove range: %w", err)
	}
	return out, caret, nil
}

// SplitBlock removes the selected text and splits the block at the caret.
// The head keeps its key and data; the tail gets a fresh key and the same
// type and depth. The returned caret sits at the start of the tail.
func SplitBlock(content *richtext.Content, sel selection.Selection) (*richtext.Content, selection.Selection, error) {
	afterRemoval, caret, err := RemoveRange(content, sel)
	if err != nil {
		return nil, selection.Selection{}, err
	}

	idx, _ := afterRemoval.BlockIndex(caret.AnchorKey)
	head, tail, err := splitAt(afterRemoval, afterRemoval.BlockAt(idx), caret.AnchorOffset)
	if err != nil {
		return nil, selection.Selection{}, err
	}

	out, err := afterRemoval.Splice(idx, 1, head, tail)
	if err != nil {
		return nil, selection.Selection{}, fmt.Errorf("split block: %w", err)
	}
	return out, selection.Collapsed(tail.Key(), 0), nil
}

func splitAt(content *richtext.Content, block *richtext.Block, offset int) (*richtext.Block, *richtext.Block, error) {
	text, chars := block.Runes(), block.Chars()

	head, err := rebuild(block, text[:offset], chars[:offset])
	if err != nil {
		return nil, nil, err
	}

	tail, err := richtext.NewBlockFromConfig(richtext.BlockConfig{
		Key:   richtext.GenerateKey(content),
		Type:  block.Type(),
		Text:  string(text[offset:]),
		Depth: block.Depth(),
		Chars: slices.Clone(chars[offset:]),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("split block %q: %w", block.Key(), err)
	}
	return head, tail, nil
}

// InsertAtomicBlock replaces the selected text with an atomic block whose
// placeholder text carries key. The surrounding block is split: the head keeps
// its key and type, the remainder moves to a new unstyled block, and the
// returned caret sits at the start of that block.
func InsertAtomicBlock(
	content *richtext.Content,
	sel selection.Selection,
	key richtext.EntityKey,
	placeholder string,
) (*richtext.Content, selection.Selection, error) {
	if _, err := content.Entity(key); err != nil {
		return nil, selection.Selection{}, err
	}
	if placeholder == "" {
		placeholder = " "
	}

	afterRemoval, caret, err := RemoveRange(content, sel)
	if err != nil {
		return nil, selection.Selection{}, err
	}

	idx, _ := afterRemoval.BlockIndex(caret.AnchorKey)
	target := afterRemoval.BlockAt(idx)
	text, chars := target.Runes(), target.Chars()
	offset := caret.AnchorOffset

	head, err := rebuild(target, text[:offset], chars[:offset])
	if err != nil {
		return nil, selection.Selection{}, err
	}

	atomicKey := richtext.GenerateKey(afterRemoval)
	atomicChars := make([]richtext.CharMeta, len([]rune(placeholder)))
	for i := range atomicChars {
		atomicChars[i] = richtext.CharMeta{Entity: key}
	}
	atomic, err := richtext.NewBlockFromConfig(richtext.BlockConfig{
		Key:   atomicKey,
		Type:  richtext.Atomic,
		Text:  placeholder,
		Chars: atomicChars,
	})
	if err != nil {
		return nil, selection.Selection{}, fmt.Errorf("build atomic block: %w", err)
	}

	tailKey := richtext.GenerateKey(afterRemoval)
	for tailKey == atomicKey {
		tailKey = richtext.GenerateKey(afterRemoval)
	}
	tail, err := richtext.NewBlockFromConfig(richtext.BlockConfig{
		Key:   tailKey,
		Type:  richtext.Unstyled,
		Text:  string(text[offset:]),
		Chars: slices.Clone(chars[offset:]),
	})
	if err != nil {
		return nil, selection.Selection{}, fmt.Errorf("build block after atomic: %w", err)
	}

	out, err := afterRemoval.Splice(idx, 1, head, atomic, tail)
	if err != nil {
		return nil, selection.Selection{}, fmt.Errorf("insert atomic block: %w", err)
	}
	return out, selection.Collapsed(tail.Key(), 0), nil
}

// RemoveBlock deletes the block with key. The last remaining block cannot be removed.
func RemoveBlock(content *richtext.Content, key string) (*richtext.Content, error) {
	idx, ok := content.BlockIndex(key)
	if !ok {
		return nil, &richtext.NotFoundError{Kind: "block", Key: key}
	}
	out, err := content.Splice(idx, 1)
	if err != nil {
		return nil, fmt.Errorf("remove block %q: %w", key, err)
	}
	return out, nil
}
