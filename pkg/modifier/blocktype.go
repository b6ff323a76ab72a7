package modifier

import (
	"github.com/yaklabco/richdraft/pkg/richtext"
	"github.com/yaklabco/richdraft/pkg/selection"
)

// SetBlockType sets the type of every block touched by sel. Non-list types
// reset the depth to zero.
func SetBlockType(content *richtext.Content, sel selection.Selection, typ richtext.BlockType) (*richtext.Content, error) {
	span, err := selection.Resolve(content, sel)
	if err != nil {
		return nil, err
	}
	return setBlockType(content, span, typ)
}

func setBlockType(content *richtext.Content, span selection.Span, typ richtext.BlockType) (*richtext.Content, error) {
	return mapBlocks(content, span, func(_ int, block *richtext.Block) *richtext.Block {
		if block.Type() == typ && (typ.IsList() || block.Depth() == 0) {
			return block
		}
		out := block.WithType(typ)
		if !typ.IsList() && out.Depth() != 0 {
			out = out.WithDepth(0)
		}
		return out
	})
}

// ToggleBlockType sets typ on every block touched by sel, or resets them to
// unstyled when the first block already has typ. A range that ends at offset
// zero of a later block leaves that trailing block alone. Selections touching
// an atomic block are left unchanged.
func ToggleBlockType(content *richtext.Content, sel selection.Selection, typ richtext.BlockType) (*richtext.Content, error) {
	span, err := selection.Resolve(content, sel)
	if err != nil {
		return nil, err
	}

	if span.StartIndex != span.EndIndex && span.EndOffset == 0 {
		before := content.BlockAt(span.EndIndex - 1)
		span.EndIndex--
		span.EndKey = before.Key()
		span.EndOffset = before.Len()
	}

	for idx := span.StartIndex; idx <= span.EndIndex; idx++ {
		if content.BlockAt(idx).Type() == richtext.Atomic {
			return content, nil
		}
	}

	target := typ
	if content.BlockAt(span.StartIndex).Type() == typ {
		target = richtext.Unstyled
	}
	return setBlockType(content, span, target)
}

// AdjustBlockDepth shifts the depth of every block touched by sel by
// adjustment, clamped to [0, maxDepth].
func AdjustBlockDepth(content *richtext.Content, sel selection.Selection, adjustment, maxDepth int) (*richtext.Content, error) {
	span, err := selection.Resolve(content, sel)
	if err != nil {
		return nil, err
	}
	return mapBlocks(content, span, func(_ int, block *richtext.Block) *richtext.Block {
		depth := max(0, min(block.Depth()+adjustment, maxDepth))
		if depth == block.Depth() {
			return block
		}
		return block.WithDepth(depth)
	})
}

// BlockTypeAtSelection returns the type of the block holding the start of sel.
func BlockTypeAtSelection(content *richtext.Content, sel selection.Selection) (richtext.BlockType, error) {
	span, err := selection.Resolve(content, sel)
	if err != nil {
		return "", err
	}
	return content.BlockAt(span.StartIndex).Type(), nil
}
