package modifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/richdraft/pkg/modifier"
	"github.com/yaklabco/richdraft/pkg/richtext"
	"github.com/yaklabco/richdraft/pkg/selection"
)

func build(t *testing.T, blocks ...*richtext.Block) *richtext.Content {
	t.Helper()

	content, err := richtext.NewContent(blocks)
	require.NoError(t, err)
	return content
}

func block(t *testing.T, content *richtext.Content, key string) *richtext.Block {
	t.Helper()

	b, err := content.Block(key)
	require.NoError(t, err)
	return b
}

func TestToggleInlineStyleScenario(t *testing.T) {
	t.Parallel()

	content := build(t, richtext.NewBlock("k1", richtext.Unstyled, "Hello"))
	sel := selection.Within("k1", 0, 5)

	bold, err := modifier.ToggleInlineStyle(content, sel, richtext.StyleBold)
	require.NoError(t, err)
	assert.Equal(t, []richtext.StyleRange{{Style: "BOLD", Offset: 0, Length: 5}},
		block(t, bold, "k1").InlineStyleRanges())

	again, err := modifier.ToggleInlineStyle(bold, sel, richtext.StyleBold)
	require.NoError(t, err)
	assert.Empty(t, block(t, again, "k1").InlineStyleRanges())
	assert.True(t, content.Equal(again))
	assert.Len(t, block(t, bold, "k1").InlineStyleRanges(), 1, "earlier snapshot must be untouched")
}

func TestToggleInlineStylePartialAddsEverywhere(t *testing.T) {
	t.Parallel()

	content := build(t, richtext.NewBlock("k1", richtext.Unstyled, "Hello"))
	content, err := modifier.ApplyInlineStyle(content, selection.Within("k1", 0, 2), richtext.StyleItalic)
	require.NoError(t, err)

	toggled, err := modifier.ToggleInlineStyle(content, selection.Within("k1", 0, 5), richtext.StyleItalic)
	require.NoError(t, err)
	assert.Equal(t, []richtext.StyleRange{{Style: "ITALIC", Offset: 0, Length: 5}},
		block(t, toggled, "k1").InlineStyleRanges())
}

func TestToggleInlineStyleAcrossBlocks(t *testing.T) {
	t.Parallel()

	content := build(t,
		richtext.NewBlock("a", richtext.Unstyled, "Hello"),
		richtext.NewBlock("b", richtext.Unstyled, "middle"),
		richtext.NewBlock("c", richtext.Unstyled, "World"),
	)
	sel := selection.Selection{AnchorKey: "c", AnchorOffset: 2, FocusKey: "a", FocusOffset: 3, IsBackward: true}

	out, err := modifier.ToggleInlineStyle(content, sel, richtext.StyleUnderline)
	require.NoError(t, err)

	assert.Equal(t, []richtext.StyleRange{{Style: "UNDERLINE", Offset: 3, Length: 2}}, block(t, out, "a").InlineStyleRanges())
	assert.Equal(t, []richtext.StyleRange{{Style: "UNDERLINE", Offset: 0, Length: 6}}, block(t, out, "b").InlineStyleRanges())
	assert.Equal(t, []richtext.StyleRange{{Style: "UNDERLINE", Offset: 0, Length: 2}}, block(t, out, "c").InlineStyleRanges())

	has, err := modifier.HasInlineStyle(out, sel, richtext.StyleUnderline)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestToggleInlineStyleCollapsedIsNoop(t *testing.T) {
	t.Parallel()

	content := build(t, richtext.NewBlock("k1", richtext.Unstyled, "Hello"))
	out, err := modifier.ToggleInlineStyle(content, selection.Collapsed("k1", 2), richtext.StyleBold)
	require.NoError(t, err)
	assert.Same(t, content, out)
}

func TestInvalidSelection(t *testing.T) {
	t.Parallel()

	content := build(t, richtext.NewBlock("k1", richtext.Unstyled, "Hello"))
	bad := selection.Within("nope", 0, 1)

	_, err := modifier.ToggleInlineStyle(content, bad, "BOLD")
	require.ErrorIs(t, err, richtext.ErrInvalidSelection)

	_, err = modifier.ToggleBlockType(content, bad, richtext.HeaderOne)
	require.ErrorIs(t, err, richtext.ErrInvalidSelection)

	_, err = modifier.ToggleLink(content, bad, richtext.NoEntity)
	require.ErrorIs(t, err, richtext.ErrInvalidSelection)

	_, _, err = modifier.InsertAtomicBlock(content, selection.Within("k1", 0, 9), "0", " ")
	require.Error(t, err)
}

func TestToggleLinkScenario(t *testing.T) {
	t.Parallel()

	content := build(t, richtext.NewBlock("k1", richtext.Unstyled, "Hello"))
	content, key := content.CreateEntity(richtext.Mutable, richtext.LinkData{URL: "https://x.com"})
	require.Equal(t, richtext.EntityKey("0"), key)

	linked, err := modifier.ToggleLink(content, selection.Within("k1", 1, 3), key)
	require.NoError(t, err)
	assert.Equal(t, []richtext.EntityRange{{Key: "0", Offset: 1, Length: 2}}, block(t, linked, "k1").EntityRanges())

	raw := richtext.ToRaw(linked)
	assert.Equal(t, []richtext.RawEntityRange{{Offset: 1, Length: 2, Key: 0}}, raw.Blocks[0].EntityRanges)

	cleared, err := modifier.ToggleLink(linked, selection.Within("k1", 0, 5), richtext.NoEntity)
	require.NoError(t, err)
	assert.Empty(t, block(t, cleared, "k1").EntityRanges())

	entity, err := cleared.Entity(key)
	require.NoError(t, err, "entities are never reclaimed")
	assert.Equal(t, richtext.LinkData{URL: "https://x.com"}, entity.Data())

	_, err = modifier.ToggleLink(content, selection.Within("k1", 0, 1), "9")
	require.ErrorIs(t, err, richtext.ErrNotFound)
}

func TestEntityStabilityAcrossEdits(t *testing.T) {
	t.Parallel()

	content := build(t, richtext.NewBlock("k1", richtext.Unstyled, "Hello"))
	content, key := content.CreateEntity(richtext.Immutable, richtext.ImageData{Src: "a.png"})

	var err error
	content, err = modifier.ToggleInlineStyle(content, selection.Within("k1", 0, 5), "BOLD")
	require.NoError(t, err)
	content, err = modifier.ToggleBlockType(content, selection.Collapsed("k1", 0), richtext.Blockquote)
	require.NoError(t, err)
	content, _, err = modifier.SplitBlock(content, selection.Collapsed("k1", 2))
	require.NoError(t, err)

	entity, err := content.Entity(key)
	require.NoError(t, err)
	assert.Equal(t, richtext.ImageData{Src: "a.png"}, entity.Data())
}

func TestToggleBlockType(t *testing.T) {
	t.Parallel()

	content := build(t,
		richtext.NewBlock("a", richtext.Blockquote, "one"),
		richtext.NewBlock("b", richtext.Unstyled, "two"),
		richtext.NewBlock("c", richtext.Unstyled, "three"),
	)

	t.Run("sets every touched block", func(t *testing.T) {
		t.Parallel()

		out, err := modifier.ToggleBlockType(content, selection.Range(
			selection.Point{Key: "a", Offset: 1}, selection.Point{Key: "b", Offset: 1}), richtext.HeaderOne)
		require.NoError(t, err)
		assert.Equal(t, richtext.HeaderOne, block(t, out, "a").Type())
		assert.Equal(t, richtext.HeaderOne, block(t, out, "b").Type())
		assert.Equal(t, richtext.Unstyled, block(t, out, "c").Type())
	})

	t.Run("toggle target is fixed", func(t *testing.T) {
		t.Parallel()

		sel := selection.Collapsed("a", 0)
		once, err := modifier.ToggleBlockType(content, sel, richtext.HeaderOne)
		require.NoError(t, err)
		twice, err := modifier.ToggleBlockType(once, sel, richtext.HeaderOne)
		require.NoError(t, err)
		assert.Equal(t, richtext.Unstyled, block(t, twice, "a").Type())
	})

	t.Run("trailing block at offset zero is skipped", func(t *testing.T) {
		t.Parallel()

		out, err := modifier.ToggleBlockType(content, selection.Range(
			selection.Point{Key: "b", Offset: 0}, selection.Point{Key: "c", Offset: 0}), richtext.CodeBlock)
		require.NoError(t, err)
		assert.Equal(t, richtext.CodeBlock, block(t, out, "b").Type())
		assert.Equal(t, richtext.Unstyled, block(t, out, "c").Type())
	})
}

func TestToggleBlockTypeDepth(t *testing.T) {
	t.Parallel()

	content := build(t, richtext.NewBlock("a", richtext.UnorderedListItem, "item").WithDepth(2))

	ordered, err := modifier.ToggleBlockType(content, selection.Collapsed("a", 0), richtext.OrderedListItem)
	require.NoError(t, err)
	assert.Equal(t, 2, block(t, ordered, "a").Depth(), "list to list keeps depth")

	quote, err := modifier.ToggleBlockType(content, selection.Collapsed("a", 0), richtext.Blockquote)
	require.NoError(t, err)
	assert.Equal(t, 0, block(t, quote, "a").Depth())
}

func TestToggleBlockTypeSkipsAtomic(t *testing.T) {
	t.Parallel()

	content := build(t,
		richtext.NewBlock("a", richtext.Unstyled, "one"),
		richtext.NewBlock("m", richtext.Atomic, " "),
	)
	out, err := modifier.ToggleBlockType(content, selection.Range(
		selection.Point{Key: "a", Offset: 0}, selection.Point{Key: "m", Offset: 1}), richtext.HeaderTwo)
	require.NoError(t, err)
	assert.Same(t, content, out)
}

func TestAdjustBlockDepth(t *testing.T) {
	t.Parallel()

	content := build(t, richtext.NewBlock("a", richtext.UnorderedListItem, "item").WithDepth(3))
	sel := selection.Collapsed("a", 0)

	deeper, err := modifier.AdjustBlockDepth(content, sel, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, block(t, deeper, "a").Depth())

	clamped, err := modifier.AdjustBlockDepth(deeper, sel, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, block(t, clamped, "a").Depth())

	shallow := content
	for range 5 {
		shallow, err = modifier.AdjustBlockDepth(shallow, sel, -1, 4)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, block(t, shallow, "a").Depth())
}

func TestRemoveRange(t *testing.T) {
	t.Parallel()

	content := build(t,
		richtext.NewBlock("a", richtext.HeaderOne, "Hello"),
		richtext.NewBlock("b", richtext.Unstyled, "big"),
		richtext.NewBlock("c", richtext.Blockquote, "World"),
	)
	content, err := modifier.ApplyInlineStyle(content, selection.Within("c", 0, 5), "BOLD")
	require.NoError(t, err)

	out, caret, err := modifier.RemoveRange(content, selection.Range(
		selection.Point{Key: "a", Offset: 2}, selection.Point{Key: "c", Offset: 3}))
	require.NoError(t, err)

	require.Equal(t, 1, out.BlockCount())
	joined := out.BlockAt(0)
	assert.Equal(t, "a", joined.Key())
	assert.Equal(t, richtext.HeaderOne, joined.Type())
	assert.Equal(t, "Held", joined.Text())
	assert.Equal(t, []richtext.StyleRange{{Style: "BOLD", Offset: 2, Length: 2}}, joined.InlineStyleRanges())
	assert.Equal(t, selection.Collapsed("a", 2), caret)
}

func TestSplitBlock(t *testing.T) {
	t.Parallel()

	content := build(t, richtext.NewBlock("a", richtext.UnorderedListItem, "Hello").WithDepth(1))
	content, err := modifier.ApplyInlineStyle(content, selection.Within("a", 3, 5), "CODE")
	require.NoError(t, err)

	out, caret, err := modifier.SplitBlock(content, selection.Collapsed("a", 3))
	require.NoError(t, err)
	require.Equal(t, 2, out.BlockCount())

	head, tail := out.BlockAt(0), out.BlockAt(1)
	assert.Equal(t, "Hel", head.Text())
	assert.Equal(t, "lo", tail.Text())
	assert.Equal(t, richtext.UnorderedListItem, tail.Type())
	assert.Equal(t, 1, tail.Depth())
	assert.Equal(t, []richtext.StyleRange{{Style: "CODE", Offset: 0, Length: 2}}, tail.InlineStyleRanges())
	assert.Equal(t, selection.Collapsed(tail.Key(), 0), caret)
}

func TestInsertAtomicBlock(t *testing.T) {
	t.Parallel()

	content := build(t, richtext.NewBlock("k1", richtext.HeaderTwo, "Hello world"))
	content, key := content.CreateEntity(richtext.Immutable, richtext.ImageData{Src: "cat.png"})

	out, caret, err := modifier.InsertAtomicBlock(content, selection.Within("k1", 5, 6), key, " ")
	require.NoError(t, err)
	require.Equal(t, 3, out.BlockCount())

	head, atomic, tail := out.BlockAt(0), out.BlockAt(1), out.BlockAt(2)
	assert.Equal(t, "k1", head.Key())
	assert.Equal(t, richtext.HeaderTwo, head.Type())
	assert.Equal(t, "Hello", head.Text())

	assert.Equal(t, richtext.Atomic, atomic.Type())
	assert.Equal(t, " ", atomic.Text())
	assert.Equal(t, []richtext.EntityRange{{Key: key, Offset: 0, Length: 1}}, atomic.EntityRanges())

	assert.Equal(t, richtext.Unstyled, tail.Type())
	assert.Equal(t, "world", tail.Text())
	assert.Equal(t, selection.Collapsed(tail.Key(), 0), caret)

	_, _, err = modifier.InsertAtomicBlock(content, selection.Collapsed("k1", 0), "7", " ")
	require.ErrorIs(t, err, richtext.ErrNotFound)
}

func TestStyleAtSelection(t *testing.T) {
	t.Parallel()

	content := build(t,
		richtext.NewBlock("a", richtext.Unstyled, "Hello"),
		richtext.NewBlock("b", richtext.Unstyled, ""),
	)
	content, err := modifier.ApplyInlineStyle(content, selection.Within("a", 2, 5), "BOLD")
	require.NoError(t, err)

	tests := []struct {
		name string
		sel  selection.Selection
		want []string
	}{
		{"caret after styled char", selection.Collapsed("a", 3), []string{"BOLD"}},
		{"caret after plain char", selection.Collapsed("a", 2), []string{}},
		{"caret at block start", selection.Collapsed("a", 0), []string{}},
		{"empty block inherits", selection.Collapsed("b", 0), []string{"BOLD"}},
		{"range uses first char", selection.Within("a", 2, 4), []string{"BOLD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := modifier.StyleAtSelection(content, tt.sel)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got.Names())
		})
	}
}

func TestRemoveBlock(t *testing.T) {
	t.Parallel()

	content := build(t,
		richtext.NewBlock("a", richtext.Unstyled, "x"),
		richtext.NewBlock("b", richtext.Atomic, " "),
	)
	out, err := modifier.RemoveBlock(content, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, out.BlockCount())

	_, err = modifier.RemoveBlock(out, "a")
	require.Error(t, err)

	_, err = modifier.RemoveBlock(out, "zz")
	require.ErrorIs(t, err, richtext.ErrNotFound)
}
