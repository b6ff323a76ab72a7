package editor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/richdraft/pkg/editor"
	"github.com/yaklabco/richdraft/pkg/richtext"
	"github.com/yaklabco/richdraft/pkg/selection"
)

func newState(t *testing.T, blocks ...*richtext.Block) editor.State {
	t.Helper()

	content, err := richtext.NewContent(blocks)
	require.NoError(t, err)
	return editor.NewState(content)
}

func blockOf(t *testing.T, s editor.State, key string) *richtext.Block {
	t.Helper()

	b, err := s.Content.Block(key)
	require.NoError(t, err)
	return b
}

func TestNewState(t *testing.T) {
	t.Parallel()

	s := newState(t, richtext.NewBlock("k1", richtext.Unstyled, "Hello"))
	assert.Equal(t, selection.Collapsed("k1", 0), s.Selection)
	assert.Nil(t, s.StyleOverride)
}

func TestToggleInlineStyleOnCaretSetsOverride(t *testing.T) {
	t.Parallel()

	s := newState(t, richtext.NewBlock("k1", richtext.Unstyled, "Hello")).
		WithSelection(selection.Collapsed("k1", 2))

	next, err := editor.ToggleInlineStyle(s, richtext.StyleBold)
	require.NoError(t, err)
	assert.Same(t, s.Content, next.Content)
	require.NotNil(t, next.StyleOverride)
	assert.True(t, next.StyleOverride.Has("BOLD"))

	current, err := editor.CurrentInlineStyle(next)
	require.NoError(t, err)
	assert.Equal(t, []string{"BOLD"}, current.Names())

	moved := next.WithSelection(selection.Collapsed("k1", 3))
	assert.Nil(t, moved.StyleOverride)
}

func TestApplyColorReplacesGroup(t *testing.T) {
	t.Parallel()

	group := editor.ColorGroup{"#000000", "#e60000", "#0066cc", "#008a00"}
	s := newState(t, richtext.NewBlock("k1", richtext.Unstyled, "Hello world"))
	sel := selection.Within("k1", 0, 5)
	s = s.WithSelection(sel)

	red, err := editor.ApplyColor(s, group, "#e60000")
	require.NoError(t, err)
	assert.Equal(t, []richtext.StyleRange{{Style: "#e60000", Offset: 0, Length: 5}},
		blockOf(t, red, "k1").InlineStyleRanges())

	blue, err := editor.ApplyColor(red, group, "#0066cc")
	require.NoError(t, err)
	assert.Equal(t, []richtext.StyleRange{{Style: "#0066cc", Offset: 0, Length: 5}},
		blockOf(t, blue, "k1").InlineStyleRanges())

	cleared, err := editor.ApplyColor(blue, group, "#000000")
	require.NoError(t, err)
	assert.Empty(t, blockOf(t, cleared, "k1").InlineStyleRanges())

	again, err := editor.ApplyColor(blue, group, "#0066cc")
	require.NoError(t, err)
	assert.Empty(t, blockOf(t, again, "k1").InlineStyleRanges(), "picking the active colour clears it")
}

func TestApplyColorKeepsOtherStyles(t *testing.T) {
	t.Parallel()

	group := editor.ColorGroup{"#000000", "#e60000", "#0066cc"}
	s := newState(t, richtext.NewBlock("k1", richtext.Unstyled, "Hello"))
	s = s.WithSelection(selection.Within("k1", 0, 5))

	s, err := editor.ToggleInlineStyle(s, richtext.StyleBold)
	require.NoError(t, err)
	s, err = editor.ApplyColor(s, group, "#e60000")
	require.NoError(t, err)

	t.Run("range", func(t *testing.T) {
		t.Parallel()

		out, err := editor.ApplyColor(s, group, "#0066cc")
		require.NoError(t, err)
		assert.ElementsMatch(t, []richtext.StyleRange{
			{Style: "BOLD", Offset: 0, Length: 5},
			{Style: "#0066cc", Offset: 0, Length: 5},
		}, blockOf(t, out, "k1").InlineStyleRanges())
	})

	t.Run("caret", func(t *testing.T) {
		t.Parallel()

		caret := s.WithSelection(selection.Collapsed("k1", 3))
		out, err := editor.ApplyColor(caret, group, "#0066cc")
		require.NoError(t, err)
		assert.Same(t, caret.Content, out.Content)
		require.NotNil(t, out.StyleOverride)
		assert.Equal(t, []string{"#0066cc", "BOLD"}, out.StyleOverride.Names())
	})
}

func TestLinkFlows(t *testing.T) {
	t.Parallel()

	s := newState(t,
		richtext.NewBlock("a", richtext.Unstyled, "first"),
		richtext.NewBlock("b", richtext.Unstyled, "visit site"),
	)

	ok, err := editor.CanEditLink(s.WithSelection(selection.Collapsed("b", 1)))
	require.NoError(t, err)
	assert.False(t, ok)

	linked, err := editor.ConfirmLink(s.WithSelection(selection.Within("b", 6, 10)), "https://x.com", true)
	require.NoError(t, err)
	assert.Equal(t, []richtext.EntityRange{{Key: "0", Offset: 6, Length: 4}}, blockOf(t, linked, "b").EntityRanges())

	onLink := linked.WithSelection(selection.Collapsed("b", 7))
	ok, err = editor.CanEditLink(onLink)
	require.NoError(t, err)
	assert.True(t, ok)

	entity, found, err := editor.LinkAtSelection(onLink)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, richtext.LinkData{URL: "https://x.com", Target: "_blank"}, entity.Data())

	edited, err := editor.ConfirmLink(onLink, "https://y.org", false)
	require.NoError(t, err)
	entity, err = edited.Content.Entity("0")
	require.NoError(t, err)
	assert.Equal(t, richtext.LinkData{URL: "https://y.org"}, entity.Data())
	assert.Equal(t, 1, edited.Content.EntityCount(), "editing must not create a new entity")

	_, err = editor.ConfirmLink(s.WithSelection(selection.Collapsed("a", 0)), "https://z", false)
	require.ErrorIs(t, err, editor.ErrCollapsedSelection)
}

func TestRemoveLinkWidensToPreviousBlock(t *testing.T) {
	t.Parallel()

	s := newState(t,
		richtext.NewBlock("a", richtext.Unstyled, "first"),
		richtext.NewBlock("b", richtext.Unstyled, "second"),
		richtext.NewBlock("c", richtext.Unstyled, "third"),
	)
	s, err := editor.ConfirmLink(s.WithSelection(selection.Within("a", 0, 5)), "https://a", false)
	require.NoError(t, err)
	s, err = editor.ConfirmLink(s.WithSelection(selection.Within("b", 0, 6)), "https://b", false)
	require.NoError(t, err)
	s, err = editor.ConfirmLink(s.WithSelection(selection.Within("c", 0, 5)), "https://c", false)
	require.NoError(t, err)

	target, err := editor.LinkRemovalSelection(s.WithSelection(selection.Collapsed("b", 2)))
	require.NoError(t, err)
	assert.Equal(t, selection.Range(
		selection.Point{Key: "a", Offset: 5}, selection.Point{Key: "b", Offset: 6}), target)

	out, err := editor.RemoveLink(s.WithSelection(selection.Collapsed("b", 2)))
	require.NoError(t, err)
	assert.Len(t, blockOf(t, out, "a").EntityRanges(), 1, "previous block text is outside the widened range")
	assert.Empty(t, blockOf(t, out, "b").EntityRanges())
	assert.Len(t, blockOf(t, out, "c").EntityRanges(), 1)

	first, err := editor.LinkRemovalSelection(s.WithSelection(selection.Within("a", 1, 2)))
	require.NoError(t, err)
	assert.Equal(t, selection.Within("a", 0, 5), first)
}

func TestInsertMedia(t *testing.T) {
	t.Parallel()

	s := newState(t, richtext.NewBlock("k1", richtext.Unstyled, "Hello"))
	s = s.WithSelection(selection.Collapsed("k1", 5))

	out, err := editor.InsertMedia(s, richtext.VideoData{Src: "dQw4w9WgXcQ"}, editor.DefaultAtomicPlaceholder)
	require.NoError(t, err)
	require.Equal(t, 3, out.Content.BlockCount())

	atomic := out.Content.BlockAt(1)
	assert.Equal(t, richtext.Atomic, atomic.Type())
	key := atomic.EntityAt(0)
	entity, err := out.Content.Entity(key)
	require.NoError(t, err)
	assert.Equal(t, richtext.Immutable, entity.Mutability())
	assert.Equal(t, richtext.EntityVideo, entity.Type())
	assert.Equal(t, out.Content.BlockAt(2).Key(), out.Selection.AnchorKey)

	_, err = editor.InsertMedia(s.WithSelection(selection.Within("k1", 0, 2)), richtext.ImageData{Src: "x"}, " ")
	require.ErrorIs(t, err, editor.ErrNotCollapsed)

	_, err = editor.InsertMedia(s, richtext.LinkData{URL: "x"}, " ")
	require.Error(t, err)
}

func TestHandleKeyCommand(t *testing.T) {
	t.Parallel()

	s := newState(t,
		richtext.NewBlock("a", richtext.Unstyled, "Hello"),
		richtext.NewBlock("m", richtext.Atomic, " "),
		richtext.NewBlock("h", richtext.HeaderOne, "Title"),
		richtext.NewBlock("c1", richtext.CodeBlock, "x := 1"),
		richtext.NewBlock("c2", richtext.CodeBlock, "y := 2"),
	)

	t.Run("style commands", func(t *testing.T) {
		t.Parallel()

		out, err := editor.HandleKeyCommand(s.WithSelection(selection.Within("a", 0, 5)), editor.CommandCode)
		require.NoError(t, err)
		assert.Equal(t, []richtext.StyleRange{{Style: "CODE", Offset: 0, Length: 5}}, blockOf(t, out, "a").InlineStyleRanges())
	})

	t.Run("unknown command", func(t *testing.T) {
		t.Parallel()

		out, err := editor.HandleKeyCommand(s, "transpose-characters")
		require.ErrorIs(t, err, editor.ErrUnhandled)
		assert.Same(t, s.Content, out.Content)
	})

	t.Run("backspace removes preceding atomic block", func(t *testing.T) {
		t.Parallel()

		out, err := editor.HandleKeyCommand(s.WithSelection(selection.Collapsed("h", 0)), editor.CommandBackspace)
		require.NoError(t, err)
		_, err = out.Content.Block("m")
		require.ErrorIs(t, err, richtext.ErrNotFound)
	})

	t.Run("backspace resets styled block", func(t *testing.T) {
		t.Parallel()

		noAtomic := newState(t,
			richtext.NewBlock("a", richtext.Unstyled, "Hello"),
			richtext.NewBlock("h", richtext.HeaderOne, "Title"),
		)
		out, err := editor.HandleKeyCommand(noAtomic.WithSelection(selection.Collapsed("h", 0)), editor.CommandBackspace)
		require.NoError(t, err)
		assert.Equal(t, richtext.Unstyled, blockOf(t, out, "h").Type())
	})

	t.Run("backspace inside code block is left to the host", func(t *testing.T) {
		t.Parallel()

		_, err := editor.HandleKeyCommand(s.WithSelection(selection.Collapsed("c2", 0)), editor.CommandBackspace)
		require.ErrorIs(t, err, editor.ErrUnhandled)
	})

	t.Run("backspace mid text is left to the host", func(t *testing.T) {
		t.Parallel()

		_, err := editor.HandleKeyCommand(s.WithSelection(selection.Collapsed("a", 3)), editor.CommandBackspace)
		require.ErrorIs(t, err, editor.ErrUnhandled)
	})

	t.Run("delete removes following atomic block", func(t *testing.T) {
		t.Parallel()

		out, err := editor.HandleKeyCommand(s.WithSelection(selection.Collapsed("a", 5)), editor.CommandDelete)
		require.NoError(t, err)
		assert.Equal(t, 4, out.Content.BlockCount())
	})

	t.Run("split block", func(t *testing.T) {
		t.Parallel()

		out, err := editor.HandleKeyCommand(s.WithSelection(selection.Collapsed("a", 2)), editor.CommandSplitBlock)
		require.NoError(t, err)
		assert.Equal(t, 6, out.Content.BlockCount())
		assert.Equal(t, "He", blockOf(t, out, "a").Text())
		assert.Equal(t, "llo", blockOf(t, out, out.Selection.AnchorKey).Text())
	})
}

func TestOnTab(t *testing.T) {
	t.Parallel()

	s := newState(t,
		richtext.NewBlock("l", richtext.UnorderedListItem, "item"),
		richtext.NewBlock("p", richtext.Unstyled, "para"),
	)

	deeper := s.WithSelection(selection.Collapsed("l", 0))
	for range 6 {
		var err error
		deeper, err = editor.OnTab(deeper, false, editor.DefaultMaxDepth)
		require.NoError(t, err)
	}
	assert.Equal(t, 4, blockOf(t, deeper, "l").Depth())

	back, err := editor.OnTab(deeper, true, editor.DefaultMaxDepth)
	require.NoError(t, err)
	assert.Equal(t, 3, blockOf(t, back, "l").Depth())

	para, err := editor.OnTab(s.WithSelection(selection.Collapsed("p", 0)), false, editor.DefaultMaxDepth)
	require.NoError(t, err)
	assert.Same(t, s.Content, para.Content)

	multi, err := editor.OnTab(s.WithSelection(selection.Range(
		selection.Point{Key: "l"}, selection.Point{Key: "p"})), false, editor.DefaultMaxDepth)
	require.NoError(t, err)
	assert.Same(t, s.Content, multi.Content)
}

func TestBlockTypeToggleSymmetry(t *testing.T) {
	t.Parallel()

	s := newState(t, richtext.NewBlock("k", richtext.Blockquote, "quote"))

	once, err := editor.ToggleBlockType(s, richtext.HeaderOne)
	require.NoError(t, err)
	twice, err := editor.ToggleBlockType(once, richtext.HeaderOne)
	require.NoError(t, err)

	got, err := editor.CurrentBlockType(twice)
	require.NoError(t, err)
	assert.Equal(t, richtext.Unstyled, got)
}
