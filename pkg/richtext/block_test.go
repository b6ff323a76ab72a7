package richtext_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/richdraft/pkg/richtext"
)

func TestBlockRanges(t *testing.T) {
	t.Parallel()

	bold := richtext.NewStyleSet(richtext.StyleBold)
	boldItalic := bold.Add(richtext.StyleItalic)

	block, err := richtext.NewBlockFromConfig(richtext.BlockConfig{
		Key:  "k1",
		Text: "abcdef",
		Chars: []richtext.CharMeta{
			{Style: bold},
			{Style: boldItalic, Entity: "0"},
			{Style: boldItalic, Entity: "0"},
			{},
			{Entity: "1"},
			{Style: bold},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, richtext.Unstyled, block.Type())
	assert.Equal(t, []richtext.StyleRange{
		{Style: "BOLD", Offset: 0, Length: 3},
		{Style: "ITALIC", Offset: 1, Length: 2},
		{Style: "BOLD", Offset: 5, Length: 1},
	}, block.InlineStyleRanges())
	assert.Equal(t, []richtext.EntityRange{
		{Key: "0", Offset: 1, Length: 2},
		{Key: "1", Offset: 4, Length: 1},
	}, block.EntityRanges())
	assert.Equal(t, richtext.EntityKey("0"), block.EntityAt(2))
	assert.Equal(t, richtext.NoEntity, block.EntityAt(99))
}

func TestBlockCodePointOffsets(t *testing.T) {
	t.Parallel()

	block := richtext.NewBlock("k", richtext.Unstyled, "こんにちは")
	assert.Equal(t, 5, block.Len())

	styled := block.MapChars(1, 3, func(m richtext.CharMeta) richtext.CharMeta {
		m.Style = m.Style.Add("BOLD")
		return m
	})
	assert.Equal(t, []richtext.StyleRange{{Style: "BOLD", Offset: 1, Length: 2}}, styled.InlineStyleRanges())
	assert.Empty(t, block.InlineStyleRanges(), "MapChars must not modify the receiver")
}

func TestNewBlockFromConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  richtext.BlockConfig
	}{
		{"empty key", richtext.BlockConfig{Text: "x"}},
		{"unknown type", richtext.BlockConfig{Key: "a", Type: "header-seven"}},
		{"negative depth", richtext.BlockConfig{Key: "a", Depth: -1}},
		{"chars mismatch", richtext.BlockConfig{Key: "a", Text: "ab", Chars: make([]richtext.CharMeta, 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := richtext.NewBlockFromConfig(tt.cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, richtext.ErrMalformedWireFormat)
		})
	}
}

func TestBlockTypeHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, richtext.OrderedListItem.IsList())
	assert.False(t, richtext.Blockquote.IsList())
	assert.Equal(t, 3, richtext.HeaderThree.HeadingLevel())
	assert.Equal(t, richtext.HeaderSix, richtext.HeadingType(6))
	assert.Equal(t, richtext.Unstyled, richtext.HeadingType(7))
	assert.True(t, richtext.HorizontalRule.IsValid())
	assert.Len(t, richtext.BlockTypes(), 13)
}

func TestBlockRuns(t *testing.T) {
	t.Parallel()

	block := richtext.NewBlock("k", richtext.Unstyled, "Hello world").
		MapChars(6, 11, func(m richtext.CharMeta) richtext.CharMeta {
			m.Style = m.Style.Add(richtext.StyleBold)
			return m
		})

	runs := block.Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, "Hello ", runs[0].Text)
	assert.Equal(t, "world", runs[1].Text)
	assert.Equal(t, 6, runs[1].Offset)
	assert.True(t, runs[1].Meta.Style.Has("BOLD"))

	assert.Empty(t, richtext.NewBlock("e", richtext.Unstyled, "").Runs())
}
