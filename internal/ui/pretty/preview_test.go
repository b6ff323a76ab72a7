package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/richdraft/internal/ui/pretty"
	"github.com/yaklabco/richdraft/pkg/richtext"
)

const previewDocument = `{
  "blocks": [
    {"key": "h", "text": "Title", "type": "header-two"},
    {"key": "p", "text": "see docs now", "type": "unstyled",
     "inlineStyleRanges": [{"offset": 0, "length": 3, "style": "BOLD"}],
     "entityRanges": [{"offset": 4, "length": 4, "key": 0}]},
    {"key": "l1", "text": "one", "type": "ordered-list-item"},
    {"key": "l2", "text": "nested", "type": "unordered-list-item", "depth": 1},
    {"key": "l3", "text": "two", "type": "ordered-list-item"},
    {"key": "q", "text": "quoted", "type": "blockquote"},
    {"key": "c1", "text": "x := 1", "type": "code-block"},
    {"key": "c2", "text": "y := 2", "type": "code-block"},
    {"key": "hr", "text": "", "type": "HR"},
    {"key": "m", "text": " ", "type": "atomic", "entityRanges": [{"offset": 0, "length": 1, "key": 1}]}
  ],
  "entityMap": {
    "0": {"type": "LINK", "mutability": "MUTABLE", "data": {"url": "https://x.com"}},
    "1": {"type": "IMAGE", "mutability": "IMMUTABLE", "data": {"src": "cat.png", "width": 320, "height": 200}}
  }
}`

func TestPreviewPlain(t *testing.T) {
	t.Parallel()

	content, err := richtext.Parse([]byte(previewDocument))
	require.NoError(t, err)

	got := pretty.NewStyles(false).Preview(content, pretty.PreviewOptions{Width: 10})

	want := "## Title\n" +
		"\n" +
		"see docs (https://x.com) now\n" +
		"\n" +
		"1. one\n" +
		"  • nested\n" +
		"2. two\n" +
		"\n" +
		"│ quoted\n" +
		"\n" +
		"  x := 1\n" +
		"  y := 2\n" +
		"\n" +
		"──────────\n" +
		"\n" +
		"[image: cat.png 320x200]\n"
	assert.Equal(t, want, got)
}

func TestPreviewShowKeys(t *testing.T) {
	t.Parallel()

	content := richtext.NewDocument()
	got := pretty.NewStyles(false).Preview(content, pretty.PreviewOptions{ShowKeys: true})

	assert.Contains(t, got, "["+content.FirstBlock().Key()+" unstyled] ")
}
