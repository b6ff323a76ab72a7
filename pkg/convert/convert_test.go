package convert_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/richdraft/pkg/convert"
	"github.com/yaklabco/richdraft/pkg/richtext"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  convert.Format
	}{
		{"json", convert.FormatJSON},
		{"MD", convert.FormatMarkdown},
		{" markdown ", convert.FormatMarkdown},
		{"htm", convert.FormatHTML},
		{"txt", convert.FormatText},
	}
	for _, tt := range tests {
		got, err := convert.ParseFormat(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}

	_, err := convert.ParseFormat("pdf")
	require.ErrorIs(t, err, convert.ErrUnsupportedFormat)
}

func TestFormatMetadata(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".md", convert.FormatMarkdown.Extension())
	assert.Equal(t, ".json", convert.FormatJSON.Extension())
	assert.Equal(t, "text/html; charset=utf-8", convert.FormatHTML.ContentType())
	assert.Equal(t, "text/plain; charset=utf-8", convert.FormatText.ContentType())
}

func TestImportExportEachFormat(t *testing.T) {
	t.Parallel()

	im := convert.NewImporter(convert.ImportOptions{Flavor: "gfm", Sanitize: true})
	ctx := context.Background()

	tests := []struct {
		format convert.Format
		source string
		want   string
	}{
		{convert.FormatMarkdown, "# Hi\n\nthere\n", "# Hi\n\nthere\n"},
		{convert.FormatText, "Hi\nthere\n", "Hi\nthere\n"},
		{convert.FormatHTML, "<p>Hi</p>", "<p>Hi</p>\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			content, err := im.Import(ctx, tt.format, []byte(tt.source))
			require.NoError(t, err)

			out, err := convert.Export(content, tt.format, convert.ExportOptions{Sanitize: true})
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	content := richtext.FromText("one\ntwo")
	out, err := convert.Export(content, convert.FormatJSON, convert.ExportOptions{Indent: 2})
	require.NoError(t, err)

	again, err := convert.NewImporter(convert.ImportOptions{}).Import(context.Background(), convert.FormatJSON, out)
	require.NoError(t, err)
	assert.True(t, content.Equal(again))

	_, err = convert.Export(content, convert.Format("pdf"), convert.ExportOptions{})
	require.ErrorIs(t, err, convert.ErrUnsupportedFormat)
}
