package html

import (
	"context"
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/yaklabco/richdraft/pkg/convert/markdown"
	"github.com/yaklabco/richdraft/pkg/richtext"
)

// Importer converts HTML into documents by way of Markdown.
type Importer struct {
	conv     *converter.Converter
	markdown *markdown.Importer
	sanitize bool
}

// NewImporter creates an HTML importer. When sanitize is set the input is
// cleaned with the user-generated-content policy first.
func NewImporter(sanitize bool, opts ...markdown.ImportOption) *Importer {
	return &Importer{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		markdown: markdown.NewImporter(markdown.FlavorGFM, opts...),
		sanitize: sanitize,
	}
}

// Import parses an HTML document or fragment.
func (im *Importer) Import(ctx context.Context, source string) (*richtext.Content, error) {
	if im.sanitize {
		source = Policy().Sanitize(source)
	}

	md, err := im.conv.ConvertString(source)
	if err != nil {
		return nil, fmt.Errorf("convert html to markdown: %w", err)
	}

	content, err := im.markdown.Import(ctx, []byte(md))
	if err != nil {
		return nil, fmt.Errorf("import converted markdown: %w", err)
	}
	return content, nil
}
