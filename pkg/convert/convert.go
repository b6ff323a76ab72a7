// Package convert dispatches documents to the format converters by name.
package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"

	htmlconv "github.com/yaklabco/richdraft/pkg/convert/html"
	"github.com/yaklabco/richdraft/pkg/convert/markdown"
	"github.com/yaklabco/richdraft/pkg/richtext"
)

// Format names a document representation.
type Format string

// Supported formats.
const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatText     Format = "text"
)

// ErrUnsupportedFormat is returned for unknown or one-way formats.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat parses a format name. "md" and "txt" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w %q; valid formats: json, markdown, html, text", ErrUnsupportedFormat, name)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	case FormatText:
		return ".txt"
	default:
		return ".json"
	}
}

// ExportOptions tunes Export.
type ExportOptions struct {
	// Indent pretty-prints JSON.
	Indent int

	// Sanitize cleans HTML output.
	Sanitize bool
}

// Export renders c in format f.
func Export(c *richtext.Content, f Format, opts ExportOptions) ([]byte, error) {
	switch f {
	case FormatJSON:
		return richtext.MarshalRaw(c, opts.Indent)
	case FormatMarkdown:
		return []byte(markdown.Export(c)), nil
	case FormatHTML:
		out, err := htmlconv.Export(c, htmlconv.ExportOptions{Sanitize: opts.Sanitize})
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	case FormatText:
		return []byte(c.PlainText("\n") + "\n"), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, f)
	}
}

// ImportOptions tunes an Importer.
type ImportOptions struct {
	Flavor         string
	Sanitize       bool
	DetectLanguage bool
}

// Importer turns JSON, Markdown or HTML into documents.
type Importer struct {
	markdown *markdown.Importer
	html     *htmlconv.Importer
}

// NewImporter builds an Importer.
func NewImporter(opts ImportOptions) *Importer {
	langOpt := markdown.WithLanguageDetection(opts.DetectLanguage)
	return &Importer{
		markdown: markdown.NewImporter(opts.Flavor, langOpt),
		html:     htmlconv.NewImporter(opts.Sanitize, langOpt),
	}
}

// Import parses data in format f. Plain text becomes one unstyled block per line.
func (im *Importer) Import(ctx context.Context, f Format, data []byte) (*richtext.Content, error) {
	switch f {
	case FormatJSON:
		return richtext.Parse(data)
	case FormatMarkdown:
		return im.markdown.Import(ctx, data)
	case FormatHTML:
		return im.html.Import(ctx, string(data))
	case FormatText:
		return richtext.FromText(strings.TrimSuffix(string(data), "\n")), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, f)
	}
}
