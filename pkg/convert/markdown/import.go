// Package markdown converts between documents and Markdown text.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/richdraft/pkg/langdetect"
	"github.com/yaklabco/richdraft/pkg/richtext"
)

// Markdown flavors.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// LanguageKey is the block data key holding a code block's language.
const LanguageKey = "language"

// Importer parses Markdown into documents.
type Importer struct {
	flavor string
	md     goldmark.Markdown
	detect bool
}

// ImportOption configures an Importer.
type ImportOption func(*Importer)

// WithLanguageDetection tags fenced code blocks that lack an info string
// with a detected language.
func WithLanguageDetection(enabled bool) ImportOption {
	return func(im *Importer) { im.detect = enabled }
}

// NewImporter creates an importer for flavor. Unknown flavors fall back to CommonMark.
func NewImporter(flavor string, opts ...ImportOption) *Importer {
	f := flavorOrDefault(flavor)
	im := &Importer{flavor: f, md: newGoldmark(f)}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Flavor returns the configured flavor.
func (im *Importer) Flavor() string {
	return im.flavor
}

// Import parses source into a document.
func (im *Importer) Import(ctx context.Context, source []byte) (*richtext.Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("import cancelled: %w", err)
	}

	doc := im.md.Parser().Parse(text.NewReader(source), parser.WithContext(parser.NewContext()))

	b := &builder{source: source, detect: im.detect}
	b.blocks(doc, frame{typ: richtext.Unstyled})

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("import cancelled: %w", err)
	}
	return b.content()
}

func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmark(flavor string) goldmark.Markdown {
	var opts []goldmark.Option
	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	return goldmark.New(opts...)
}

// frame is the block context inherited by nested Markdown containers.
type frame struct {
	typ   richtext.BlockType
	depth int
	// listDepth is the depth the next nested list starts at.
	listDepth int
}

type pendingEntity struct {
	mutability richtext.Mutability
	data       richtext.EntityData
}

type builder struct {
	source   []byte
	detect   bool
	out      []richtext.BlockConfig
	entities []pendingEntity
	taken    map[string]struct{}

	// current inline run state
	runes []rune
	chars []richtext.CharMeta
}

func (b *builder) content() (*richtext.Content, error) {
	if len(b.out) == 0 {
		b.out = append(b.out, richtext.BlockConfig{Key: b.key(), Type: richtext.Unstyled})
	}

	blocks := make([]*richtext.Block, 0, len(b.out))
	for _, cfg := range b.out {
		block, err := richtext.NewBlockFromConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("build block: %w", err)
		}
		blocks = append(blocks, block)
	}

	content, err := richtext.NewContent(blocks)
	if err != nil {
		return nil, fmt.Errorf("build document: %w", err)
	}
	for _, pending := range b.entities {
		content, _ = content.CreateEntity(pending.mutability, pending.data)
	}
	return content, nil
}

func (b *builder) key() string {
	if b.taken == nil {
		b.taken = map[string]struct{}{}
	}
	for {
		key := richtext.GenerateKey(nil)
		if _, dup := b.taken[key]; !dup {
			b.taken[key] = struct{}{}
			return key
		}
	}
}

// entity registers an entity and returns the key it will receive.
func (b *builder) entity(mutability richtext.Mutability, data richtext.EntityData) richtext.EntityKey {
	key := richtext.EntityKey(strconv.Itoa(len(b.entities)))
	b.entities = append(b.entities, pendingEntity{mutability: mutability, data: data})
	return key
}

func (b *builder) emit(typ richtext.BlockType, depth int, data map[string]any) {
	b.out = append(b.out, richtext.BlockConfig{
		Key:   b.key(),
		Type:  typ,
		Text:  string(b.runes),
		Depth: depth,
		Chars: b.chars,
		Data:  data,
	})
	b.runes, b.chars = nil, nil
}

func (b *builder) write(s string, meta richtext.CharMeta) {
	for _, r := range s {
		b.runes = append(b.runes, r)
		b.chars = append(b.chars, meta)
	}
}

func (b *builder) blocks(parent ast.Node, f frame) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		b.block(child, f)
	}
}

func (b *builder) block(node ast.Node, f frame) {
	switch n := node.(type) {
	case *ast.Heading:
		b.inlines(n, richtext.CharMeta{})
		b.emit(richtext.HeadingType(n.Level), 0, nil)

	case *ast.Paragraph, *ast.TextBlock:
		if img, ok := soleImage(n); ok {
			key := b.entity(richtext.Immutable, richtext.ImageData{Src: string(img.Destination)})
			b.write(" ", richtext.CharMeta{Entity: key})
			b.emit(richtext.Atomic, 0, nil)
			return
		}
		b.inlines(n, richtext.CharMeta{})
		b.emit(f.typ, f.depth, nil)

	case *ast.Blockquote:
		b.blocks(n, frame{typ: richtext.Blockquote, listDepth: f.listDepth})

	case *ast.List:
		typ := richtext.UnorderedListItem
		if n.IsOrdered() {
			typ = richtext.OrderedListItem
		}
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			b.blocks(item, frame{typ: typ, depth: f.listDepth, listDepth: f.listDepth + 1})
		}

	case *ast.FencedCodeBlock:
		code := b.lines(n)
		lang := string(n.Language(b.source))
		if lang == "" && b.detect {
			lang = langdetect.ForCodeBlock(code)
		}
		b.code(code, lang)

	case *ast.CodeBlock:
		code := b.lines(n)
		lang := ""
		if b.detect {
			lang = langdetect.ForCodeBlock(code)
		}
		b.code(code, lang)

	case *ast.ThematicBreak:
		b.emit(richtext.HorizontalRule, 0, nil)

	case *ast.HTMLBlock:
		b.write(strings.TrimRight(b.lines(n), "\n"), richtext.CharMeta{})
		b.emit(richtext.Unstyled, 0, nil)

	default:
		// Tables and other extension blocks degrade to their plain text.
		b.write(plainText(node, b.source), richtext.CharMeta{})
		b.emit(f.typ, f.depth, nil)
	}
}

func (b *builder) code(code, lang string) {
	b.write(code, richtext.CharMeta{})
	var data map[string]any
	if lang != "" {
		data = map[string]any{LanguageKey: lang}
	}
	b.emit(richtext.CodeBlock, 0, data)
}

func (b *builder) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(b.source))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func (b *builder) inlines(parent ast.Node, meta richtext.CharMeta) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		b.inline(child, meta)
	}
}

func (b *builder) inline(node ast.Node, meta richtext.CharMeta) {
	switch n := node.(type) {
	case *ast.Text:
		b.write(string(n.Segment.Value(b.source)), meta)
		switch {
		case n.HardLineBreak():
			b.write("\n", meta)
		case n.SoftLineBreak():
			b.write(" ", meta)
		}

	case *ast.String:
		b.write(string(n.Value), meta)

	case *ast.Emphasis:
		style := richtext.StyleItalic
		if n.Level >= 2 {
			style = richtext.StyleBold
		}
		b.inlines(n, withStyle(meta, style))

	case *ast.CodeSpan:
		b.inlines(n, withStyle(meta, richtext.StyleCode))

	case *east.Strikethrough:
		b.inlines(n, withStyle(meta, richtext.StyleStrikethrough))

	case *ast.Link:
		key := b.entity(richtext.Mutable, richtext.LinkData{URL: string(n.Destination)})
		b.inlines(n, withEntity(meta, key))

	case *ast.AutoLink:
		key := b.entity(richtext.Mutable, richtext.LinkData{URL: string(n.URL(b.source))})
		b.write(string(n.Label(b.source)), withEntity(meta, key))

	case *ast.Image:
		key := b.entity(richtext.Immutable, richtext.ImageData{Src: string(n.Destination)})
		alt := plainText(n, b.source)
		if alt == "" {
			alt = " "
		}
		b.write(alt, withEntity(meta, key))

	case *ast.RawHTML:
		// Inline HTML has no rich-text equivalent.

	default:
		b.inlines(n, meta)
	}
}

func withStyle(meta richtext.CharMeta, style string) richtext.CharMeta {
	meta.Style = meta.Style.Add(style)
	return meta
}

func withEntity(meta richtext.CharMeta, key richtext.EntityKey) richtext.CharMeta {
	meta.Entity = key
	return meta
}

func soleImage(n ast.Node) (*ast.Image, bool) {
	if n.ChildCount() != 1 {
		return nil, false
	}
	img, ok := n.FirstChild().(*ast.Image)
	return img, ok
}

// plainText concatenates the text of every descendant of n.
func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
