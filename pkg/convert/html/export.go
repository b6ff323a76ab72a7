// Package html converts between documents and HTML.
package html

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yaklabco/richdraft/pkg/convert/markdown"
	"github.com/yaklabco/richdraft/pkg/richtext"
)

// VideoEmbedPrefix turns a VIDEO entity's platform id into an embeddable URL.
const VideoEmbedPrefix = "https://www.youtube.com/embed/"

//nolint:gochecknoglobals // compiled once
var (
	colorPattern    = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)
	embedPattern    = regexp.MustCompile(`^https://www\.youtube\.com/embed/[\w-]+$`)
	languagePattern = regexp.MustCompile(`^language-[\w+#-]+$`)
	targetPattern   = regexp.MustCompile(`^_blank$`)

	sharedPolicy = sync.OnceValue(NewPolicy)
)

// Policy returns the shared sanitisation policy used by Export and
// Importer. It is safe for concurrent use and must not be modified.
func Policy() *bluemonday.Policy {
	return sharedPolicy()
}

// NewPolicy builds the sanitisation policy applied to exported HTML: the
// user-generated-content baseline plus the elements and attributes the
// exporter emits.
func NewPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("target").Matching(targetPattern).OnElements("a")
	p.AllowStyles("color").Matching(colorPattern).OnElements("span")
	p.AllowAttrs("class").Matching(languagePattern).OnElements("code")
	p.AllowElements("figure", "iframe")
	p.AllowAttrs("src").Matching(embedPattern).OnElements("iframe")
	p.AllowAttrs("width", "height", "allowfullscreen").OnElements("iframe")
	return p
}

// ExportOptions configures Export.
type ExportOptions struct {
	// Sanitize passes the output through Policy.
	Sanitize bool
}

// Export renders c as an HTML fragment.
func Export(c *richtext.Content, opts ExportOptions) (string, error) {
	var buf bytes.Buffer
	for i, node := range Nodes(c) {
		if i > 0 {
			buf.WriteByte('\n')
		}
		if err := html.Render(&buf, node); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	buf.WriteByte('\n')

	if !opts.Sanitize {
		return buf.String(), nil
	}
	return Policy().Sanitize(buf.String()), nil
}

type openList struct {
	node  *html.Node
	typ   richtext.BlockType
	depth int
}

// Nodes converts c to top-level HTML nodes.
func Nodes(c *richtext.Content) []*html.Node {
	var (
		roots []*html.Node
		lists []openList
		pre   *html.Node
	)

	for _, block := range c.Blocks() {
		typ := block.Type()
		if typ != richtext.CodeBlock {
			pre = nil
		}
		if !typ.IsList() {
			lists = lists[:0]
		}

		switch {
		case typ.IsList():
			lists, roots = appendListItem(lists, roots, c, block)

		case typ == richtext.CodeBlock:
			if pre == nil {
				pre = element(atom.Pre)
				code := element(atom.Code)
				if lang, _ := block.Data()[markdown.LanguageKey].(string); lang != "" {
					code.Attr = append(code.Attr, html.Attribute{Key: "class", Val: "language-" + lang})
				}
				pre.AppendChild(code)
				roots = append(roots, pre)
			} else {
				pre.FirstChild.AppendChild(textNode("\n"))
			}
			pre.FirstChild.AppendChild(textNode(block.Text()))

		case typ == richtext.HorizontalRule:
			roots = append(roots, element(atom.Hr))

		case typ == richtext.Atomic:
			if fig := figure(c, block); fig != nil {
				roots = append(roots, fig)
			}

		default:
			el := element(blockAtom(typ))
			appendInline(el, c, block)
			roots = append(roots, el)
		}
	}
	return roots
}

func blockAtom(typ richtext.BlockType) atom.Atom {
	switch typ {
	case richtext.HeaderOne:
		return atom.H1
	case richtext.HeaderTwo:
		return atom.H2
	case richtext.HeaderThree:
		return atom.H3
	case richtext.HeaderFour:
		return atom.H4
	case richtext.HeaderFive:
		return atom.H5
	case richtext.HeaderSix:
		return atom.H6
	case richtext.Blockquote:
		return atom.Blockquote
	default:
		return atom.P
	}
}

func appendListItem(
	lists []openList,
	roots []*html.Node,
	c *richtext.Content,
	block *richtext.Block,
) ([]openList, []*html.Node) {
	typ, depth := block.Type(), block.Depth()

	for len(lists) > 0 {
		top := lists[len(lists)-1]
		if top.depth > depth || (top.depth == depth && top.typ != typ) {
			lists = lists[:len(lists)-1]
			continue
		}
		break
	}

	if len(lists) == 0 || lists[len(lists)-1].depth < depth {
		a := atom.Ul
		if typ == richtext.OrderedListItem {
			a = atom.Ol
		}
		list := element(a)
		if len(lists) == 0 {
			roots = append(roots, list)
		} else {
			parent := lists[len(lists)-1].node
			if parent.LastChild != nil {
				parent.LastChild.AppendChild(list)
			} else {
				parent.AppendChild(list)
			}
		}
		lists = append(lists, openList{node: list, typ: typ, depth: depth})
	}

	li := element(atom.Li)
	appendInline(li, c, block)
	lists[len(lists)-1].node.AppendChild(li)
	return lists, roots
}

func figure(c *richtext.Content, block *richtext.Block) *html.Node {
	entity, err := c.Entity(block.EntityAt(0))
	if err != nil {
		return nil
	}

	fig := element(atom.Figure)
	switch data := entity.Data().(type) {
	case richtext.ImageData:
		img := element(atom.Img, html.Attribute{Key: "src", Val: data.Src})
		img.Attr = append(img.Attr, dimensions(data.Width, data.Height)...)
		fig.AppendChild(img)
	case richtext.VideoData:
		frame := element(atom.Iframe,
			html.Attribute{Key: "src", Val: VideoEmbedPrefix + data.Src},
			html.Attribute{Key: "allowfullscreen", Val: ""},
		)
		frame.Attr = append(frame.Attr, dimensions(data.Width, data.Height)...)
		fig.AppendChild(frame)
	default:
		return nil
	}
	return fig
}

func dimensions(width, height int) []html.Attribute {
	var attrs []html.Attribute
	if width > 0 {
		attrs = append(attrs, html.Attribute{Key: "width", Val: strconv.Itoa(width)})
	}
	if height > 0 {
		attrs = append(attrs, html.Attribute{Key: "height", Val: strconv.Itoa(height)})
	}
	return attrs
}

//nolint:gochecknoglobals // lookup table
var styleElements = []struct {
	style string
	atom  atom.Atom
}{
	{richtext.StyleCode, atom.Code},
	{richtext.StyleBold, atom.Strong},
	{richtext.StyleItalic, atom.Em},
	{richtext.StyleUnderline, atom.U},
	{richtext.StyleStrikethrough, atom.S},
}

func appendInline(parent *html.Node, c *richtext.Content, block *richtext.Block) {
	runs := block.Runs()
	for i := 0; i < len(runs); {
		key := runs[i].Meta.Entity
		j := i + 1
		for key != richtext.NoEntity && j < len(runs) && runs[j].Meta.Entity == key {
			j++
		}

		container := entityNode(c, key)
		target := parent
		if container != nil {
			parent.AppendChild(container)
			target = container
		}
		for _, run := range runs[i:j] {
			target.AppendChild(styledNode(run))
		}
		i = j
	}
}

func entityNode(c *richtext.Content, key richtext.EntityKey) *html.Node {
	if key == richtext.NoEntity {
		return nil
	}
	entity, err := c.Entity(key)
	if err != nil {
		return nil
	}
	data, ok := entity.Data().(richtext.LinkData)
	if !ok {
		return nil
	}
	a := element(atom.A, html.Attribute{Key: "href", Val: data.URL})
	if data.Target != "" {
		a.Attr = append(a.Attr, html.Attribute{Key: "target", Val: data.Target})
	}
	return a
}

func styledNode(run richtext.Run) *html.Node {
	var root, leaf *html.Node
	wrap := func(el *html.Node) {
		if root == nil {
			root = el
		} else {
			leaf.AppendChild(el)
		}
		leaf = el
	}

	for _, se := range styleElements {
		if run.Meta.Style.Has(se.style) {
			wrap(element(se.atom))
		}
	}
	for _, style := range run.Meta.Style.Names() {
		if colorPattern.MatchString(style) {
			wrap(element(atom.Span, html.Attribute{Key: "style", Val: "color: " + style}))
			break
		}
	}

	text := textWithBreaks(run.Text)
	if root == nil {
		return text
	}
	leaf.AppendChild(text)
	return root
}

// textWithBreaks returns a text node, or a fragment of text and <br> nodes
// wrapped in a <span> when the text holds newlines.
func textWithBreaks(s string) *html.Node {
	if !strings.Contains(s, "\n") {
		return textNode(s)
	}
	span := element(atom.Span)
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			span.AppendChild(element(atom.Br))
		}
		if line != "" {
			span.AppendChild(textNode(line))
		}
	}
	return span
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
