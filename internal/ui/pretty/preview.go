package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/richdraft/pkg/richtext"
)

const (
	listIndent  = "  "
	quotePrefix = "│ "
	codePrefix  = "  "
)

// PreviewOptions configures Preview.
type PreviewOptions struct {
	// Width caps the horizontal rule; 0 means DefaultWidth.
	Width int

	// ShowKeys prefixes each block with its key and type.
	ShowKeys bool
}

// Preview renders a document for the terminal. Without colour the output is
// plain text with Markdown-like markers.
func (s *Styles) Preview(c *richtext.Content, opts PreviewOptions) string {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}

	var (
		out      strings.Builder
		ordinals []int
	)
	for i, block := range c.Blocks() {
		typ := block.Type()
		if typ == richtext.OrderedListItem {
			for len(ordinals) <= block.Depth() {
				ordinals = append(ordinals, 0)
			}
			ordinals = ordinals[:block.Depth()+1]
			ordinals[block.Depth()]++
		} else if !typ.IsList() {
			ordinals = ordinals[:0]
		}

		if i > 0 && !(typ.IsList() && c.BlockAt(i-1).Type().IsList()) &&
			!(typ == richtext.CodeBlock && c.BlockAt(i-1).Type() == richtext.CodeBlock) {
			out.WriteByte('\n')
		}
		if opts.ShowKeys {
			out.WriteString(s.BlockInfo.Render(fmt.Sprintf("[%s %s]", block.Key(), typ)))
			out.WriteByte(' ')
		}

		var ordinal int
		if len(ordinals) > block.Depth() {
			ordinal = ordinals[block.Depth()]
		}
		out.WriteString(s.previewBlock(c, block, width, ordinal))
		out.WriteByte('\n')
	}
	return out.String()
}

func (s *Styles) previewBlock(c *richtext.Content, block *richtext.Block, width, ordinal int) string {
	typ := block.Type()

	if level := typ.HeadingLevel(); level > 0 {
		return s.Heading.Render(strings.Repeat("#", level)+" ") + s.inline(c, block, s.Heading)
	}

	switch typ {
	case richtext.Blockquote:
		return prefixLines(s.inline(c, block, s.Quote), s.Dim.Render(quotePrefix))
	case richtext.UnorderedListItem:
		return strings.Repeat(listIndent, block.Depth()) + s.Bullet.Render("• ") + s.inline(c, block, lipgloss.NewStyle())
	case richtext.OrderedListItem:
		marker := strconv.Itoa(ordinal) + ". "
		return strings.Repeat(listIndent, block.Depth()) + s.Bullet.Render(marker) + s.inline(c, block, lipgloss.NewStyle())
	case richtext.CodeBlock:
		return prefixLines(s.Code.Render(block.Text()), codePrefix)
	case richtext.HorizontalRule:
		return s.Rule.Render(strings.Repeat("─", min(width, DefaultWidth)))
	case richtext.Atomic:
		return s.Embed.Render(embedLabel(c, block))
	default:
		return s.inline(c, block, lipgloss.NewStyle())
	}
}

func embedLabel(c *richtext.Content, block *richtext.Block) string {
	entity, err := c.Entity(block.EntityAt(0))
	if err != nil {
		return "[embed]"
	}
	switch data := entity.Data().(type) {
	case richtext.ImageData:
		return "[image: " + data.Src + dimensions(data.Width, data.Height) + "]"
	case richtext.VideoData:
		return "[video: " + data.Src + dimensions(data.Width, data.Height) + "]"
	default:
		return "[" + strings.ToLower(string(entity.Type())) + "]"
	}
}

func dimensions(width, height int) string {
	if width == 0 && height == 0 {
		return ""
	}
	return fmt.Sprintf(" %dx%d", width, height)
}

// inline renders the block's runs. Links are followed by their URL.
func (s *Styles) inline(c *richtext.Content, block *richtext.Block, base lipgloss.Style) string {
	var out strings.Builder
	runs := block.Runs()
	for i, run := range runs {
		style := base
		if s.color {
			style = s.runStyle(base, run.Meta.Style)
		}

		key := run.Meta.Entity
		link := linkURL(c, key)
		if link != "" && s.color {
			style = style.Inherit(s.Link)
		}
		out.WriteString(renderLines(style, run.Text))

		lastOfEntity := i == len(runs)-1 || runs[i+1].Meta.Entity != key
		if link != "" && lastOfEntity {
			out.WriteString(s.Dim.Render(" (" + link + ")"))
		}
	}
	return out.String()
}

func (s *Styles) runStyle(base lipgloss.Style, styles richtext.StyleSet) lipgloss.Style {
	style := base
	for _, name := range styles.Names() {
		switch name {
		case richtext.StyleBold:
			style = style.Bold(true)
		case richtext.StyleItalic:
			style = style.Italic(true)
		case richtext.StyleUnderline:
			style = style.Underline(true)
		case richtext.StyleStrikethrough:
			style = style.Strikethrough(true)
		case richtext.StyleCode:
			style = style.Inherit(s.Code)
		default:
			if strings.HasPrefix(name, "#") {
				style = style.Foreground(lipgloss.Color(name))
			}
		}
	}
	return style
}

func linkURL(c *richtext.Content, key richtext.EntityKey) string {
	if key == richtext.NoEntity {
		return ""
	}
	entity, err := c.Entity(key)
	if err != nil {
		return ""
	}
	if data, ok := entity.Data().(richtext.LinkData); ok {
		return data.URL
	}
	return ""
}

// renderLines styles each line separately; Lipgloss pads multi-line input
// to a block.
func renderLines(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func prefixLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
