package markdown

import (
	"strconv"
	"strings"

	"github.com/yaklabco/richdraft/pkg/richtext"
)

// Export renders c as Markdown. Styles without a Markdown form, such as
// underline and colours, are dropped.
func Export(c *richtext.Content) string {
	var sb strings.Builder
	blocks := c.Blocks()
	ordinals := map[int]int{}

	for i := 0; i < len(blocks); i++ {
		block := blocks[i]
		if i > 0 {
			sb.WriteString(separator(blocks[i-1], block))
		}

		if !block.Type().IsList() {
			clear(ordinals)
		}

		switch typ := block.Type(); typ {
		case richtext.CodeBlock:
			j := i
			for j+1 < len(blocks) && blocks[j+1].Type() == richtext.CodeBlock &&
				language(blocks[j+1]) == language(block) {
				j++
			}
			writeFence(&sb, blocks[i:j+1])
			i = j

		case richtext.HorizontalRule:
			sb.WriteString("---")

		case richtext.Atomic:
			sb.WriteString(atomic(c, block))

		case richtext.Blockquote:
			writePrefixed(&sb, "> ", inline(c, block))

		case richtext.UnorderedListItem, richtext.OrderedListItem:
			depth := block.Depth()
			for d := range ordinals {
				if d > depth {
					delete(ordinals, d)
				}
			}
			indent := strings.Repeat("    ", depth)
			marker := "- "
			if typ == richtext.OrderedListItem {
				ordinals[depth]++
				marker = strconv.Itoa(ordinals[depth]) + ". "
			}
			sb.WriteString(indent + marker)
			writePrefixed(&sb, "", inline(c, block))

		default:
			if level := typ.HeadingLevel(); level > 0 {
				sb.WriteString(strings.Repeat("#", level) + " ")
			}
			sb.WriteString(inline(c, block))
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

func separator(prev, next *richtext.Block) string {
	if prev.Type().IsList() && next.Type().IsList() {
		return "\n"
	}
	return "\n\n"
}

func language(block *richtext.Block) string {
	lang, _ := block.Data()[LanguageKey].(string)
	return lang
}

func writeFence(sb *strings.Builder, blocks []*richtext.Block) {
	fence := "```"
	for _, block := range blocks {
		for strings.Contains(block.Text(), fence) {
			fence += "`"
		}
	}

	sb.WriteString(fence + language(blocks[0]) + "\n")
	for _, block := range blocks {
		sb.WriteString(block.Text())
		sb.WriteString("\n")
	}
	sb.WriteString(fence)
}

func writePrefixed(sb *strings.Builder, prefix, text string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("  \n")
		}
		sb.WriteString(prefix + line)
	}
}

func atomic(c *richtext.Content, block *richtext.Block) string {
	entity, err := c.Entity(block.EntityAt(0))
	if err != nil {
		return ""
	}
	switch data := entity.Data().(type) {
	case richtext.ImageData:
		return "![](" + data.Src + ")"
	case richtext.VideoData:
		return "[video](" + data.Src + ")"
	default:
		return ""
	}
}

// inline renders the text of block with its styles and links.
func inline(c *richtext.Content, block *richtext.Block) string {
	if block.Type() == richtext.CodeBlock {
		return block.Text()
	}

	var sb strings.Builder
	runs := block.Runs()

	for i := 0; i < len(runs); {
		key := runs[i].Meta.Entity
		j := i + 1
		for key != richtext.NoEntity && j < len(runs) && runs[j].Meta.Entity == key {
			j++
		}

		var inner strings.Builder
		for _, run := range runs[i:j] {
			inner.WriteString(styled(run))
		}

		sb.WriteString(wrapEntity(c, key, inner.String()))
		i = j
	}
	return sb.String()
}

func wrapEntity(c *richtext.Content, key richtext.EntityKey, text string) string {
	if key == richtext.NoEntity {
		return text
	}
	entity, err := c.Entity(key)
	if err != nil {
		return text
	}
	switch data := entity.Data().(type) {
	case richtext.LinkData:
		return "[" + text + "](" + data.URL + ")"
	case richtext.ImageData:
		return "![" + strings.TrimSpace(text) + "](" + data.Src + ")"
	default:
		return text
	}
}

//nolint:gochecknoglobals // lookup table
var markers = []struct {
	style  string
	marker string
}{
	{richtext.StyleBold, "**"},
	{richtext.StyleItalic, "_"},
	{richtext.StyleStrikethrough, "~~"},
}

func styled(run richtext.Run) string {
	core := strings.TrimSpace(run.Text)
	if core == "" {
		return escape(run.Text)
	}
	lead := run.Text[:strings.Index(run.Text, core)]
	trail := run.Text[len(lead)+len(core):]

	var body string
	if run.Meta.Style.Has(richtext.StyleCode) {
		tick := "`"
		for strings.Contains(core, tick) {
			tick += "`"
		}
		body = tick + core + tick
	} else {
		body = escape(core)
	}

	for _, m := range markers {
		if run.Meta.Style.Has(m.style) {
			body = m.marker + body + m.marker
		}
	}
	return lead + body + trail
}

func escape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '*', '_', '`', '[', ']', '~', '<':
			sb.WriteRune('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
