package richtext

import (
	"maps"
	"slices"
)

// BlockType is the block-level type of a Block.
type BlockType string

// Block types.
const (
	Unstyled          BlockType = "unstyled"
	HeaderOne         BlockType = "header-one"
	HeaderTwo         BlockType = "header-two"
	HeaderThree       BlockType = "header-three"
	HeaderFour        BlockType = "header-four"
	HeaderFive        BlockType = "header-five"
	HeaderSix         BlockType = "header-six"
	Blockquote        BlockType = "blockquote"
	UnorderedListItem BlockType = "unordered-list-item"
	OrderedListItem   BlockType = "ordered-list-item"
	CodeBlock         BlockType = "code-block"
	HorizontalRule    BlockType = "HR"
	Atomic            BlockType = "atomic"
)

//nolint:gochecknoglobals // lookup table
var blockTypes = []BlockType{
	Unstyled,
	HeaderOne, HeaderTwo, HeaderThree, HeaderFour, HeaderFive, HeaderSix,
	Blockquote,
	UnorderedListItem, OrderedListItem,
	CodeBlock,
	HorizontalRule,
	Atomic,
}

// BlockTypes returns every known block type.
func BlockTypes() []BlockType {
	return slices.Clone(blockTypes)
}

// IsValid reports whether t is a known block type.
func (t BlockType) IsValid() bool {
	return slices.Contains(blockTypes, t)
}

// IsList reports whether t is a list item type that carries depth.
func (t BlockType) IsList() bool {
	return t == UnorderedListItem || t == OrderedListItem
}

// HeadingLevel returns 1-6 for heading types and 0 otherwise.
func (t BlockType) HeadingLevel() int {
	switch t {
	case HeaderOne:
		return 1
	case HeaderTwo:
		return 2
	case HeaderThree:
		return 3
	case HeaderFour:
		return 4
	case HeaderFive:
		return 5
	case HeaderSix:
		return 6
	default:
		return 0
	}
}

// HeadingType returns the heading type for level 1-6, or Unstyled.
func HeadingType(level int) BlockType {
	if level < 1 || level > 6 {
		return Unstyled
	}
	return blockTypes[level]
}

// CharMeta is the per-character annotation state.
type CharMeta struct {
	Style  StyleSet
	Entity EntityKey
}

// Equal reports whether both annotations match.
func (m CharMeta) Equal(other CharMeta) bool {
	return m.Entity == other.Entity && m.Style.Equal(other.Style)
}

// StyleRange is a maximal run of one inline style.
type StyleRange struct {
	Style  string
	Offset int
	Length int
}

// EntityRange is a maximal run of one entity.
type EntityRange struct {
	Key    EntityKey
	Offset int
	Length int
}

// BlockConfig describes a block to construct with NewBlockFromConfig.
type BlockConfig struct {
	Key   string
	Type  BlockType
	Text  string
	Depth int
	// Chars holds one annotation per code point of Text. Nil means unannotated.
	Chars []CharMeta
	Data  map[string]any
}

// Block is an immutable paragraph-level element of a document.
// Offsets into a block count Unicode code points.
type Block struct {
	key   string
	typ   BlockType
	text  []rune
	depth int
	chars []CharMeta
	data  map[string]any
}

// NewBlock creates an unannotated block.
func NewBlock(key string, typ BlockType, text string) *Block {
	runes := []rune(text)
	return &Block{
		key:   key,
		typ:   typ,
		text:  runes,
		chars: make([]CharMeta, len(runes)),
	}
}

// NewBlockFromConfig creates a block from cfg, validating its shape.
func NewBlockFromConfig(cfg BlockConfig) (*Block, error) {
	if cfg.Key == "" {
		return nil, &MalformedWireFormatError{Message: "block key is empty"}
	}
	typ := cfg.Type
	if typ == "" {
		typ = Unstyled
	}
	if !typ.IsValid() {
		return nil, &MalformedWireFormatError{Message: "unknown block type " + string(typ)}
	}
	if cfg.Depth < 0 {
		return nil, &MalformedWireFormatError{Message: "negative depth"}
	}

	runes := []rune(cfg.Text)
	chars := cfg.Chars
	switch {
	case chars == nil:
		chars = make([]CharMeta, len(runes))
	case len(chars) != len(runes):
		return nil, &MalformedWireFormatError{Message: "character metadata does not match text length"}
	default:
		chars = slices.Clone(chars)
	}

	return &Block{
		key:   cfg.Key,
		typ:   typ,
		text:  runes,
		depth: cfg.Depth,
		chars: chars,
		data:  cloneData(cfg.Data),
	}, nil
}

// Config returns a BlockConfig describing b. Modifying the result does not affect b.
func (b *Block) Config() BlockConfig {
	return BlockConfig{
		Key:   b.key,
		Type:  b.typ,
		Text:  string(b.text),
		Depth: b.depth,
		Chars: slices.Clone(b.chars),
		Data:  cloneData(b.data),
	}
}

// Key returns the block key.
func (b *Block) Key() string { return b.key }

// Type returns the block type.
func (b *Block) Type() BlockType { return b.typ }

// Text returns the block text.
func (b *Block) Text() string { return string(b.text) }

// Runes returns a copy of the block text as code points.
func (b *Block) Runes() []rune { return slices.Clone(b.text) }

// Len returns the text length in code points.
func (b *Block) Len() int { return len(b.text) }

// Depth returns the nesting depth.
func (b *Block) Depth() int { return b.depth }

// Data returns a copy of the block data.
func (b *Block) Data() map[string]any { return cloneData(b.data) }

// Chars returns a copy of the per-character annotations.
func (b *Block) Chars() []CharMeta { return slices.Clone(b.chars) }

// CharAt returns the annotation at offset. Out-of-range offsets yield the zero value.
func (b *Block) CharAt(offset int) CharMeta {
	if offset < 0 || offset >= len(b.chars) {
		return CharMeta{}
	}
	return b.chars[offset]
}

// StyleAt returns the inline styles at offset.
func (b *Block) StyleAt(offset int) StyleSet {
	return b.CharAt(offset).Style
}

// EntityAt returns the entity at offset, or NoEntity.
func (b *Block) EntityAt(offset int) EntityKey {
	return b.CharAt(offset).Entity
}

// WithType returns a copy of b with the given type.
func (b *Block) WithType(typ BlockType) *Block {
	out := *b
	out.typ = typ
	return &out
}

// WithDepth returns a copy of b with the given depth.
func (b *Block) WithDepth(depth int) *Block {
	out := *b
	out.depth = depth
	return &out
}

// WithKey returns a copy of b with the given key.
func (b *Block) WithKey(key string) *Block {
	out := *b
	out.key = key
	return &out
}

// WithData returns a copy of b with the given data.
func (b *Block) WithData(data map[string]any) *Block {
	out := *b
	out.data = cloneData(data)
	return &out
}

// MapChars returns a copy of b with fn applied to the annotations in [start, end).
// The offsets are clamped to the block.
func (b *Block) MapChars(start, end int, fn func(CharMeta) CharMeta) *Block {
	start = max(0, start)
	end = min(len(b.chars), end)
	if start >= end {
		return b
	}

	chars := slices.Clone(b.chars)
	for i := start; i < end; i++ {
		chars[i] = fn(chars[i])
	}

	out := *b
	out.chars = chars
	return &out
}

// InlineStyleRanges returns the maximal runs of each style, ordered by offset and then style name.
func (b *Block) InlineStyleRanges() []StyleRange {
	ranges := make([]StyleRange, 0)
	open := map[string]int{}

	flush := func(style string, end int) {
		start := open[style]
		ranges = append(ranges, StyleRange{Style: style, Offset: start, Length: end - start})
		delete(open, style)
	}

	for i, meta := range b.chars {
		for _, style := range sortedKeys(open) {
			if !meta.Style.Has(style) {
				flush(style, i)
			}
		}
		for _, style := range meta.Style.names {
			if _, ok := open[style]; !ok {
				open[style] = i
			}
		}
	}
	for _, style := range sortedKeys(open) {
		flush(style, len(b.chars))
	}

	slices.SortStableFunc(ranges, func(a, b StyleRange) int {
		if a.Offset != b.Offset {
			return a.Offset - b.Offset
		}
		if a.Style < b.Style {
			return -1
		}
		if a.Style > b.Style {
			return 1
		}
		return 0
	})

	return ranges
}

// EntityRanges returns the maximal runs of each entity in offset order.
func (b *Block) EntityRanges() []EntityRange {
	ranges := make([]EntityRange, 0)
	for i := 0; i < len(b.chars); {
		key := b.chars[i].Entity
		j := i + 1
		for j < len(b.chars) && b.chars[j].Entity == key {
			j++
		}
		if key != NoEntity {
			ranges = append(ranges, EntityRange{Key: key, Offset: i, Length: j - i})
		}
		i = j
	}
	return ranges
}

// Run is a maximal stretch of characters with identical annotations.
type Run struct {
	Text   string
	Offset int
	Meta   CharMeta
}

// Runs splits the block text into runs of identical annotations.
func (b *Block) Runs() []Run {
	var runs []Run
	for i := 0; i < len(b.text); {
		j := i + 1
		for j < len(b.text) && b.chars[j].Equal(b.chars[i]) {
			j++
		}
		runs = append(runs, Run{Text: string(b.text[i:j]), Offset: i, Meta: b.chars[i]})
		i = j
	}
	return runs
}

// Equal reports structural equality.
func (b *Block) Equal(other *Block) bool {
	if b == other {
		return true
	}
	if b == nil || other == nil {
		return false
	}
	if b.key != other.key || b.typ != other.typ || b.depth != other.depth {
		return false
	}
	if !slices.Equal(b.text, other.text) {
		return false
	}
	if !slices.EqualFunc(b.chars, other.chars, CharMeta.Equal) {
		return false
	}
	return equalFields(b.data, other.data)
}

func sortedKeys(m map[string]int) []string {
	return slices.Sorted(maps.Keys(m))
}

func cloneData(data map[string]any) map[string]any {
	if len(data) == 0 {
		return nil
	}
	return maps.Clone(data)
}
