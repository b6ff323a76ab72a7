package richtext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// RawDraft is the wire representation of a document.
type RawDraft struct {
	Blocks    []RawBlock           `json:"blocks"`
	EntityMap map[string]RawEntity `json:"entityMap"`
}

// RawBlock is the wire representation of a block.
type RawBlock struct {
	Key               string                `json:"key"`
	Text              string                `json:"text"`
	Type              string                `json:"type"`
	Depth             int                   `json:"depth"`
	InlineStyleRanges []RawInlineStyleRange `json:"inlineStyleRanges"`
	EntityRanges      []RawEntityRange      `json:"entityRanges"`
	Data              map[string]any        `json:"data"`
}

// RawInlineStyleRange is one inline style run.
type RawInlineStyleRange struct {
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	Style  string `json:"style"`
}

// RawEntityRange is one entity run. Key indexes EntityMap by its decimal form.
type RawEntityRange struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
	Key    int `json:"key"`
}

// RawEntity is the wire representation of an entity.
type RawEntity struct {
	Type       string         `json:"type"`
	Mutability string         `json:"mutability"`
	Data       map[string]any `json:"data"`
}

// ToRaw converts c to its wire representation. Every entity is emitted,
// including ones no block references, and identifiers are kept as-is.
func ToRaw(c *Content) *RawDraft {
	raw := &RawDraft{
		Blocks:    make([]RawBlock, 0, len(c.blocks)),
		EntityMap: make(map[string]RawEntity, len(c.entities)),
	}

	for _, block := range c.blocks {
		rb := RawBlock{
			Key:               block.key,
			Text:              block.Text(),
			Type:              string(block.typ),
			Depth:             block.depth,
			InlineStyleRanges: make([]RawInlineStyleRange, 0),
			EntityRanges:      make([]RawEntityRange, 0),
			Data:              block.Data(),
		}
		if rb.Data == nil {
			rb.Data = map[string]any{}
		}

		for _, sr := range block.InlineStyleRanges() {
			rb.InlineStyleRanges = append(rb.InlineStyleRanges, RawInlineStyleRange{
				Offset: sr.Offset,
				Length: sr.Length,
				Style:  sr.Style,
			})
		}

		for _, er := range block.EntityRanges() {
			id, err := strconv.Atoi(string(er.Key))
			if err != nil {
				// Keys are only ever minted from the numeric counter.
				panic(fmt.Sprintf("non-numeric entity key %q", er.Key))
			}
			rb.EntityRanges = append(rb.EntityRanges, RawEntityRange{
				Offset: er.Offset,
				Length: er.Length,
				Key:    id,
			})
		}

		raw.Blocks = append(raw.Blocks, rb)
	}

	for key, entity := range c.entities {
		raw.EntityMap[string(key)] = RawEntity{
			Type:       string(entity.Type()),
			Mutability: string(entity.mutability),
			Data:       entity.data.Fields(),
		}
	}

	return raw
}

// FromRaw builds a snapshot from its wire representation. The whole import is
// rejected with a *MalformedWireFormatError on the first violation.
func FromRaw(raw *RawDraft) (*Content, error) {
	if raw == nil {
		return nil, malformed("", "document is nil")
	}
	if len(raw.Blocks) == 0 {
		return nil, malformed("blocks", "document has no blocks")
	}

	entities, next, err := entitiesFromRaw(raw.EntityMap)
	if err != nil {
		return nil, err
	}

	blocks := make([]*Block, 0, len(raw.Blocks))
	for i, rb := range raw.Blocks {
		block, err := blockFromRaw(fmt.Sprintf("blocks[%d]", i), rb, entities)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	content, err := NewContent(blocks)
	if err != nil {
		return nil, err
	}
	content.entities = entities
	content.nextEntityID = next
	return content, nil
}

func entitiesFromRaw(entityMap map[string]RawEntity) (map[EntityKey]*Entity, int, error) {
	entities := make(map[EntityKey]*Entity, len(entityMap))
	next := 0

	for _, id := range slices.Sorted(maps.Keys(entityMap)) {
		raw := entityMap[id]
		path := fmt.Sprintf("entityMap[%q]", id)

		n, err := strconv.Atoi(id)
		if err != nil || n < 0 || strconv.Itoa(n) != id {
			return nil, 0, malformed(path, "entity identifier must be a non-negative integer")
		}
		if raw.Type == "" {
			return nil, 0, malformed(path+".type", "missing entity type")
		}
		mutability := Mutability(raw.Mutability)
		if !mutability.IsValid() {
			return nil, 0, malformed(path+".mutability", "unknown mutability %q", raw.Mutability)
		}

		fields := raw.Data
		if fields == nil {
			fields = map[string]any{}
		}
		data, err := DecodeEntityData(EntityType(raw.Type), fields)
		if err != nil {
			return nil, 0, &MalformedWireFormatError{Path: path + ".data", Message: "invalid entity data", Err: err}
		}

		key := EntityKey(id)
		entities[key] = &Entity{key: key, mutability: mutability, data: data}
		next = max(next, n+1)
	}

	return entities, next, nil
}

func blockFromRaw(path string, rb RawBlock, entities map[EntityKey]*Entity) (*Block, error) {
	if rb.Key == "" {
		return nil, malformed(path+".key", "missing block key")
	}
	typ := BlockType(rb.Type)
	if typ == "" {
		typ = Unstyled
	}
	if !typ.IsValid() {
		return nil, malformed(path+".type", "unknown block type %q", rb.Type)
	}
	if rb.Depth < 0 {
		return nil, malformed(path+".depth", "depth %d is negative", rb.Depth)
	}

	textLen := len([]rune(rb.Text))
	chars := make([]CharMeta, textLen)

	styleRanges := make([]textRange, len(rb.InlineStyleRanges))
	for i, sr := range rb.InlineStyleRanges {
		if sr.Style == "" {
			return nil, malformed(fmt.Sprintf("%s.inlineStyleRanges[%d].style", path, i), "missing style")
		}
		styleRanges[i] = newTextRange(i, sr.Offset, sr.Length)
	}
	if err := validateRanges(path+".inlineStyleRanges", styleRanges, textLen); err != nil {
		return nil, err
	}

	entityRanges := make([]textRange, len(rb.EntityRanges))
	for i, er := range rb.EntityRanges {
		entityRanges[i] = newTextRange(i, er.Offset, er.Length)
	}
	if err := validateRanges(path+".entityRanges", entityRanges, textLen); err != nil {
		return nil, err
	}
	for i, er := range rb.EntityRanges {
		if _, ok := entities[EntityKey(strconv.Itoa(er.Key))]; !ok {
			return nil, malformed(fmt.Sprintf("%s.entityRanges[%d].key", path, i), "entity %d is not in entityMap", er.Key)
		}
	}
	sorted := slices.Clone(entityRanges)
	sortRanges(sorted)
	if err := detectOverlaps(path+".entityRanges", sorted); err != nil {
		return nil, err
	}

	for _, sr := range rb.InlineStyleRanges {
		for i := sr.Offset; i < sr.Offset+sr.Length; i++ {
			chars[i].Style = chars[i].Style.Add(sr.Style)
		}
	}
	for _, er := range rb.EntityRanges {
		key := EntityKey(strconv.Itoa(er.Key))
		for i := er.Offset; i < er.Offset+er.Length; i++ {
			chars[i].Entity = key
		}
	}

	return &Block{
		key:   rb.Key,
		typ:   typ,
		text:  []rune(rb.Text),
		depth: rb.Depth,
		chars: chars,
		data:  cloneData(rb.Data),
	}, nil
}

// The decode-side mirror of the wire types uses pointers so that missing
// required members can be told apart from zero values.
type wireDraft struct {
	Blocks    *[]wireBlock          `json:"blocks"`
	EntityMap map[string]wireEntity `json:"entityMap"`
}

type wireBlock struct {
	Key               *string          `json:"key"`
	Text              *string          `json:"text"`
	Type              *string          `json:"type"`
	Depth             *int             `json:"depth"`
	InlineStyleRanges []wireStyleRange `json:"inlineStyleRanges"`
	EntityRanges      []wireEntityRef  `json:"entityRanges"`
	Data              map[string]any   `json:"data"`
}

type wireStyleRange struct {
	Offset *int    `json:"offset"`
	Length *int    `json:"length"`
	Style  *string `json:"style"`
}

type wireEntityRef struct {
	Offset *int            `json:"offset"`
	Length *int            `json:"length"`
	Key    json.RawMessage `json:"key"`
}

type wireEntity struct {
	Type       *string        `json:"type"`
	Mutability *string        `json:"mutability"`
	Data       map[string]any `json:"data"`
}

// UnmarshalRaw decodes JSON into a RawDraft, checking that required members
// are present. Range and reference checks happen in FromRaw.
func UnmarshalRaw(data []byte) (*RawDraft, error) {
	var wire wireDraft
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&wire); err != nil {
		return nil, &MalformedWireFormatError{Message: "invalid JSON", Err: err}
	}

	if wire.Blocks == nil {
		return nil, malformed("blocks", "missing blocks")
	}

	raw := &RawDraft{
		Blocks:    make([]RawBlock, 0, len(*wire.Blocks)),
		EntityMap: make(map[string]RawEntity, len(wire.EntityMap)),
	}

	for i, wb := range *wire.Blocks {
		path := fmt.Sprintf("blocks[%d]", i)
		block, err := wb.toRaw(path)
		if err != nil {
			return nil, err
		}
		raw.Blocks = append(raw.Blocks, block)
	}

	for id, we := range wire.EntityMap {
		path := fmt.Sprintf("entityMap[%q]", id)
		if we.Type == nil {
			return nil, malformed(path, "missing type")
		}
		if we.Mutability == nil {
			return nil, malformed(path, "missing mutability")
		}
		raw.EntityMap[id] = RawEntity{
			Type:       *we.Type,
			Mutability: *we.Mutability,
			Data:       normalizeNumbers(we.Data),
		}
	}

	return raw, nil
}

func (wb wireBlock) toRaw(path string) (RawBlock, error) {
	if wb.Key == nil {
		return RawBlock{}, malformed(path, "missing key")
	}
	if wb.Text == nil {
		return RawBlock{}, malformed(path, "missing text")
	}

	block := RawBlock{
		Key:               *wb.Key,
		Text:              *wb.Text,
		Type:              string(Unstyled),
		InlineStyleRanges: make([]RawInlineStyleRange, 0, len(wb.InlineStyleRanges)),
		EntityRanges:      make([]RawEntityRange, 0, len(wb.EntityRanges)),
		Data:              normalizeNumbers(wb.Data),
	}
	if wb.Type != nil && *wb.Type != "" {
		block.Type = *wb.Type
	}
	if wb.Depth != nil {
		block.Depth = *wb.Depth
	}

	for j, sr := range wb.InlineStyleRanges {
		at := fmt.Sprintf("%s.inlineStyleRanges[%d]", path, j)
		if sr.Offset == nil || sr.Length == nil || sr.Style == nil {
			return RawBlock{}, malformed(at, "offset, length and style are required")
		}
		block.InlineStyleRanges = append(block.InlineStyleRanges, RawInlineStyleRange{
			Offset: *sr.Offset,
			Length: *sr.Length,
			Style:  *sr.Style,
		})
	}

	for j, er := range wb.EntityRanges {
		at := fmt.Sprintf("%s.entityRanges[%d]", path, j)
		if er.Offset == nil || er.Length == nil || len(er.Key) == 0 {
			return RawBlock{}, malformed(at, "offset, length and key are required")
		}
		key, err := decodeEntityRef(er.Key)
		if err != nil {
			return RawBlock{}, &MalformedWireFormatError{Path: at + ".key", Message: "invalid entity key", Err: err}
		}
		block.EntityRanges = append(block.EntityRanges, RawEntityRange{
			Offset: *er.Offset,
			Length: *er.Length,
			Key:    key,
		})
	}

	return block, nil
}

// decodeEntityRef accepts an integer or its decimal string form.
func decodeEntityRef(msg json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(msg, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return 0, fmt.Errorf("key must be an integer: %s", strings.TrimSpace(string(msg)))
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("key must be an integer: %q", s)
	}
	return n, nil
}

// normalizeNumbers converts json.Number values to float64, matching what
// encoding/json produces without UseNumber.
func normalizeNumbers(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	case map[string]any:
		return normalizeNumbers(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}

// MarshalRaw encodes c as wire-format JSON. indent <= 0 produces compact output.
func MarshalRaw(c *Content, indent int) ([]byte, error) {
	raw := ToRaw(c)
	if indent <= 0 {
		out, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("marshal document: %w", err)
		}
		return out, nil
	}

	out, err := json.MarshalIndent(raw, "", strings.Repeat(" ", indent))
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return append(out, '\n'), nil
}

// Parse decodes and validates wire-format JSON into a snapshot.
func Parse(data []byte) (*Content, error) {
	raw, err := UnmarshalRaw(data)
	if err != nil {
		return nil, err
	}
	return FromRaw(raw)
}

func equalFields(a, b map[string]any) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(normalizeNumbers(toFloat(a)), normalizeNumbers(toFloat(b)))
}

// toFloat widens int values so that data built in code compares equal to data decoded from JSON.
func toFloat(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if n, ok := v.(int); ok {
			out[k] = float64(n)
			continue
		}
		out[k] = v
	}
	return out
}
