// Package richtext implements the immutable document model: ordered text
// blocks with per-character inline styles and references into a table of
// entities.
//
// A Content value is never modified after construction. Every operation that
// changes a document returns a new Content that shares unchanged blocks with
// its predecessor, so any number of readers may hold a snapshot without
// locking.
package richtext

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Content is an immutable document snapshot.
type Content struct {
	blocks       []*Block
	index        map[string]int
	entities     map[EntityKey]*Entity
	nextEntityID int
	lastEntity   EntityKey
}

// NewContent creates a snapshot from blocks. Block keys must be unique and
// at least one block is required.
func NewContent(blocks []*Block) (*Content, error) {
	if len(blocks) == 0 {
		return nil, &MalformedWireFormatError{Path: "blocks", Message: "document has no blocks"}
	}

	index, err := buildIndex(blocks)
	if err != nil {
		return nil, err
	}

	return &Content{
		blocks:   slices.Clone(blocks),
		index:    index,
		entities: map[EntityKey]*Entity{},
	}, nil
}

// NewDocument returns a document holding a single empty unstyled block.
func NewDocument() *Content {
	content, err := NewContent([]*Block{NewBlock(GenerateKey(nil), Unstyled, "")})
	if err != nil {
		panic(err)
	}
	return content
}

// FromText builds a document with one unstyled block per line.
func FromText(text string) *Content {
	lines := strings.Split(text, "\n")
	blocks := make([]*Block, 0, len(lines))
	taken := map[string]struct{}{}
	for _, line := range lines {
		key := generateUniqueKey(func(k string) bool {
			_, ok := taken[k]
			return ok
		})
		taken[key] = struct{}{}
		blocks = append(blocks, NewBlock(key, Unstyled, line))
	}

	content, err := NewContent(blocks)
	if err != nil {
		panic(err)
	}
	return content
}

func buildIndex(blocks []*Block) (map[string]int, error) {
	index := make(map[string]int, len(blocks))
	for i, block := range blocks {
		if block == nil {
			return nil, &MalformedWireFormatError{Path: fmt.Sprintf("blocks[%d]", i), Message: "block is nil"}
		}
		if _, dup := index[block.key]; dup {
			return nil, &MalformedWireFormatError{
				Path:    fmt.Sprintf("blocks[%d].key", i),
				Message: fmt.Sprintf("duplicate block key %q", block.key),
			}
		}
		index[block.key] = i
	}
	return index, nil
}

// Blocks returns the blocks in document order. The slice is a copy; the
// blocks themselves are immutable.
func (c *Content) Blocks() []*Block {
	return slices.Clone(c.blocks)
}

// BlockCount returns the number of blocks.
func (c *Content) BlockCount() int {
	return len(c.blocks)
}

// Block returns the block with key.
func (c *Content) Block(key string) (*Block, error) {
	idx, ok := c.index[key]
	if !ok {
		return nil, &NotFoundError{Kind: "block", Key: key}
	}
	return c.blocks[idx], nil
}

// InlineStyleAt returns the styles of the character at offset in block key.
func (c *Content) InlineStyleAt(key string, offset int) (StyleSet, error) {
	block, err := c.Block(key)
	if err != nil {
		return StyleSet{}, err
	}
	return block.StyleAt(offset), nil
}

// EntityAt returns the entity covering offset in block key, or NoEntity.
func (c *Content) EntityAt(key string, offset int) (EntityKey, error) {
	block, err := c.Block(key)
	if err != nil {
		return NoEntity, err
	}
	return block.EntityAt(offset), nil
}

// BlockIndex returns the position of key in document order.
func (c *Content) BlockIndex(key string) (int, bool) {
	idx, ok := c.index[key]
	return idx, ok
}

// BlockAt returns the block at position idx, or nil.
func (c *Content) BlockAt(idx int) *Block {
	if idx < 0 || idx >= len(c.blocks) {
		return nil
	}
	return c.blocks[idx]
}

// FirstBlock returns the first block.
func (c *Content) FirstBlock() *Block {
	return c.blocks[0]
}

// LastBlock returns the last block.
func (c *Content) LastBlock() *Block {
	return c.blocks[len(c.blocks)-1]
}

// BlockBefore returns the block preceding key, or nil.
func (c *Content) BlockBefore(key string) *Block {
	idx, ok := c.index[key]
	if !ok {
		return nil
	}
	return c.BlockAt(idx - 1)
}

// BlockAfter returns the block following key, or nil.
func (c *Content) BlockAfter(key string) *Block {
	idx, ok := c.index[key]
	if !ok {
		return nil
	}
	return c.BlockAt(idx + 1)
}

// HasText reports whether any block holds text.
func (c *Content) HasText() bool {
	if len(c.blocks) > 1 {
		return true
	}
	return c.blocks[0].Len() > 0
}

// PlainText joins the block texts with delimiter.
func (c *Content) PlainText(delimiter string) string {
	texts := make([]string, len(c.blocks))
	for i, block := range c.blocks {
		texts[i] = block.Text()
	}
	return strings.Join(texts, delimiter)
}

// Splice returns a snapshot with deleteCount blocks at position start replaced by blocks.
func (c *Content) Splice(start, deleteCount int, blocks ...*Block) (*Content, error) {
	if start < 0 || deleteCount < 0 || start+deleteCount > len(c.blocks) {
		return nil, fmt.Errorf("splice [%d:%d] out of range for %d blocks", start, start+deleteCount, len(c.blocks))
	}

	next := make([]*Block, 0, len(c.blocks)-deleteCount+len(blocks))
	next = append(next, c.blocks[:start]...)
	next = append(next, blocks...)
	next = append(next, c.blocks[start+deleteCount:]...)

	if len(next) == 0 {
		return nil, fmt.Errorf("splice would leave the document without blocks")
	}

	index, err := buildIndex(next)
	if err != nil {
		return nil, err
	}

	out := c.shallowCopy()
	out.blocks = next
	out.index = index
	return out, nil
}

// ReplaceBlock returns a snapshot where the block with the same key as block is replaced.
func (c *Content) ReplaceBlock(block *Block) (*Content, error) {
	idx, ok := c.index[block.key]
	if !ok {
		return nil, &NotFoundError{Kind: "block", Key: block.key}
	}
	if c.blocks[idx] == block {
		return c, nil
	}

	out := c.shallowCopy()
	out.blocks = slices.Clone(c.blocks)
	out.blocks[idx] = block
	return out, nil
}

// Entity returns the entity with key.
func (c *Content) Entity(key EntityKey) (*Entity, error) {
	entity, ok := c.entities[key]
	if !ok {
		return nil, &NotFoundError{Kind: "entity", Key: string(key)}
	}
	return entity, nil
}

// EntityKeys returns every entity key in numeric order.
func (c *Content) EntityKeys() []EntityKey {
	keys := slices.Collect(maps.Keys(c.entities))
	slices.SortFunc(keys, compareEntityKeys)
	return keys
}

// EntityCount returns the number of entities, referenced or not.
func (c *Content) EntityCount() int {
	return len(c.entities)
}

// NextEntityID returns the identifier the next created entity will receive.
func (c *Content) NextEntityID() int {
	return c.nextEntityID
}

// LastCreatedEntityKey returns the key of the most recently created entity, or NoEntity.
func (c *Content) LastCreatedEntityKey() EntityKey {
	return c.lastEntity
}

// CreateEntity adds an entity and returns the new snapshot with its key.
// Identifiers are assigned from a counter and never reused.
func (c *Content) CreateEntity(mutability Mutability, data EntityData) (*Content, EntityKey) {
	key := EntityKey(strconv.Itoa(c.nextEntityID))

	out := c.shallowCopy()
	out.entities = maps.Clone(c.entities)
	out.entities[key] = &Entity{key: key, mutability: mutability, data: data}
	out.nextEntityID = c.nextEntityID + 1
	out.lastEntity = key
	return out, key
}

// ReplaceEntityData returns a snapshot where the payload of key is data.
// Mutability is not enforced. The data variant must match the entity type.
func (c *Content) ReplaceEntityData(key EntityKey, data EntityData) (*Content, error) {
	entity, ok := c.entities[key]
	if !ok {
		return nil, &NotFoundError{Kind: "entity", Key: string(key)}
	}
	if data.EntityType() != entity.Type() {
		return nil, fmt.Errorf("replace %s entity %q with %s data: %w",
			entity.Type(), key, data.EntityType(), ErrEntityTypeMismatch)
	}

	out := c.shallowCopy()
	out.entities = maps.Clone(c.entities)
	out.entities[key] = &Entity{key: key, mutability: entity.mutability, data: data}
	return out, nil
}

// Equal reports structural equality of blocks and entities.
func (c *Content) Equal(other *Content) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	if !slices.EqualFunc(c.blocks, other.blocks, (*Block).Equal) {
		return false
	}
	if len(c.entities) != len(other.entities) {
		return false
	}
	for key, entity := range c.entities {
		o, ok := other.entities[key]
		if !ok {
			return false
		}
		if entity.mutability != o.mutability || entity.Type() != o.Type() {
			return false
		}
		if !equalFields(entity.data.Fields(), o.data.Fields()) {
			return false
		}
	}
	return true
}

func (c *Content) shallowCopy() *Content {
	out := *c
	return &out
}

func compareEntityKeys(a, b EntityKey) int {
	ai, aerr := strconv.Atoi(string(a))
	bi, berr := strconv.Atoi(string(b))
	if aerr == nil && berr == nil {
		return ai - bi
	}
	return strings.Compare(string(a), string(b))
}
