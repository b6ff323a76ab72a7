// Package selection describes caret and range positions within a document.
package selection

import (
	"fmt"

	"github.com/yaklabco/richdraft/pkg/richtext"
)

// Point is a position in a document: a block key and a code point offset.
type Point struct {
	Key    string `json:"key" yaml:"key"`
	Offset int    `json:"offset" yaml:"offset"`
}

func (p Point) String() string {
	return fmt.Sprintf("%s:%d", p.Key, p.Offset)
}

// Selection is an immutable anchor/focus pair. IsBackward records that the
// focus precedes the anchor in document order.
type Selection struct {
	AnchorKey    string `json:"anchorKey" yaml:"anchorKey"`
	AnchorOffset int    `json:"anchorOffset" yaml:"anchorOffset"`
	FocusKey     string `json:"focusKey" yaml:"focusKey"`
	FocusOffset  int    `json:"focusOffset" yaml:"focusOffset"`
	IsBackward   bool   `json:"isBackward,omitempty" yaml:"isBackward,omitempty"`
}

// Collapsed returns a caret at key:offset.
func Collapsed(key string, offset int) Selection {
	return Selection{AnchorKey: key, AnchorOffset: offset, FocusKey: key, FocusOffset: offset}
}

// Range returns a forward selection from start to end.
func Range(start, end Point) Selection {
	return Selection{AnchorKey: start.Key, AnchorOffset: start.Offset, FocusKey: end.Key, FocusOffset: end.Offset}
}

// Within returns a forward selection of [start, end) inside one block.
func Within(key string, start, end int) Selection {
	return Range(Point{Key: key, Offset: start}, Point{Key: key, Offset: end})
}

// Anchor returns the anchor point.
func (s Selection) Anchor() Point { return Point{Key: s.AnchorKey, Offset: s.AnchorOffset} }

// Focus returns the focus point.
func (s Selection) Focus() Point { return Point{Key: s.FocusKey, Offset: s.FocusOffset} }

// IsCollapsed reports whether anchor and focus coincide.
func (s Selection) IsCollapsed() bool {
	return s.AnchorKey == s.FocusKey && s.AnchorOffset == s.FocusOffset
}

// Start returns the earlier point according to the backward flag.
func (s Selection) Start() Point {
	if s.IsBackward {
		return s.Focus()
	}
	return s.Anchor()
}

// End returns the later point according to the backward flag.
func (s Selection) End() Point {
	if s.IsBackward {
		return s.Anchor()
	}
	return s.Focus()
}

// CollapseToStart returns a caret at Start.
func (s Selection) CollapseToStart() Selection {
	start := s.Start()
	return Collapsed(start.Key, start.Offset)
}

// CollapseToEnd returns a caret at End.
func (s Selection) CollapseToEnd() Selection {
	end := s.End()
	return Collapsed(end.Key, end.Offset)
}

func (s Selection) String() string {
	if s.IsCollapsed() {
		return "caret " + s.Anchor().String()
	}
	return fmt.Sprintf("%s..%s", s.Anchor(), s.Focus())
}

// Span is a selection resolved against a document: block positions and
// offsets ordered by document order.
type Span struct {
	StartIndex  int
	StartKey    string
	StartOffset int
	EndIndex    int
	EndKey      string
	EndOffset   int
}

// Resolve validates s against content and orders its points by document
// position, fixing up a stale backward flag.
func Resolve(content *richtext.Content, s Selection) (Span, error) {
	anchorIdx, err := locate(content, s.Anchor())
	if err != nil {
		return Span{}, err
	}
	focusIdx, err := locate(content, s.Focus())
	if err != nil {
		return Span{}, err
	}

	start, end := s.Anchor(), s.Focus()
	startIdx, endIdx := anchorIdx, focusIdx
	if focusIdx < anchorIdx || (focusIdx == anchorIdx && s.FocusOffset < s.AnchorOffset) {
		start, end = end, start
		startIdx, endIdx = endIdx, startIdx
	}

	return Span{
		StartIndex:  startIdx,
		StartKey:    start.Key,
		StartOffset: start.Offset,
		EndIndex:    endIdx,
		EndKey:      end.Key,
		EndOffset:   end.Offset,
	}, nil
}

func locate(content *richtext.Content, p Point) (int, error) {
	idx, ok := content.BlockIndex(p.Key)
	if !ok {
		return 0, &richtext.InvalidSelectionError{Key: p.Key, Offset: p.Offset, Reason: "unknown block"}
	}
	block := content.BlockAt(idx)
	if p.Offset < 0 || p.Offset > block.Len() {
		return 0, &richtext.InvalidSelectionError{
			Key:    p.Key,
			Offset: p.Offset,
			Reason: fmt.Sprintf("offset outside [0, %d]", block.Len()),
		}
	}
	return idx, nil
}

// IsCollapsed reports whether the span is empty.
func (sp Span) IsCollapsed() bool {
	return sp.StartIndex == sp.EndIndex && sp.StartOffset == sp.EndOffset
}

// Selection returns the forward selection covering the span.
func (sp Span) Selection() Selection {
	return Range(Point{Key: sp.StartKey, Offset: sp.StartOffset}, Point{Key: sp.EndKey, Offset: sp.EndOffset})
}

// BlockRange returns the [start, end) offsets the span covers inside the block
// at position idx, given that block's length. ok is false outside the span.
func (sp Span) BlockRange(idx, blockLen int) (start, end int, ok bool) {
	if idx < sp.StartIndex || idx > sp.EndIndex {
		return 0, 0, false
	}
	start, end = 0, blockLen
	if idx == sp.StartIndex {
		start = sp.StartOffset
	}
	if idx == sp.EndIndex {
		end = sp.EndOffset
	}
	return start, end, true
}
