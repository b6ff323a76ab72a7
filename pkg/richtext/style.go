package richtext

import (
	"slices"
	"strings"
)

// Built-in inline style names. Any other non-empty name (for example a
// colour such as "#e60000") is an equally valid style.
const (
	StyleBold          = "BOLD"
	StyleItalic        = "ITALIC"
	StyleUnderline     = "UNDERLINE"
	StyleCode          = "CODE"
	StyleStrikethrough = "STRIKETHROUGH"
)

// StyleSet is an immutable, sorted set of inline style names.
// The zero value is the empty set.
type StyleSet struct {
	names []string
}

// NewStyleSet builds a set from the given names, dropping duplicates and empty names.
func NewStyleSet(names ...string) StyleSet {
	if len(names) == 0 {
		return StyleSet{}
	}

	out := make([]string, 0, len(names))
	for _, name := range names {
		if name != "" {
			out = append(out, name)
		}
	}

	slices.Sort(out)
	out = slices.Compact(out)

	if len(out) == 0 {
		return StyleSet{}
	}

	return StyleSet{names: out}
}

// Has reports whether the set contains style.
func (s StyleSet) Has(style string) bool {
	_, found := slices.BinarySearch(s.names, style)
	return found
}

// Add returns a set that also contains style.
func (s StyleSet) Add(style string) StyleSet {
	if style == "" {
		return s
	}

	idx, found := slices.BinarySearch(s.names, style)
	if found {
		return s
	}

	out := make([]string, 0, len(s.names)+1)
	out = append(out, s.names[:idx]...)
	out = append(out, style)
	out = append(out, s.names[idx:]...)

	return StyleSet{names: out}
}

// Remove returns a set without style.
func (s StyleSet) Remove(style string) StyleSet {
	idx, found := slices.BinarySearch(s.names, style)
	if !found {
		return s
	}

	if len(s.names) == 1 {
		return StyleSet{}
	}

	out := make([]string, 0, len(s.names)-1)
	out = append(out, s.names[:idx]...)
	out = append(out, s.names[idx+1:]...)

	return StyleSet{names: out}
}

// Toggle adds style when absent and removes it when present.
func (s StyleSet) Toggle(style string) StyleSet {
	if s.Has(style) {
		return s.Remove(style)
	}
	return s.Add(style)
}

// Len returns the number of styles.
func (s StyleSet) Len() int {
	return len(s.names)
}

// IsEmpty reports whether the set has no styles.
func (s StyleSet) IsEmpty() bool {
	return len(s.names) == 0
}

// Names returns the styles in sorted order. The result is a copy.
func (s StyleSet) Names() []string {
	return slices.Clone(s.names)
}

// Equal reports whether both sets hold the same styles.
func (s StyleSet) Equal(other StyleSet) bool {
	return slices.Equal(s.names, other.names)
}

func (s StyleSet) String() string {
	return "{" + strings.Join(s.names, ",") + "}"
}
