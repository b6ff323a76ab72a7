package richtext

import (
	"fmt"
	"sort"
)

// textRange is a half-open code point interval [start, end).
type textRange struct {
	start int
	end   int
	// index is the position of the range in its source list.
	index int
}

func newTextRange(index, offset, length int) textRange {
	return textRange{start: offset, end: offset + length, index: index}
}

// validateRanges checks that every range lies inside a text of textLen code points.
// It returns the first violation.
func validateRanges(path string, ranges []textRange, textLen int) error {
	for _, r := range ranges {
		at := fmt.Sprintf("%s[%d]", path, r.index)
		if r.start < 0 {
			return malformed(at, "offset %d is negative", r.start)
		}
		if r.end < r.start {
			return malformed(at, "length %d is negative", r.end-r.start)
		}
		if r.end > textLen {
			return malformed(at, "range [%d:%d] exceeds text length %d", r.start, r.end, textLen)
		}
	}
	return nil
}

// sortRanges orders ranges by start, then end.
func sortRanges(ranges []textRange) {
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].start != ranges[j].start {
			return ranges[i].start < ranges[j].start
		}
		return ranges[i].end < ranges[j].end
	})
}

// detectOverlaps reports the first pair of overlapping ranges in a sorted slice.
// Empty ranges never overlap.
func detectOverlaps(path string, ranges []textRange) error {
	lastEnd := -1
	lastIndex := -1
	for _, curr := range ranges {
		if curr.start == curr.end {
			continue
		}
		if curr.start < lastEnd {
			return malformed(fmt.Sprintf("%s[%d]", path, curr.index),
				"overlaps %s[%d]", path, lastIndex)
		}
		lastEnd = curr.end
		lastIndex = curr.index
	}
	return nil
}
