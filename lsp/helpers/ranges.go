// Package helpers holds small LSP range utilities shared by the method
// handlers.
package helpers

import (
	"bennypowers.dev/rxls/internal/position"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// RangesIntersect checks if two LSP ranges intersect.
// Ranges are treated as half-open intervals [start, end) where the end position is exclusive.
//
// Examples:
//   - [0:0, 0:5) and [0:3, 0:7) -> true (overlap from 0:3 to 0:5)
//   - [0:0, 0:5) and [0:5, 0:10) -> false (adjacent but not overlapping)
//   - [0:0, 1:0) and [0:5, 0:10) -> true (first range includes line 0:5)
func RangesIntersect(a, b protocol.Range) bool {
	return Before(a.Start, b.End) && Before(b.Start, a.End)
}

// Touches is RangesIntersect, except that an empty requested range (a
// cursor) matches anywhere from the start to the end of b inclusive.
func Touches(requested, b protocol.Range) bool {
	if requested.Start == requested.End {
		p := requested.Start
		return !Before(p, b.Start) && !Before(b.End, p)
	}
	return RangesIntersect(requested, b)
}

// Before reports whether a comes strictly before b.
func Before(a, b protocol.Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Character < b.Character
}

// ByteRange converts the byte range [start, end) of the indexed text to an
// LSP range.
func ByteRange(ix *position.LineIndex, start, end int) protocol.Range {
	s, e := ix.Position(start), ix.Position(end)
	return protocol.Range{
		Start: protocol.Position{Line: s.Line, Character: s.Character},
		End:   protocol.Position{Line: e.Line, Character: e.Character},
	}
}
