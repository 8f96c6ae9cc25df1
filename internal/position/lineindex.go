package position

import (
	"math"
	"sort"
	"strings"
)

// Position is a zero-based line and UTF-16 character.
type Position struct {
	Line      uint32
	Character uint32
}

// LineIndex maps byte offsets of a document to positions and back. It is
// immutable and safe for concurrent use.
type LineIndex struct {
	text  string
	lines []int // byte offset of each line start
}

// NewLineIndex indexes text. Only "\n" ends a line; a preceding "\r" stays
// part of the line it ends.
func NewLineIndex(text string) *LineIndex {
	lines := make([]int, 1, strings.Count(text, "\n")+1)
	for i := range len(text) {
		if text[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &LineIndex{text: text, lines: lines}
}

// LineCount is the number of lines, counting a trailing empty line.
func (ix *LineIndex) LineCount() int {
	return len(ix.lines)
}

func (ix *LineIndex) line(n int) string {
	start := ix.lines[n]
	end := len(ix.text)
	if n+1 < len(ix.lines) {
		end = ix.lines[n+1] - 1
	}
	return ix.text[start:end]
}

// Position converts a byte offset, clamped to the text.
func (ix *LineIndex) Position(offset int) Position {
	offset = min(max(offset, 0), len(ix.text))
	n := sort.Search(len(ix.lines), func(i int) bool { return ix.lines[i] > offset }) - 1
	col := ByteOffsetToUTF16(ix.line(n), offset-ix.lines[n])
	return Position{Line: clamp(n), Character: clamp(col)}
}

// Offset converts a position back to a byte offset. Lines past the end map to
// len(text) and characters past the line end clamp to it.
func (ix *LineIndex) Offset(p Position) int {
	if int(p.Line) >= len(ix.lines) {
		return len(ix.text)
	}
	n := int(p.Line)
	return ix.lines[n] + UTF16ToByteOffset(ix.line(n), int(p.Character))
}

func clamp(n int) uint32 {
	if n < 0 {
		return 0
	}
	if n > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}
