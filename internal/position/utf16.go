// Package position converts between Go byte offsets and LSP positions,
// which count UTF-16 code units.
package position

import (
	"unicode/utf16"
	"unicode/utf8"
)

// UTF16ToByteOffset returns the byte offset in s of UTF-16 column col.
// A column inside a surrogate pair clamps to the start of the rune; a column
// past the end clamps to len(s).
func UTF16ToByteOffset(s string, col int) int {
	units, off := 0, 0
	for off < len(s) && units < col {
		r, size := utf8.DecodeRuneInString(s[off:])
		n := 1
		if r != utf8.RuneError || size > 1 {
			n = utf16.RuneLen(r)
		}
		if units+n > col {
			break
		}
		units += n
		off += size
	}
	return off
}

// ByteOffsetToUTF16 returns the UTF-16 column of byte offset off in s. An
// offset inside a multi-byte rune counts up to the start of that rune.
func ByteOffsetToUTF16(s string, off int) int {
	off = min(max(off, 0), len(s))
	units, i := 0, 0
	for i < off {
		r, size := utf8.DecodeRuneInString(s[i:])
		if i+size > off {
			break
		}
		if r == utf8.RuneError && size == 1 {
			units++
		} else {
			units += utf16.RuneLen(r)
		}
		i += size
	}
	return units
}

// StringLengthUTF16 is the length of s in UTF-16 code units.
func StringLengthUTF16(s string) int {
	return ByteOffsetToUTF16(s, len(s))
}
