package js

import "strings"

// Literal is a regular expression literal found in JS/TS source.
type Literal struct {
	// Pattern is the text between the slashes, escapes untouched
	Pattern string
	// Flags are the characters after the closing slash
	Flags string
	// Offset is the byte offset of the pattern's first character in the source
	Offset int
}

// Unicode reports whether the literal uses the u or v flag, which switch
// the pattern to the stricter unicode syntax.
func (l Literal) Unicode() bool {
	return strings.ContainsAny(l.Flags, "uv")
}
