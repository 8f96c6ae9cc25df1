package html

// SourceKind tells where in the HTML a pattern came from
type SourceKind int

const (
	// PatternAttribute is the value of a pattern="..." attribute
	PatternAttribute SourceKind = iota
	// ScriptLiteral is a regex literal inside a <script> element
	ScriptLiteral
)

// Pattern is a regular expression found in an HTML document
type Pattern struct {
	Pattern string
	// Flags of a script literal; attributes have none
	Flags string
	// Offset is the byte offset of the pattern's first character in the document
	Offset int
	Kind   SourceKind
}
