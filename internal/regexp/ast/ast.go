// Package ast defines the syntax tree of a regular expression pattern.
//
// Trees are built by the parser and are read-only afterwards: every node
// knows its byte range inside the pattern, its source text, and its parent.
package ast

import "fmt"

// Range is a half-open byte range inside the pattern text.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty reports whether the range covers no bytes.
func (r Range) IsEmpty() bool {
	return r.End <= r.Start
}

// Union returns the smallest range covering both r and o.
func (r Range) Union(o Range) Range {
	return Range{Start: min(r.Start, o.Start), End: max(r.End, o.End)}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Kind tags the concrete type of a Node.
type Kind int

const (
	KindPattern Kind = iota
	KindBranch
	KindChar
	KindCharRange
	KindClass
	KindIntersection
	KindSimpleClass
	KindGroup
	KindClosure
	KindQuantifier
	KindNumber
	KindBackref
	KindNamedGroupRef
	KindProperty
	KindNamedChar
	KindBoundary
	KindSetOptions
	KindOptions
	KindPosixBracket
	KindComment
	KindPyCondRef
	KindConditional
)

var kindNames = [...]string{
	KindPattern:       "Pattern",
	KindBranch:        "Branch",
	KindChar:          "Char",
	KindCharRange:     "CharRange",
	KindClass:         "Class",
	KindIntersection:  "Intersection",
	KindSimpleClass:   "SimpleClass",
	KindGroup:         "Group",
	KindClosure:       "Closure",
	KindQuantifier:    "Quantifier",
	KindNumber:        "Number",
	KindBackref:       "Backref",
	KindNamedGroupRef: "NamedGroupRef",
	KindProperty:      "Property",
	KindNamedChar:     "NamedChar",
	KindBoundary:      "Boundary",
	KindSetOptions:    "SetOptions",
	KindOptions:       "Options",
	KindPosixBracket:  "PosixBracket",
	KindComment:       "Comment",
	KindPyCondRef:     "PyCondRef",
	KindConditional:   "Conditional",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is implemented by every syntax tree node.
type Node interface {
	Kind() Kind
	Span() Range
	Text() string
	Parent() Node
	Children() []Node
	base() *Base
}

// Base carries the position data shared by all nodes. Concrete node types
// embed it.
type Base struct {
	// At is the node's range inside the pattern.
	At Range
	// Raw is the node's source text, pattern[At.Start:At.End].
	Raw    string
	parent Node
}

// Span returns the node's range inside the pattern.
func (b *Base) Span() Range { return b.At }

// Text returns the node's source text.
func (b *Base) Text() string { return b.Raw }

// Parent returns the enclosing node, or nil for the root.
func (b *Base) Parent() Node { return b.parent }

func (b *Base) base() *Base { return b }

// At builds a Base for the given range of src.
func At(src string, start, end int) Base {
	return Base{At: Range{Start: start, End: end}, Raw: src[start:end]}
}
