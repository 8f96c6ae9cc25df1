package ast

// Unresolved is the value of a Char whose code point could not be computed.
const Unresolved rune = -1

// Pattern is an alternation of branches: a|b|c.
type Pattern struct {
	Base
	Branches []*Branch
}

func (*Pattern) Kind() Kind { return KindPattern }

func (p *Pattern) Children() []Node {
	out := make([]Node, 0, len(p.Branches))
	for _, b := range p.Branches {
		out = append(out, b)
	}
	return out
}

// Branch is a sequence of atoms.
type Branch struct {
	Base
	Atoms []Node
}

func (*Branch) Kind() Kind         { return KindBranch }
func (b *Branch) Children() []Node { return b.Atoms }

// CharType describes how a character was written.
type CharType int

const (
	CharLiteral CharType = iota
	CharEscaped
	CharHex
	CharUnicode
	CharOctal
	CharControl
	// CharBackspace is \b used as a character inside a class.
	CharBackspace
)

// TokenFlag marks a character the parser could not read as a well-formed
// escape.
type TokenFlag int

const (
	TokenOK TokenFlag = iota
	TokenInvalidEscape
	TokenBadHex
	TokenBadOctal
	TokenInvalidUnicode
)

// Char is a single literal or escaped character.
type Char struct {
	Base
	Value rune
	Type  CharType
	Token TokenFlag
}

func (*Char) Kind() Kind       { return KindChar }
func (*Char) Children() []Node { return nil }

// CharRange is a from-to range inside a class. To is nil when the class
// ends before the upper bound.
type CharRange struct {
	Base
	From *Char
	To   *Char
}

func (*CharRange) Kind() Kind { return KindCharRange }

func (r *CharRange) Children() []Node {
	out := []Node{r.From}
	if r.To != nil {
		out = append(out, r.To)
	}
	return out
}

// Class is a bracketed character class. Elements are Char, CharRange,
// SimpleClass, Property, NamedChar, PosixBracket, Intersection or nested
// Class nodes.
type Class struct {
	Base
	Negated  bool
	Elements []Node
}

func (*Class) Kind() Kind         { return KindClass }
func (c *Class) Children() []Node { return c.Elements }

// Intersection is a && b inside a class. Each operand is a Class; the left
// operand may be bracketless.
type Intersection struct {
	Base
	Operands []*Class
}

func (*Intersection) Kind() Kind { return KindIntersection }

func (i *Intersection) Children() []Node {
	out := make([]Node, 0, len(i.Operands))
	for _, c := range i.Operands {
		out = append(out, c)
	}
	return out
}

// SimpleClassKind identifies a predefined class escape.
type SimpleClassKind int

const (
	ClassAny SimpleClassKind = iota
	ClassDigit
	ClassNonDigit
	ClassWord
	ClassNonWord
	ClassSpace
	ClassNonSpace
	ClassHorizontalSpace
	ClassNonHorizontalSpace
	ClassVerticalSpace
	ClassNonVerticalSpace
	ClassNotNewline
	ClassLinebreak
	ClassGrapheme
)

var simpleClassNames = [...]string{
	ClassAny:                "any",
	ClassDigit:              "digit",
	ClassNonDigit:           "nonDigit",
	ClassWord:               "word",
	ClassNonWord:            "nonWord",
	ClassSpace:              "space",
	ClassNonSpace:           "nonSpace",
	ClassHorizontalSpace:    "horizontalSpace",
	ClassNonHorizontalSpace: "nonHorizontalSpace",
	ClassVerticalSpace:      "verticalSpace",
	ClassNonVerticalSpace:   "nonVerticalSpace",
	ClassNotNewline:         "notNewline",
	ClassLinebreak:          "linebreak",
	ClassGrapheme:           "grapheme",
}

// String returns the name used in dialect descriptors.
func (k SimpleClassKind) String() string {
	if k >= 0 && int(k) < len(simpleClassNames) {
		return simpleClassNames[k]
	}
	return "unknown"
}

// SimpleClass is a predefined class: ., \d, \w, \s and friends.
type SimpleClass struct {
	Base
	Class SimpleClassKind
}

func (*SimpleClass) Kind() Kind       { return KindSimpleClass }
func (*SimpleClass) Children() []Node { return nil }

// GroupType distinguishes the group syntaxes.
type GroupType int

const (
	GroupCapturing GroupType = iota
	GroupNonCapturing
	GroupAtomic
	GroupPositiveLookahead
	GroupNegativeLookahead
	GroupPositiveLookbehind
	GroupNegativeLookbehind
	// GroupNamed is (?<name>...).
	GroupNamed
	// GroupPythonNamed is (?P<name>...).
	GroupPythonNamed
	// GroupQuotedNamed is (?'name'...).
	GroupQuotedNamed
	// GroupOptions is (?flags:...).
	GroupOptions
)

// Group is any parenthesized construct that owns a pattern.
type Group struct {
	Base
	Type    GroupType
	Name    string
	NameAt  Range
	Options *SetOptions
	Pattern *Pattern
}

func (*Group) Kind() Kind { return KindGroup }

func (g *Group) Children() []Node {
	var out []Node
	if g.Options != nil {
		out = append(out, g.Options)
	}
	if g.Pattern != nil {
		out = append(out, g.Pattern)
	}
	return out
}

// IsAnyNamed reports whether the group uses one of the named group syntaxes.
func (g *Group) IsAnyNamed() bool {
	switch g.Type {
	case GroupNamed, GroupPythonNamed, GroupQuotedNamed:
		return true
	}
	return false
}

// IsCapturing reports whether the group defines a numbered capture.
func (g *Group) IsCapturing() bool {
	return g.Type == GroupCapturing || g.IsAnyNamed()
}

// IsLookbehind reports whether the group is a positive or negative lookbehind.
func (g *Group) IsLookbehind() bool {
	return g.Type == GroupPositiveLookbehind || g.Type == GroupNegativeLookbehind
}

// HasName reports whether a non-empty name was written.
func (g *Group) HasName() bool {
	return g.Name != ""
}

// Closure is a quantified atom.
type Closure struct {
	Base
	Atom       Node
	Quantifier *Quantifier
}

func (*Closure) Kind() Kind { return KindClosure }

func (c *Closure) Children() []Node {
	return []Node{c.Atom, c.Quantifier}
}

// Modifier is the greediness suffix of a quantifier.
type Modifier int

const (
	Greedy Modifier = iota
	Reluctant
	Possessive
)

// Quantifier is either a token (*, + or ?) or a counted {min,max} form.
// For {n}, Min and Max point to the same Number.
type Quantifier struct {
	Base
	Token      string
	Min        *Number
	Max        *Number
	HasComma   bool
	Modifier   Modifier
	ModifierAt Range
}

func (*Quantifier) Kind() Kind { return KindQuantifier }

func (q *Quantifier) Children() []Node {
	var out []Node
	if q.Min != nil {
		out = append(out, q.Min)
	}
	if q.Max != nil && q.Max != q.Min {
		out = append(out, q.Max)
	}
	return out
}

// IsCounted reports whether the quantifier uses the brace form.
func (q *Quantifier) IsCounted() bool {
	return q.Token == ""
}

// MinText returns the written lower bound, or "" when absent.
func (q *Quantifier) MinText() string {
	if q.Min == nil {
		return ""
	}
	return q.Min.Raw
}

// MaxText returns the written upper bound, or "" when absent.
func (q *Quantifier) MaxText() string {
	if q.Max == nil {
		return ""
	}
	return q.Max.Raw
}

// Number is a decimal bound of a counted quantifier.
type Number struct {
	Base
}

func (*Number) Kind() Kind       { return KindNumber }
func (*Number) Children() []Node { return nil }

// Backref is a numeric back reference such as \1 or \g{2}.
type Backref struct {
	Base
	Index int
}

func (*Backref) Kind() Kind       { return KindBackref }
func (*Backref) Children() []Node { return nil }

// RefSyntax is the spelling of a named group reference.
type RefSyntax int

const (
	// RefPython is (?P=name).
	RefPython RefSyntax = iota
	// RefAngle is \k<name>.
	RefAngle
	// RefQuoted is \k'name'.
	RefQuoted
	// RefBraced is \k{name}.
	RefBraced
	// RefG is \g{name}.
	RefG
	// RefBare is \k without a delimited name.
	RefBare
)

var refSyntaxNames = [...]string{
	RefPython: "python",
	RefAngle:  "angle",
	RefQuoted: "quoted",
	RefBraced: "braced",
	RefG:      "g",
	RefBare:   "bare",
}

func (s RefSyntax) String() string {
	if s >= 0 && int(s) < len(refSyntaxNames) {
		return refSyntaxNames[s]
	}
	return "unknown"
}

// NamedGroupRef refers to a named group.
type NamedGroupRef struct {
	Base
	Syntax RefSyntax
	Name   string
	NameAt Range
}

func (*NamedGroupRef) Kind() Kind       { return KindNamedGroupRef }
func (*NamedGroupRef) Children() []Node { return nil }

// HasName reports whether the reference spells out a name.
func (r *NamedGroupRef) HasName() bool {
	return r.Name != ""
}

// Property is \p{...}, \P{...} or the one-letter \pL form.
type Property struct {
	Base
	Negated    bool
	Category   string
	CategoryAt Range
	// HasEquals is set for the name=value form.
	HasEquals bool
	Value     string
	ValueAt   Range
}

func (*Property) Kind() Kind       { return KindProperty }
func (*Property) Children() []Node { return nil }

// NamedChar is \N{NAME}.
type NamedChar struct {
	Base
	Name   string
	NameAt Range
}

func (*NamedChar) Kind() Kind       { return KindNamedChar }
func (*NamedChar) Children() []Node { return nil }

// BoundaryKind identifies an anchor or zero-width assertion.
type BoundaryKind int

const (
	BoundaryLineStart BoundaryKind = iota
	BoundaryLineEnd
	BoundaryWord
	BoundaryNonWord
	BoundaryBeginInput
	BoundaryEndInput
	BoundaryEndInputBeforeNewline
	BoundaryPreviousMatchEnd
	BoundaryResetMatchStart
	BoundaryGrapheme
)

var boundaryNames = [...]string{
	BoundaryLineStart:             "lineStart",
	BoundaryLineEnd:               "lineEnd",
	BoundaryWord:                  "word",
	BoundaryNonWord:               "nonWord",
	BoundaryBeginInput:            "beginInput",
	BoundaryEndInput:              "endInput",
	BoundaryEndInputBeforeNewline: "endInputBeforeNewline",
	BoundaryPreviousMatchEnd:      "previousMatchEnd",
	BoundaryResetMatchStart:       "resetMatchStart",
	BoundaryGrapheme:              "grapheme",
}

// String returns the name used in dialect descriptors.
func (k BoundaryKind) String() string {
	if k >= 0 && int(k) < len(boundaryNames) {
		return boundaryNames[k]
	}
	return "unknown"
}

// Boundary is ^, $, \b, \B, \A, \z, \Z, \G, \K or \b{g}.
type Boundary struct {
	Base
	Boundary BoundaryKind
}

func (*Boundary) Kind() Kind       { return KindBoundary }
func (*Boundary) Children() []Node { return nil }

// Options is a run of inline flag letters. An off run keeps its leading '-'.
type Options struct {
	Base
}

func (*Options) Kind() Kind       { return KindOptions }
func (*Options) Children() []Node { return nil }

// SetOptions is (?on-off) or the flag part of (?on-off:...).
type SetOptions struct {
	Base
	On  *Options
	Off *Options
}

func (*SetOptions) Kind() Kind { return KindSetOptions }

func (s *SetOptions) Children() []Node {
	var out []Node
	if s.On != nil {
		out = append(out, s.On)
	}
	if s.Off != nil {
		out = append(out, s.Off)
	}
	return out
}

// PosixBracket is [:name:] or [:^name:] inside a class.
type PosixBracket struct {
	Base
	Negated bool
	Name    string
	NameAt  Range
}

func (*PosixBracket) Kind() Kind       { return KindPosixBracket }
func (*PosixBracket) Children() []Node { return nil }

// Comment is (?#...) or a verbose-mode # comment.
type Comment struct {
	Base
}

func (*Comment) Kind() Kind       { return KindComment }
func (*Comment) Children() []Node { return nil }

// PyCondRef is the (1) or (name) condition of a conditional group.
type PyCondRef struct {
	Base
	Index int
	Name  string
}

func (*PyCondRef) Kind() Kind       { return KindPyCondRef }
func (*PyCondRef) Children() []Node { return nil }

// Conditional is (?(cond)yes|no). Condition is a PyCondRef or a lookaround
// Group.
type Conditional struct {
	Base
	Condition Node
	Pattern   *Pattern
}

func (*Conditional) Kind() Kind { return KindConditional }

func (c *Conditional) Children() []Node {
	var out []Node
	if c.Condition != nil {
		out = append(out, c.Condition)
	}
	if c.Pattern != nil {
		out = append(out, c.Pattern)
	}
	return out
}
