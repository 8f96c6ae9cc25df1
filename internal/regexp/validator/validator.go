// Package validator checks a parsed pattern against a dialect.
//
// A Validator walks the tree once, in pre-order, and reports every finding
// to a Sink. Rules that depend on the flavor ask dialect.Capabilities; the
// rest are structural.
package validator

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"unicode/utf16"

	"bennypowers.dev/rxls/internal/collections"
	"bennypowers.dev/rxls/internal/regexp/ast"
	"bennypowers.dev/rxls/internal/regexp/dialect"
)

// ErrConcurrentRun is returned when Validate is called on a Validator that
// is already running. Use one Validator per goroutine.
var ErrConcurrentRun = errors.New("validator is already running")

// Validator applies the semantic rules for one dialect.
type Validator struct {
	caps    dialect.Capabilities
	running atomic.Bool
}

// New returns a Validator that consults caps.
func New(caps dialect.Capabilities) *Validator {
	return &Validator{caps: caps}
}

// Validate walks root and reports findings to sink in tree order.
func (v *Validator) Validate(root ast.Node, sink Sink) error {
	if !v.running.CompareAndSwap(false, true) {
		return ErrConcurrentRun
	}
	defer v.running.Store(false)

	r := &run{caps: v.caps, sink: sink}
	ast.Walk(root, func(n ast.Node) bool {
		r.visit(n)
		return true
	})
	return nil
}

// Diagnostics validates root and returns the findings.
func (v *Validator) Diagnostics(root ast.Node) ([]Diagnostic, error) {
	var c Collector
	if err := v.Validate(root, &c); err != nil {
		return nil, err
	}
	return c.Diagnostics(), nil
}

// run holds the state of a single Validate call.
type run struct {
	caps dialect.Capabilities
	sink Sink
	// groups maps a declared name to the first group that declared it.
	groups map[string]*ast.Group
}

func (r *run) visit(n ast.Node) {
	switch n := n.(type) {
	case *ast.SetOptions:
		r.inlineFlags(n.On, 0)
		r.inlineFlags(n.Off, 1)
	case *ast.CharRange:
		r.charRange(n)
	case *ast.Boundary:
		if !r.caps.SupportsBoundary(n) {
			r.error(CodeUnsupportedBoundary, n.Span(), "This boundary is not supported in this regex dialect")
		}
	case *ast.SimpleClass:
		if !r.caps.SupportsSimpleClass(n) {
			r.error(CodeIllegalEscape, n.Span(), "Illegal/unsupported escape sequence")
		}
	case *ast.Class:
		r.class(n)
	case *ast.Char:
		r.char(n)
	case *ast.Property:
		r.property(n)
	case *ast.NamedChar:
		r.namedChar(n)
	case *ast.Backref:
		r.backref(n)
	case *ast.NamedGroupRef:
		r.namedGroupRef(n)
	case *ast.Group:
		r.group(n)
	case *ast.Quantifier:
		r.quantifier(n)
	case *ast.Closure:
		if _, ok := n.Atom.(*ast.SetOptions); ok {
			r.error(CodeDanglingMetacharacter, n.Quantifier.Span(), "Dangling metacharacter")
		}
	case *ast.PosixBracket:
		r.posixBracket(n)
	case *ast.Comment:
		if strings.HasPrefix(n.Text(), "(?#") && !r.caps.SupportsPerl5EmbeddedComments(n) {
			r.error(CodeUnsupportedComment, n.Span(), "Embedded comments are not supported in this regex dialect")
		}
	case *ast.PyCondRef:
		if !r.caps.SupportsPythonConditionalRefs(n) {
			r.error(CodeUnsupportedConditionalRef, n.Span(), "Conditional references are not supported in this regex dialect")
		}
	}
}

func (r *run) report(d Diagnostic) {
	r.sink.Report(d)
}

func (r *run) error(code Code, span ast.Range, msg string) {
	r.report(Diagnostic{Severity: Error, Code: code, Message: msg, Span: span})
}

func (r *run) warning(code Code, span ast.Range, msg string) {
	r.report(Diagnostic{Severity: Warning, Code: code, Message: msg, Span: span})
}

func (r *run) unknownSymbol(code Code, span ast.Range, msg string) {
	r.report(Diagnostic{Severity: Error, Code: code, Message: msg, Span: span, Highlight: HighlightUnknownSymbol})
}

// inlineFlags checks each flag letter of an option run. skip is the number
// of leading bytes that are not flags, the '-' of an off run.
func (r *run) inlineFlags(opts *ast.Options, skip int) {
	if opts == nil {
		return
	}
	text := opts.Text()
	for i, c := range text {
		if i < skip {
			continue
		}
		if c > 0xFFFF || !r.caps.SupportsInlineOptionFlag(c, opts) {
			start := opts.Span().Start + i
			r.error(CodeUnknownInlineFlag, ast.Range{Start: start, End: start + len(string(c))}, "Unknown inline option flag")
		}
	}
}

func isHighSurrogate(c rune) bool { return c >= 0xD800 && c <= 0xDBFF }
func isLowSurrogate(c rune) bool  { return c >= 0xDC00 && c <= 0xDFFF }

func (r *run) charRange(cr *ast.CharRange) {
	if cr.To == nil {
		return
	}
	from, to := cr.From.Value, cr.To.Value
	if from == ast.Unresolved || to == ast.Unresolved {
		return
	}
	span := cr.Span()

	// A pair written as two escapes puts half of a code point in the
	// neighbouring sibling.
	if isLowSurrogate(from) {
		if prev, ok := ast.PrevSibling(cr).(*ast.Char); ok && isHighSurrogate(prev.Value) {
			from = utf16.DecodeRune(prev.Value, from)
			span.Start = prev.Span().Start
		}
	}
	if isHighSurrogate(to) {
		if next, ok := ast.NextSibling(cr).(*ast.Char); ok && isLowSurrogate(next.Value) {
			to = utf16.DecodeRune(to, next.Value)
			span.End = next.Span().End
		}
	}

	switch {
	case to < from:
		r.error(CodeIllegalRange, span, "Illegal character range (to < from)")
	case to == from:
		r.warning(CodeRedundantRange, span, "Redundant character range")
	}
}

type memberKey struct {
	class bool
	value int
}

// class reports duplicate members. Nested classes are checked once, from
// the outermost class, as a single set.
func (r *run) class(c *ast.Class) {
	if _, nested := c.Parent().(*ast.Class); nested {
		return
	}
	r.duplicates(c, collections.NewSet[memberKey]())
}

func (r *run) duplicates(c *ast.Class, seen collections.Set[memberKey]) {
	for _, el := range c.Elements {
		switch el := el.(type) {
		case *ast.Char:
			if el.Value == ast.Unresolved {
				continue
			}
			if !seen.Insert(memberKey{value: int(el.Value)}) {
				r.warning(CodeDuplicateClassMember, el.Span(),
					fmt.Sprintf("Duplicate character '%s' inside character class", el.Text()))
			}
		case *ast.SimpleClass:
			if !seen.Insert(memberKey{class: true, value: int(el.Class)}) {
				r.warning(CodeDuplicateClassMember, el.Span(),
					fmt.Sprintf("Duplicate predefined character class '%s' inside character class", el.Text()))
			}
		case *ast.Class:
			r.duplicates(el, seen)
		}
	}
}

func (r *run) char(c *ast.Char) {
	switch c.Token {
	case ast.TokenInvalidEscape:
		r.error(CodeIllegalEscape, c.Span(), "Illegal/unsupported escape sequence")
		return
	case ast.TokenBadHex:
		r.error(CodeIllegalHex, c.Span(), "Illegal hexadecimal escape sequence")
		return
	case ast.TokenBadOctal:
		r.error(CodeIllegalOctal, c.Span(), "Illegal octal escape sequence")
		return
	case ast.TokenInvalidUnicode:
		r.error(CodeIllegalUnicode, c.Span(), "Illegal unicode escape sequence")
		return
	}

	if c.Type == ast.CharBackspace && !r.caps.SupportsLiteralBackspace(c) {
		r.error(CodeIllegalEscape, c.Span(), "Illegal/unsupported escape sequence")
	}
	if c.Type == ast.CharHex || c.Type == ast.CharUnicode {
		if c.Value == ast.Unresolved {
			r.error(CodeIllegalUnicode, c.Span(), "Illegal unicode escape sequence")
			return
		}
		if strings.HasSuffix(c.Text(), "}") && !r.caps.SupportsExtendedHexCharacter(c) {
			r.error(CodeUnsupportedHexSyntax, c.Span(), "This hex character syntax is not supported in this regex dialect")
		}
	}
}

func (r *run) property(p *ast.Property) {
	if p.Category == "" {
		return
	}
	if !r.caps.SupportsPropertySyntax(p) {
		r.error(CodeUnsupportedProperty, p.Span(), "Property escape sequences are not supported in this regex dialect")
		return
	}
	if !p.HasEquals {
		if !r.caps.IsValidCategory(p.Category) {
			r.unknownSymbol(CodeUnknownCategory, p.CategoryAt, "Unknown character category")
		}
		return
	}
	if !r.caps.IsValidPropertyName(p.Category) {
		r.unknownSymbol(CodeUnknownPropertyName, p.CategoryAt, "Unknown property name")
		return
	}
	if p.Value != "" && !r.caps.IsValidPropertyValue(p.Category, p.Value) {
		r.unknownSymbol(CodeUnknownPropertyValue, p.ValueAt, "Unknown property value")
	}
}

func (r *run) namedChar(n *ast.NamedChar) {
	if !r.caps.SupportsNamedCharacters(n) {
		r.error(CodeUnsupportedNamedChar, n.Span(), "Named Unicode characters are not allowed in this regex dialect")
		return
	}
	if !r.caps.IsValidNamedCharacter(n) {
		r.unknownSymbol(CodeUnknownCharacterName, n.NameAt, "Unknown character name")
	}
}

func (r *run) backref(b *ast.Backref) {
	g := ast.ResolveBackref(b)
	if g == nil {
		r.unknownSymbol(CodeUnresolvedBackref, b.Span(), "Unresolved back reference")
		return
	}
	if ast.IsAncestor(g, b, true) {
		r.warning(CodeNestedBackref, b.Span(), "Back reference is nested into the capturing group it refers to")
	}
}

func (r *run) namedGroupRef(ref *ast.NamedGroupRef) {
	if !r.caps.SupportsNamedGroupRefSyntax(ref) {
		r.error(CodeUnsupportedNamedRef, ref.Span(), "This named group reference syntax is not supported in this regex dialect")
		return
	}
	if !ref.HasName() {
		return
	}
	g := ast.ResolveNamedGroupRef(ref)
	if g == nil {
		r.unknownSymbol(CodeUnresolvedNamedRef, ref.NameAt, "Unresolved named group reference")
		return
	}
	if ast.IsAncestor(g, ref, true) {
		r.warning(CodeNestedNamedRef, ref.Span(), "Group reference is nested into the named group it refers to")
	}
}

func (r *run) group(g *ast.Group) {
	r.redundantGroup(g)

	if g.IsAnyNamed() && !r.caps.SupportsNamedGroupSyntax(g) {
		r.error(CodeUnsupportedNamedGroup, g.Span(), "This named group syntax is not supported in this regex dialect")
	}
	if g.Type == ast.GroupAtomic && !r.caps.SupportsPossessiveQuantifiers(g) {
		r.error(CodeUnsupportedAtomicGroup, g.Span(), "Atomic groups are not supported in this regex dialect")
	}
	if g.HasName() {
		if !r.caps.IsValidGroupName(g.Name, g) {
			r.error(CodeInvalidGroupName, g.NameAt, "Invalid group name")
		}
		r.declare(g)
	}
	if g.IsLookbehind() {
		support := r.caps.SupportsLookbehind(g)
		if support == dialect.NotSupported {
			r.error(CodeUnsupportedLookbehind, g.Span(), "Look-behind groups are not supported in this regex dialect")
		} else {
			r.lookbehind(g, support)
		}
	}
}

func (r *run) redundantGroup(g *ast.Group) {
	if g.Pattern == nil {
		return
	}
	branches := g.Pattern.Branches
	empty := true
	for _, b := range branches {
		if len(b.Atoms) > 0 {
			empty = false
			break
		}
	}
	if empty {
		r.warning(CodeEmptyGroup, g.Span(), "Empty group")
		return
	}
	if len(branches) != 1 || len(branches[0].Atoms) != 1 {
		return
	}
	inner, ok := branches[0].Atoms[0].(*ast.Group)
	if !ok {
		return
	}
	switch g.Type {
	case ast.GroupCapturing, ast.GroupNonCapturing, ast.GroupAtomic:
		if g.IsCapturing() == inner.IsCapturing() {
			r.report(Diagnostic{
				Severity: Warning,
				Code:     CodeRedundantGroup,
				Message:  "Redundant group nesting",
				Span:     g.Span(),
			})
		}
	}
}

// declare registers a group name. The first declaration wins.
func (r *run) declare(g *ast.Group) {
	if r.groups == nil {
		r.groups = make(map[string]*ast.Group)
	}
	if _, dup := r.groups[g.Name]; dup {
		r.error(CodeDuplicateGroupName, g.NameAt, fmt.Sprintf("Group with name '%s' already defined", g.Name))
		return
	}
	r.groups[g.Name] = g
}

func (r *run) quantifier(q *ast.Quantifier) {
	if q.IsCounted() {
		r.simplifyQuantifier(q)
		r.repetitionRange(q)
	}
	if q.Modifier == ast.Possessive && !r.caps.SupportsPossessiveQuantifiers(q) {
		r.error(CodeUnsupportedPossessive, q.ModifierAt, "Nested quantifier in regexp")
	}
}

// simplifyQuantifier suggests a shorter spelling for counted quantifiers.
func (r *run) simplifyQuantifier(q *ast.Quantifier) {
	lo, hi := q.MinText(), q.MaxText()
	// The replacement keeps a lazy or possessive suffix in place.
	body := q.Span()
	if q.Modifier != ast.Greedy {
		body.End = q.ModifierAt.Start
	}

	var msg string
	var fix *Fix
	switch {
	case hi != "" && hi == lo:
		switch {
		case lo == "1":
			msg = "Single repetition"
			fix = &Fix{Title: "Remove redundant quantifier", Span: q.Span()}
		case q.HasComma:
			msg = "Fixed repetition range"
			fix = &Fix{Title: fmt.Sprintf("Replace with '{%s}'", hi), Span: body, NewText: "{" + hi + "}"}
		default:
			return
		}
	case (lo == "" || lo == "0") && hi == "1":
		msg, fix = replaceable(body, "?")
	case (lo == "" || lo == "0") && hi == "":
		msg, fix = replaceable(body, "*")
	case lo == "1" && hi == "":
		msg, fix = replaceable(body, "+")
	default:
		return
	}
	r.report(Diagnostic{
		Severity: WeakWarning,
		Code:     CodeSimplifiableQuantifier,
		Message:  msg,
		Span:     q.Span(),
		Fix:      fix,
	})
}

func replaceable(span ast.Range, token string) (string, *Fix) {
	return fmt.Sprintf("Repetition range replaceable by '%s'", token),
		&Fix{Title: fmt.Sprintf("Replace with '%s'", token), Span: span, NewText: token}
}

func (r *run) repetitionRange(q *ast.Quantifier) {
	lo, loOK := r.bound(q.Min)
	hi, hiOK := lo, loOK
	if q.Max != q.Min {
		hi, hiOK = r.bound(q.Max)
	}
	if loOK && hiOK && hi < lo {
		r.error(CodeIllegalRepetitionRange, q.Min.Span().Union(q.Max.Span()), "Illegal repetition range (min > max)")
	}
}

func (r *run) bound(n *ast.Number) (int64, bool) {
	if n == nil {
		return 0, false
	}
	v, err := r.caps.QuantifierValue(n)
	if err != nil {
		r.error(CodeRepetitionTooLarge, n.Span(), "Repetition value too large")
		return 0, false
	}
	return v, true
}

var posixClasses = collections.NewSet(
	"alnum", "alpha", "ascii", "blank", "cntrl", "digit", "graph", "lower",
	"print", "punct", "space", "upper", "word", "xdigit",
	// word boundaries
	"<", ">",
)

func (r *run) posixBracket(p *ast.PosixBracket) {
	if p.Name == "" || posixClasses.Has(p.Name) {
		return
	}
	r.unknownSymbol(CodeUnknownPosixClass, p.NameAt, "Unknown POSIX character class")
}
