// Package parser turns regular expression source into an ast tree.
//
// The parser accepts the union of the supported dialects' syntax and never
// gives up: malformed escapes become characters carrying a bad-token flag
// and structural problems are returned as SyntaxErrors next to a
// best-effort tree. Deciding what a dialect allows is left to the
// validator.
package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"bennypowers.dev/rxls/internal/regexp/ast"
)

// Options switches dialect-dependent tokenization.
type Options struct {
	// NestedClasses enables [a[b]] unions and && intersections.
	NestedClasses bool `yaml:"nestedClasses"`
	// PosixBrackets enables [:alpha:] inside classes.
	PosixBrackets bool `yaml:"posixBrackets"`
	// Quoting enables \Q...\E.
	Quoting bool `yaml:"quoting"`
	// UnicodeEscapes enables \uFFFF.
	UnicodeEscapes bool `yaml:"unicodeEscapes"`
	// BracedUnicode enables \u{10FFFF}.
	BracedUnicode bool `yaml:"bracedUnicode"`
	// VerticalTab reads \v as U+000B instead of the vertical space class.
	VerticalTab bool `yaml:"verticalTab"`
	// IdentityEscapes reads unknown letter escapes as the letter itself.
	IdentityEscapes bool `yaml:"identityEscapes"`
	// EmptyClass reads [] as a complete (empty) class.
	EmptyClass bool `yaml:"emptyClass"`
	// OctalNeedsDigit rejects a bare \0.
	OctalNeedsDigit bool `yaml:"octalNeedsDigit"`
	// OctalWithoutZero reads \mnn (three octal digits) as a character
	// rather than a back reference.
	OctalWithoutZero bool `yaml:"octalWithoutZero"`
	// LongUnicodeEscapes enables \UFFFFFFFF.
	LongUnicodeEscapes bool `yaml:"longUnicodeEscapes"`
	// Verbose starts in x mode: whitespace is ignored and # starts a comment.
	Verbose bool `yaml:"verbose"`
}

// SyntaxError is a structural problem found while parsing.
type SyntaxError struct {
	Message string
	Range   ast.Range
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Range)
}

type parser struct {
	src      string
	pos      int
	opts     Options
	verbose  bool
	captures int
	errs     []SyntaxError
}

// Parse parses pattern. The returned tree is always non-nil and linked.
func Parse(pattern string, opts Options) (*ast.Pattern, []SyntaxError) {
	p := &parser{src: pattern, opts: opts, verbose: opts.Verbose}
	root := p.parsePattern(0)
	ast.Link(root)
	return root, p.errs
}

func (p *parser) more() bool {
	return p.pos < len(p.src)
}

func (p *parser) peek() rune {
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return r
}

// peekByte returns the byte off bytes ahead, or 0 past the end.
func (p *parser) peekByte(off int) byte {
	if p.pos+off < len(p.src) {
		return p.src[p.pos+off]
	}
	return 0
}

func (p *parser) next() rune {
	r, w := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += w
	return r
}

func (p *parser) lookingAt(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *parser) base(start int) ast.Base {
	return ast.At(p.src, start, p.pos)
}

func (p *parser) errorf(start, end int, format string, args ...any) {
	p.errs = append(p.errs, SyntaxError{
		Message: fmt.Sprintf(format, args...),
		Range:   ast.Range{Start: start, End: end},
	})
}

// parsePattern handles alternation.
func (p *parser) parsePattern(depth int) *ast.Pattern {
	start := p.pos
	pat := &ast.Pattern{}
	for {
		pat.Branches = append(pat.Branches, p.parseBranch(depth))
		if p.more() && p.peek() == '|' {
			p.pos++
			continue
		}
		break
	}
	pat.Base = p.base(start)
	return pat
}

// parseBranch handles concatenation.
func (p *parser) parseBranch(depth int) *ast.Branch {
	start := p.pos
	b := &ast.Branch{}
	for p.more() {
		c := p.peek()
		if c == '|' || (c == ')' && depth > 0) {
			break
		}
		b.Atoms = append(b.Atoms, p.parseTerm(depth)...)
	}
	b.Base = p.base(start)
	return b
}

// parseTerm parses one atom and its quantifier. Quoted sequences yield
// several characters, of which only the last is quantified.
func (p *parser) parseTerm(depth int) []ast.Node {
	if p.verbose {
		switch c := p.peek(); {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			p.pos++
			return nil
		case c == '#':
			start := p.pos
			for p.more() && p.peek() != '\n' {
				p.next()
			}
			return []ast.Node{&ast.Comment{Base: p.base(start)}}
		}
	}

	atoms := p.parseAtom(depth)
	if len(atoms) == 0 {
		return nil
	}
	last := atoms[len(atoms)-1]
	if q := p.parseQuantifier(); q != nil {
		atoms[len(atoms)-1] = &ast.Closure{
			Base:       ast.At(p.src, last.Span().Start, q.At.End),
			Atom:       last,
			Quantifier: q,
		}
		for {
			extra := p.pos
			if p.parseQuantifier() == nil {
				break
			}
			p.errorf(extra, p.pos, "Dangling metacharacter")
		}
	}
	return atoms
}

func (p *parser) parseAtom(depth int) []ast.Node {
	start := p.pos
	switch c := p.peek(); c {
	case '(':
		return []ast.Node{p.parseGroup(depth)}
	case '[':
		return []ast.Node{p.parseClass()}
	case '.':
		p.pos++
		return []ast.Node{&ast.SimpleClass{Base: p.base(start), Class: ast.ClassAny}}
	case '^':
		p.pos++
		return []ast.Node{&ast.Boundary{Base: p.base(start), Boundary: ast.BoundaryLineStart}}
	case '$':
		p.pos++
		return []ast.Node{&ast.Boundary{Base: p.base(start), Boundary: ast.BoundaryLineEnd}}
	case '\\':
		return p.parseEscape(false)
	case '*', '+', '?':
		p.parseQuantifier()
		p.errorf(start, p.pos, "Dangling metacharacter")
		return nil
	case '{':
		if q := p.parseQuantifier(); q != nil {
			p.errorf(start, p.pos, "Dangling metacharacter")
			return nil
		}
	case ')':
		p.errorf(start, start+1, "Unmatched closing ')'")
	}
	r := p.next()
	return []ast.Node{&ast.Char{Base: p.base(start), Value: r, Type: ast.CharLiteral}}
}

// parseQuantifier consumes a quantifier at the current position, or
// returns nil and leaves the position untouched.
func (p *parser) parseQuantifier() *ast.Quantifier {
	if !p.more() {
		return nil
	}
	start := p.pos
	q := &ast.Quantifier{}
	switch c := p.src[p.pos]; c {
	case '*', '+', '?':
		p.pos++
		q.Token = string(c)
	case '{':
		if !p.parseCounted(q) {
			p.pos = start
			return nil
		}
	default:
		return nil
	}
	if p.more() {
		modStart := p.pos
		switch p.src[p.pos] {
		case '?':
			p.pos++
			q.Modifier = ast.Reluctant
		case '+':
			p.pos++
			q.Modifier = ast.Possessive
		}
		q.ModifierAt = ast.Range{Start: modStart, End: p.pos}
	}
	q.Base = p.base(start)
	return q
}

// parseCounted reads {n}, {n,}, {n,m} or {,m}.
func (p *parser) parseCounted(q *ast.Quantifier) bool {
	p.pos++
	q.Min = p.parseNumber()
	if p.more() && p.src[p.pos] == ',' {
		q.HasComma = true
		p.pos++
		q.Max = p.parseNumber()
	} else {
		q.Max = q.Min
	}
	if !p.more() || p.src[p.pos] != '}' {
		return false
	}
	if q.Min == nil && q.Max == nil {
		return false
	}
	p.pos++
	return true
}

func (p *parser) parseNumber() *ast.Number {
	start := p.pos
	for p.more() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return nil
	}
	return &ast.Number{Base: p.base(start)}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isFlagLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
