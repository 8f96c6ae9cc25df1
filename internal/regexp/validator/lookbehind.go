package validator

import (
	"strconv"

	"bennypowers.dev/rxls/internal/regexp/ast"
	"bennypowers.dev/rxls/internal/regexp/dialect"
)

// lookbehindChecker measures the body of a lookbehind group and rejects
// constructs the dialect cannot match backwards. The walk stops at the
// first violation, so each group yields at most one finding.
type lookbehindChecker struct {
	run     *run
	support dialect.Lookbehind
	length  int
}

func (r *run) lookbehind(g *ast.Group, support dialect.Lookbehind) {
	if g.Pattern == nil {
		return
	}
	c := &lookbehindChecker{run: r, support: support}
	c.walk(g.Pattern)
}

func (c *lookbehindChecker) fail(n ast.Node, msg string) bool {
	c.run.error(CodeLookbehindLength, n.Span(), msg)
	return false
}

// walk returns false once a violation has been reported.
func (c *lookbehindChecker) walk(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Char, *ast.NamedChar, *ast.SimpleClass, *ast.Class, *ast.Property, *ast.PosixBracket:
		// a class matches one character whatever its members
		c.length++
		return true
	case *ast.Backref:
		if c.support != dialect.Full {
			return c.fail(n, "Group reference not allowed inside lookbehind")
		}
		return true
	case *ast.NamedGroupRef:
		if c.support != dialect.Full {
			return c.fail(n, "Named group reference not allowed inside lookbehind")
		}
		return true
	case *ast.PyCondRef:
		if c.support != dialect.Full {
			return c.fail(n, "Conditional group reference not allowed inside lookbehind")
		}
		return true
	case *ast.Pattern:
		if c.support == dialect.FixedLengthAlternation {
			return c.alternation(n)
		}
	case *ast.Quantifier:
		return c.quantifier(n)
	}
	for _, child := range n.Children() {
		if !c.walk(child) {
			return false
		}
	}
	return true
}

// alternation requires every branch to have the same length. The length
// counted before the alternation is restored afterwards.
func (c *lookbehindChecker) alternation(p *ast.Pattern) bool {
	outer := c.length
	want := -1
	for _, b := range p.Branches {
		c.length = 0
		if !c.walk(b) {
			return false
		}
		if want < 0 {
			want = c.length
		} else if c.length != want {
			return c.fail(p, "Alternation alternatives needs to have the same length inside lookbehind")
		}
	}
	c.length = outer
	return true
}

func (c *lookbehindChecker) quantifier(q *ast.Quantifier) bool {
	if c.support == dialect.Full {
		return true
	}
	if q.IsCounted() {
		lo, loErr := strconv.Atoi(q.MinText())
		hi, hiErr := strconv.Atoi(q.MaxText())
		if loErr == nil && hiErr == nil && lo == hi {
			c.length += lo
			return true
		}
		if c.support != dialect.FiniteRepetition {
			return c.fail(q, "Unequal min and max in counted quantifier not allowed inside lookbehind")
		}
		return true
	}
	if q.Token == "?" && c.support == dialect.FiniteRepetition {
		return true
	}
	return c.fail(q, q.Token+" repetition not allowed inside lookbehind")
}
