package parser

import (
	"strings"

	"bennypowers.dev/rxls/internal/regexp/ast"
)

// parseClass parses a bracketed class starting at '['.
func (p *parser) parseClass() ast.Node {
	start := p.pos
	p.pos++ // [
	cls := &ast.Class{}
	if p.lookingAt("^") {
		cls.Negated = true
		p.pos++
	}

	var (
		segments  [][]ast.Node
		segStarts []int
		elements  []ast.Node
		closed    bool
	)
	segStart := p.pos
	first := true
	for p.more() {
		if p.lookingAt("]") && (!first || p.opts.EmptyClass) {
			closed = true
			break
		}
		first = false

		if p.opts.NestedClasses && p.lookingAt("&&") {
			segments = append(segments, elements)
			segStarts = append(segStarts, segStart)
			p.pos += 2
			elements = nil
			segStart = p.pos
			continue
		}
		elements = append(elements, p.parseClassElement()...)
	}

	if len(segments) > 0 {
		segments = append(segments, elements)
		segStarts = append(segStarts, segStart)
		inter := &ast.Intersection{}
		for i, seg := range segments {
			end := p.pos
			if i+1 < len(segStarts) {
				end = segStarts[i+1] - 2
			}
			inter.Operands = append(inter.Operands, &ast.Class{
				Base:     ast.At(p.src, segStarts[i], end),
				Elements: seg,
			})
		}
		inter.Base = ast.At(p.src, segStarts[0], p.pos)
		elements = []ast.Node{inter}
	}
	cls.Elements = elements

	if closed {
		p.pos++
	} else {
		p.errorf(start, p.pos, "Unclosed character class")
	}
	cls.Base = p.base(start)
	return cls
}

// parseClassElement parses one member, folding a following -x into a range.
func (p *parser) parseClassElement() []ast.Node {
	if p.lookingAt("[") {
		if p.opts.PosixBrackets && p.peekByte(1) == ':' {
			if n := p.parsePosix(); n != nil {
				return []ast.Node{n}
			}
		}
		if p.opts.NestedClasses {
			return []ast.Node{p.parseClass()}
		}
	}

	atoms := p.parseClassAtom()
	if len(atoms) == 0 {
		return nil
	}
	from, ok := atoms[len(atoms)-1].(*ast.Char)
	if !ok || !p.lookingAt("-") {
		return atoms
	}

	dash := p.pos
	p.pos++
	if !p.more() {
		r := &ast.CharRange{Base: ast.At(p.src, from.At.Start, p.pos), From: from}
		atoms[len(atoms)-1] = r
		return atoms
	}
	if p.lookingAt("]") || (p.opts.NestedClasses && (p.lookingAt("[") || p.lookingAt("&&"))) {
		p.pos = dash
		return append(atoms, p.literal())
	}

	toAtoms := p.parseClassAtom()
	if len(toAtoms) == 0 {
		return append(atoms, &ast.Char{Base: ast.At(p.src, dash, dash+1), Value: '-'})
	}
	to, ok := toAtoms[0].(*ast.Char)
	if !ok {
		dashChar := &ast.Char{Base: ast.At(p.src, dash, dash+1), Value: '-'}
		atoms = append(atoms, dashChar)
		return append(atoms, toAtoms...)
	}
	atoms[len(atoms)-1] = &ast.CharRange{
		Base: ast.At(p.src, from.At.Start, to.At.End),
		From: from,
		To:   to,
	}
	return append(atoms, toAtoms[1:]...)
}

// parseClassAtom parses a character, escape or quoted run inside a class.
func (p *parser) parseClassAtom() []ast.Node {
	if p.lookingAt(`\`) {
		return p.parseEscape(true)
	}
	return []ast.Node{p.literal()}
}

func (p *parser) literal() *ast.Char {
	start := p.pos
	r := p.next()
	return &ast.Char{Base: p.base(start), Value: r, Type: ast.CharLiteral}
}

// parsePosix parses [:name:] and [:^name:], or returns nil when the
// brackets do not close as a POSIX expression.
func (p *parser) parsePosix() ast.Node {
	start := p.pos
	rest := p.src[p.pos+2:]
	end := strings.Index(rest, ":]")
	if end < 0 || strings.ContainsAny(rest[:end], "[]") {
		return nil
	}
	n := &ast.PosixBracket{}
	nameStart := p.pos + 2
	name := rest[:end]
	if strings.HasPrefix(name, "^") {
		n.Negated = true
		name = name[1:]
		nameStart++
	}
	n.Name = name
	n.NameAt = ast.Range{Start: nameStart, End: nameStart + len(name)}
	p.pos += 2 + end + 2
	n.Base = p.base(start)
	return n
}
