package parser

import (
	"strconv"
	"strings"

	"bennypowers.dev/rxls/internal/regexp/ast"
)

// parseGroup parses everything that starts with '('.
func (p *parser) parseGroup(depth int) ast.Node {
	start := p.pos
	p.pos++ // (

	g := &ast.Group{Type: ast.GroupCapturing}
	if p.lookingAt("?") {
		p.pos++
		switch {
		case p.lookingAt(":"):
			p.pos++
			g.Type = ast.GroupNonCapturing
		case p.lookingAt(">"):
			p.pos++
			g.Type = ast.GroupAtomic
		case p.lookingAt("="):
			p.pos++
			g.Type = ast.GroupPositiveLookahead
		case p.lookingAt("!"):
			p.pos++
			g.Type = ast.GroupNegativeLookahead
		case p.lookingAt("<="):
			p.pos += 2
			g.Type = ast.GroupPositiveLookbehind
		case p.lookingAt("<!"):
			p.pos += 2
			g.Type = ast.GroupNegativeLookbehind
		case p.lookingAt("<"):
			p.pos++
			g.Type = ast.GroupNamed
			p.parseGroupName(g, '>')
		case p.lookingAt("P<"):
			p.pos += 2
			g.Type = ast.GroupPythonNamed
			p.parseGroupName(g, '>')
		case p.lookingAt("'"):
			p.pos++
			g.Type = ast.GroupQuotedNamed
			p.parseGroupName(g, '\'')
		case p.lookingAt("P="):
			return p.parsePythonRef(start)
		case p.lookingAt("#"):
			return p.parseComment(start)
		case p.lookingAt("("):
			return p.parseConditional(start, depth)
		default:
			opts, ok := p.parseSetOptions()
			if !ok {
				p.errorf(start, p.pos, "Unknown group type")
				g.Type = ast.GroupNonCapturing
				break
			}
			if p.lookingAt(")") {
				p.pos++
				p.applyVerbose(opts)
				opts.Base = p.base(start)
				return opts
			}
			// (?flags:...)
			p.pos++
			g.Type = ast.GroupOptions
			g.Options = opts
		}
	}
	if g.IsCapturing() {
		p.captures++
	}

	outer := p.verbose
	if g.Options != nil {
		p.applyVerbose(g.Options)
	}
	g.Pattern = p.parsePattern(depth + 1)
	p.verbose = outer

	if p.lookingAt(")") {
		p.pos++
	} else {
		p.errorf(start, p.pos, "Unclosed group")
	}
	g.Base = p.base(start)
	return g
}

func (p *parser) parseGroupName(g *ast.Group, term byte) {
	nameStart := p.pos
	end := strings.IndexByte(p.src[p.pos:], term)
	if end < 0 {
		p.pos = len(p.src)
		p.errorf(nameStart, p.pos, "Unclosed group name")
		g.Name = p.src[nameStart:]
		g.NameAt = ast.Range{Start: nameStart, End: p.pos}
		return
	}
	p.pos += end
	g.Name = p.src[nameStart:p.pos]
	g.NameAt = ast.Range{Start: nameStart, End: p.pos}
	p.pos++
}

// parsePythonRef parses (?P=name).
func (p *parser) parsePythonRef(start int) ast.Node {
	p.pos += 2
	ref := &ast.NamedGroupRef{Syntax: ast.RefPython}
	nameStart := p.pos
	end := strings.IndexByte(p.src[p.pos:], ')')
	if end < 0 {
		p.pos = len(p.src)
		p.errorf(start, p.pos, "Unclosed group")
	} else {
		p.pos += end
	}
	ref.Name = p.src[nameStart:p.pos]
	ref.NameAt = ast.Range{Start: nameStart, End: p.pos}
	if p.lookingAt(")") {
		p.pos++
	}
	ref.Base = p.base(start)
	return ref
}

// parseComment parses (?#...).
func (p *parser) parseComment(start int) ast.Node {
	end := strings.IndexByte(p.src[p.pos:], ')')
	if end < 0 {
		p.pos = len(p.src)
		p.errorf(start, p.pos, "Unclosed comment")
	} else {
		p.pos += end + 1
	}
	return &ast.Comment{Base: p.base(start)}
}

// parseConditional parses (?(1)yes|no), (?(name)yes|no) and
// (?(?=look)yes|no).
func (p *parser) parseConditional(start, depth int) ast.Node {
	c := &ast.Conditional{}
	condStart := p.pos
	if p.peekByte(1) == '?' {
		c.Condition = p.parseGroup(depth + 1)
	} else {
		end := strings.IndexByte(p.src[p.pos:], ')')
		if end < 0 {
			p.pos = len(p.src)
			p.errorf(condStart, p.pos, "Unclosed group")
		} else {
			p.pos += end + 1
		}
		ref := &ast.PyCondRef{Base: p.base(condStart)}
		inner := strings.TrimSuffix(strings.TrimPrefix(ref.Raw, "("), ")")
		inner = strings.Trim(inner, "<>'")
		if n, err := strconv.Atoi(inner); err == nil {
			ref.Index = n
		} else {
			ref.Name = inner
		}
		c.Condition = ref
	}

	c.Pattern = p.parsePattern(depth + 1)
	if len(c.Pattern.Branches) > 2 {
		p.errorf(start, p.pos, "Conditional group with more than two branches")
	}
	if p.lookingAt(")") {
		p.pos++
	} else {
		p.errorf(start, p.pos, "Unclosed group")
	}
	c.Base = p.base(start)
	return c
}

// parseSetOptions reads on-off flag runs after "(?" and stops before ')'
// or ':'. The returned node's own range is set by the caller.
func (p *parser) parseSetOptions() (*ast.SetOptions, bool) {
	s := &ast.SetOptions{}
	onStart := p.pos
	for p.more() && isFlagLetter(p.src[p.pos]) {
		p.pos++
	}
	if p.pos > onStart {
		s.On = &ast.Options{Base: p.base(onStart)}
	}
	if p.lookingAt("-") {
		offStart := p.pos
		p.pos++
		for p.more() && isFlagLetter(p.src[p.pos]) {
			p.pos++
		}
		s.Off = &ast.Options{Base: p.base(offStart)}
	}
	if !p.lookingAt(")") && !p.lookingAt(":") {
		return nil, false
	}
	if s.On != nil {
		s.Base = ast.At(p.src, onStart, p.pos)
	} else if s.Off != nil {
		s.Base = ast.At(p.src, s.Off.At.Start, p.pos)
	} else {
		s.Base = ast.At(p.src, p.pos, p.pos)
	}
	return s, true
}

func (p *parser) applyVerbose(s *ast.SetOptions) {
	if s.On != nil && strings.ContainsRune(s.On.Raw, 'x') {
		p.verbose = true
	}
	if s.Off != nil && strings.ContainsRune(s.Off.Raw, 'x') {
		p.verbose = false
	}
}
