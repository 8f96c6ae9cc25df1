package parser

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"bennypowers.dev/rxls/internal/regexp/ast"
)

var simpleEscapes = map[byte]rune{
	't': '\t',
	'n': '\n',
	'r': '\r',
	'f': '\f',
	'a': '\a',
	'e': 0x1b,
}

var classEscapes = map[byte]ast.SimpleClassKind{
	'd': ast.ClassDigit,
	'D': ast.ClassNonDigit,
	'w': ast.ClassWord,
	'W': ast.ClassNonWord,
	's': ast.ClassSpace,
	'S': ast.ClassNonSpace,
	'h': ast.ClassHorizontalSpace,
	'H': ast.ClassNonHorizontalSpace,
	'v': ast.ClassVerticalSpace,
	'V': ast.ClassNonVerticalSpace,
	'R': ast.ClassLinebreak,
	'X': ast.ClassGrapheme,
}

var boundaryEscapes = map[byte]ast.BoundaryKind{
	'b': ast.BoundaryWord,
	'B': ast.BoundaryNonWord,
	'A': ast.BoundaryBeginInput,
	'z': ast.BoundaryEndInput,
	'Z': ast.BoundaryEndInputBeforeNewline,
	'G': ast.BoundaryPreviousMatchEnd,
	'K': ast.BoundaryResetMatchStart,
}

// parseEscape parses a backslash sequence. It returns several nodes for
// \Q...\E and none for a stray \E.
func (p *parser) parseEscape(inClass bool) []ast.Node {
	start := p.pos
	p.pos++ // backslash
	if !p.more() {
		p.errorf(start, p.pos, "Trailing backslash")
		return []ast.Node{p.char(start, '\\', ast.CharEscaped, ast.TokenInvalidEscape)}
	}

	c := p.src[p.pos]
	switch {
	case c == 'b' && inClass:
		p.pos++
		return []ast.Node{p.char(start, '\b', ast.CharBackspace, ast.TokenOK)}
	case c == 'v' && p.opts.VerticalTab:
		p.pos++
		return []ast.Node{p.char(start, '\v', ast.CharEscaped, ast.TokenOK)}
	case c == 'N' && p.peekByte(1) == '{':
		return []ast.Node{p.parseNamedChar(start)}
	case c == 'N' && !inClass:
		p.pos++
		return []ast.Node{&ast.SimpleClass{Base: p.base(start), Class: ast.ClassNotNewline}}
	case c == 'p' || c == 'P':
		return []ast.Node{p.parseProperty(start)}
	case c == 'x':
		return []ast.Node{p.parseHex(start)}
	case c == 'u' && p.opts.UnicodeEscapes:
		return []ast.Node{p.parseUnicode(start)}
	case c == 'U' && p.opts.LongUnicodeEscapes:
		return []ast.Node{p.parseLongUnicode(start)}
	case c == 'c':
		p.pos++
		if p.more() && isFlagLetter(p.src[p.pos]) {
			v := rune(p.src[p.pos]) % 32
			p.pos++
			return []ast.Node{p.char(start, v, ast.CharControl, ast.TokenOK)}
		}
		return []ast.Node{p.char(start, 'c', ast.CharControl, ast.TokenInvalidEscape)}
	case c == '0':
		return []ast.Node{p.parseOctal(start)}
	case c >= '1' && c <= '9' && inClass:
		return []ast.Node{p.parseClassOctal(start)}
	case isOctalDigit(c) && p.opts.OctalWithoutZero && isOctalDigit(p.peekByte(1)) && isOctalDigit(p.peekByte(2)):
		return []ast.Node{p.parseThreeDigitOctal(start)}
	case c >= '1' && c <= '9':
		p.pos++
		for p.more() && isDigit(p.src[p.pos]) {
			p.pos++
		}
		n, _ := strconv.Atoi(p.src[start+1 : p.pos])
		return []ast.Node{&ast.Backref{Base: p.base(start), Index: n}}
	case c == 'Q' && p.opts.Quoting:
		return p.parseQuoted()
	case c == 'E' && p.opts.Quoting:
		p.pos++
		return nil
	case c == 'k' && !inClass:
		return []ast.Node{p.parseNamedRef(start)}
	case c == 'g' && !inClass && (p.peekByte(1) == '{' || isDigit(p.peekByte(1)) || p.peekByte(1) == '-'):
		return []ast.Node{p.parseGRef(start)}
	}

	if v, ok := simpleEscapes[c]; ok {
		p.pos++
		return []ast.Node{p.char(start, v, ast.CharEscaped, ast.TokenOK)}
	}
	if k, ok := classEscapes[c]; ok {
		p.pos++
		return []ast.Node{&ast.SimpleClass{Base: p.base(start), Class: k}}
	}
	if k, ok := boundaryEscapes[c]; ok && !inClass {
		p.pos++
		if k == ast.BoundaryWord && p.lookingAt("{g}") {
			p.pos += 3
			k = ast.BoundaryGrapheme
		}
		return []ast.Node{&ast.Boundary{Base: p.base(start), Boundary: k}}
	}

	r, w := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += w
	token := ast.TokenOK
	if r < utf8.RuneSelf && isFlagLetter(byte(r)) && !p.opts.IdentityEscapes {
		token = ast.TokenInvalidEscape
	}
	return []ast.Node{p.char(start, r, ast.CharEscaped, token)}
}

func (p *parser) char(start int, v rune, t ast.CharType, token ast.TokenFlag) *ast.Char {
	return &ast.Char{Base: p.base(start), Value: v, Type: t, Token: token}
}

// parseHex parses \xhh and \x{h...}.
func (p *parser) parseHex(start int) ast.Node {
	p.pos++ // x
	if p.lookingAt("{") {
		return p.parseBracedCode(start, ast.CharHex, ast.TokenBadHex)
	}
	digits := p.takeHex(2)
	if len(digits) != 2 {
		return p.char(start, ast.Unresolved, ast.CharHex, ast.TokenBadHex)
	}
	v, _ := strconv.ParseUint(digits, 16, 32)
	return p.char(start, rune(v), ast.CharHex, ast.TokenOK)
}

// parseUnicode parses \uhhhh and, when enabled, \u{h...}.
func (p *parser) parseUnicode(start int) ast.Node {
	p.pos++ // u
	if p.lookingAt("{") && p.opts.BracedUnicode {
		return p.parseBracedCode(start, ast.CharUnicode, ast.TokenInvalidUnicode)
	}
	digits := p.takeHex(4)
	if len(digits) != 4 {
		return p.char(start, ast.Unresolved, ast.CharUnicode, ast.TokenInvalidUnicode)
	}
	v, _ := strconv.ParseUint(digits, 16, 32)
	return p.char(start, rune(v), ast.CharUnicode, ast.TokenOK)
}

// parseLongUnicode parses \Uhhhhhhhh.
func (p *parser) parseLongUnicode(start int) ast.Node {
	p.pos++ // U
	digits := p.takeHex(8)
	if len(digits) != 8 {
		return p.char(start, ast.Unresolved, ast.CharUnicode, ast.TokenInvalidUnicode)
	}
	v, _ := strconv.ParseUint(digits, 16, 32)
	if v > utf8.MaxRune {
		return p.char(start, ast.Unresolved, ast.CharUnicode, ast.TokenOK)
	}
	return p.char(start, rune(v), ast.CharUnicode, ast.TokenOK)
}

// parseBracedCode reads {h...}. Values above U+10FFFF stay unresolved
// without a bad-token flag.
func (p *parser) parseBracedCode(start int, t ast.CharType, bad ast.TokenFlag) ast.Node {
	p.pos++ // {
	end := strings.IndexByte(p.src[p.pos:], '}')
	if end < 0 {
		p.pos = len(p.src)
		return p.char(start, ast.Unresolved, t, bad)
	}
	digits := p.src[p.pos : p.pos+end]
	p.pos += end + 1
	if digits == "" {
		return p.char(start, ast.Unresolved, t, bad)
	}
	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return p.char(start, ast.Unresolved, t, ast.TokenOK)
		}
		return p.char(start, ast.Unresolved, t, bad)
	}
	if v > utf8.MaxRune {
		return p.char(start, ast.Unresolved, t, ast.TokenOK)
	}
	return p.char(start, rune(v), t, ast.TokenOK)
}

func (p *parser) takeHex(n int) string {
	start := p.pos
	for p.pos-start < n && p.more() && isHexDigit(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isOctalDigit(c byte) bool {
	return c >= '0' && c <= '7'
}

// parseOctal parses \0, \0n, \0nn and \0mnn.
func (p *parser) parseOctal(start int) ast.Node {
	p.pos++ // 0
	digitsStart := p.pos
	for p.pos-digitsStart < 3 && p.more() && isOctalDigit(p.src[p.pos]) {
		p.pos++
	}
	digits := p.src[digitsStart:p.pos]
	if digits == "" {
		if p.opts.OctalNeedsDigit {
			return p.char(start, ast.Unresolved, ast.CharOctal, ast.TokenBadOctal)
		}
		return p.char(start, 0, ast.CharOctal, ast.TokenOK)
	}
	v, _ := strconv.ParseUint(digits, 8, 32)
	if v > 0377 {
		// \0mnn only allows m <= 3; give back the last digit
		p.pos--
		v >>= 3
	}
	return p.char(start, rune(v), ast.CharOctal, ast.TokenOK)
}

// parseThreeDigitOctal parses \mnn. Values above \377 are out of range.
func (p *parser) parseThreeDigitOctal(start int) ast.Node {
	p.pos += 3
	v, _ := strconv.ParseUint(p.src[start+1:p.pos], 8, 32)
	if v > 0377 {
		return p.char(start, ast.Unresolved, ast.CharOctal, ast.TokenBadOctal)
	}
	return p.char(start, rune(v), ast.CharOctal, ast.TokenOK)
}

// parseClassOctal parses \1..\7 inside a class, where back references are
// meaningless.
func (p *parser) parseClassOctal(start int) ast.Node {
	p.pos++ // first digit
	if !isOctalDigit(p.src[p.pos-1]) {
		return p.char(start, rune(p.src[p.pos-1]), ast.CharEscaped, ast.TokenInvalidEscape)
	}
	for p.pos-start < 4 && p.more() && isOctalDigit(p.src[p.pos]) {
		p.pos++
	}
	v, _ := strconv.ParseUint(p.src[start+1:p.pos], 8, 32)
	return p.char(start, rune(v), ast.CharOctal, ast.TokenOK)
}

func (p *parser) parseQuoted() []ast.Node {
	p.pos++ // Q
	var out []ast.Node
	for p.more() && !p.lookingAt(`\E`) {
		s := p.pos
		r := p.next()
		out = append(out, p.char(s, r, ast.CharLiteral, ast.TokenOK))
	}
	if p.lookingAt(`\E`) {
		p.pos += 2
	}
	return out
}

// parseProperty parses \p{Name}, \p{Name=Value}, \p{^Name} and \pL.
func (p *parser) parseProperty(start int) ast.Node {
	prop := &ast.Property{Negated: p.src[p.pos] == 'P'}
	p.pos++
	switch {
	case p.lookingAt("{"):
		p.pos++
		if p.lookingAt("^") {
			prop.Negated = !prop.Negated
			p.pos++
		}
		bodyStart := p.pos
		end := strings.IndexByte(p.src[p.pos:], '}')
		bodyEnd := len(p.src)
		if end >= 0 {
			bodyEnd = p.pos + end
		} else {
			p.errorf(start, len(p.src), "Unclosed property")
		}
		body := p.src[bodyStart:bodyEnd]
		if eq := strings.IndexAny(body, "=:"); eq >= 0 {
			prop.HasEquals = true
			prop.Category = body[:eq]
			prop.CategoryAt = ast.Range{Start: bodyStart, End: bodyStart + eq}
			prop.Value = body[eq+1:]
			prop.ValueAt = ast.Range{Start: bodyStart + eq + 1, End: bodyEnd}
		} else {
			prop.Category = body
			prop.CategoryAt = ast.Range{Start: bodyStart, End: bodyEnd}
		}
		p.pos = bodyEnd
		if end >= 0 {
			p.pos++
		}
	case p.more() && isFlagLetter(p.src[p.pos]):
		prop.Category = p.src[p.pos : p.pos+1]
		prop.CategoryAt = ast.Range{Start: p.pos, End: p.pos + 1}
		p.pos++
	}
	prop.Base = p.base(start)
	return prop
}

// parseNamedChar parses \N{NAME}.
func (p *parser) parseNamedChar(start int) ast.Node {
	p.pos += 2 // N{
	nameStart := p.pos
	end := strings.IndexByte(p.src[p.pos:], '}')
	nameEnd := len(p.src)
	if end >= 0 {
		nameEnd = p.pos + end
	} else {
		p.errorf(start, nameEnd, "Unclosed named character")
	}
	n := &ast.NamedChar{
		Name:   p.src[nameStart:nameEnd],
		NameAt: ast.Range{Start: nameStart, End: nameEnd},
	}
	p.pos = nameEnd
	if end >= 0 {
		p.pos++
	}
	n.Base = p.base(start)
	return n
}

// parseNamedRef parses \k<name>, \k'name', \k{name} and a bare \k.
func (p *parser) parseNamedRef(start int) ast.Node {
	p.pos++ // k
	ref := &ast.NamedGroupRef{Syntax: ast.RefBare}
	var term byte
	switch {
	case p.lookingAt("<"):
		ref.Syntax, term = ast.RefAngle, '>'
	case p.lookingAt("'"):
		ref.Syntax, term = ast.RefQuoted, '\''
	case p.lookingAt("{"):
		ref.Syntax, term = ast.RefBraced, '}'
	default:
		ref.Base = p.base(start)
		return ref
	}
	p.pos++
	p.readRefName(ref, term, start)
	ref.Base = p.base(start)
	return ref
}

// parseGRef parses \g{name}, \g{N}, \g{-N}, \gN and \g-N.
func (p *parser) parseGRef(start int) ast.Node {
	p.pos++ // g
	braced := p.lookingAt("{")
	if braced {
		p.pos++
	}
	bodyStart := p.pos
	if !braced {
		if p.lookingAt("-") {
			p.pos++
		}
		for p.more() && isDigit(p.src[p.pos]) {
			p.pos++
		}
		return p.numericRef(start, p.src[bodyStart:p.pos])
	}
	end := strings.IndexByte(p.src[p.pos:], '}')
	if end < 0 {
		p.pos = len(p.src)
		p.errorf(start, p.pos, "Unclosed group reference")
	} else {
		p.pos += end
	}
	body := p.src[bodyStart:p.pos]
	if end >= 0 {
		p.pos++
	}
	if _, err := strconv.Atoi(body); err == nil {
		return p.numericRef(start, body)
	}
	ref := &ast.NamedGroupRef{
		Syntax: ast.RefG,
		Name:   body,
		NameAt: ast.Range{Start: bodyStart, End: bodyStart + len(body)},
	}
	ref.Base = p.base(start)
	return ref
}

// numericRef builds a back reference, resolving a relative -N against the
// groups opened so far.
func (p *parser) numericRef(start int, digits string) ast.Node {
	n, _ := strconv.Atoi(digits)
	if n < 0 {
		n = p.captures + n + 1
	}
	return &ast.Backref{Base: p.base(start), Index: n}
}

func (p *parser) readRefName(ref *ast.NamedGroupRef, term byte, start int) {
	nameStart := p.pos
	end := strings.IndexByte(p.src[p.pos:], term)
	if end < 0 {
		p.pos = len(p.src)
		p.errorf(start, p.pos, "Unclosed group reference")
	} else {
		p.pos += end
	}
	ref.Name = p.src[nameStart:p.pos]
	ref.NameAt = ast.Range{Start: nameStart, End: p.pos}
	if end >= 0 {
		p.pos++
	}
}
