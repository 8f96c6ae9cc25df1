package js

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// Parser finds regex literals in JS/TS source
type Parser struct {
	parser     *sitter.Parser
	regexQuery *sitter.Query
}

var jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())

// parserPool is a pool of reusable JS parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(jsLang); err != nil {
			panic(fmt.Sprintf("failed to set JS language: %v", err))
		}

		regexQuery, qerr := sitter.NewQuery(jsLang, `(regex) @regex`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile regex query: %v", qerr))
		}

		return &Parser{
			parser:     parser,
			regexQuery: regexQuery,
		}
	},
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close closes the parser and releases its resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
	if p.regexQuery != nil {
		p.regexQuery.Close()
	}
}

// ClosePool closes all parsers in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// Literals returns the regex literals of source in document order.
// TypeScript parses well enough with the JavaScript grammar for literals to
// be found; type annotations around them end up in error nodes.
func (p *Parser) Literals(source string) []Literal {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	var literals []Literal
	matches := cursor.Matches(p.regexQuery, tree.RootNode(), sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			if lit, ok := literal(&capture.Node, sourceBytes); ok {
				literals = append(literals, lit)
			}
		}
	}
	return literals
}

// literal reads the pattern and flags children of a regex node.
func literal(regex *sitter.Node, sourceBytes []byte) (Literal, bool) {
	var lit Literal
	found := false
	for i := uint(0); i < regex.ChildCount(); i++ {
		child := regex.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "regex_pattern":
			lit.Pattern = string(sourceBytes[child.StartByte():child.EndByte()])
			lit.Offset = int(child.StartByte()) //nolint:gosec // G115: byte offsets are bounded by file size
			found = true
		case "regex_flags":
			lit.Flags = string(sourceBytes[child.StartByte():child.EndByte()])
		}
	}
	return lit, found
}
