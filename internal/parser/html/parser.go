package html

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"

	"bennypowers.dev/rxls/internal/parser/js"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

// Parser finds patterns in HTML: form validation attributes and regex
// literals in inline scripts.
type Parser struct {
	parser      *sitter.Parser
	attrQuery   *sitter.Query
	scriptQuery *sitter.Query
}

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

// parserPool is a pool of reusable HTML parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}

		attrQuery, qerr := sitter.NewQuery(htmlLang, `
			(attribute
				(attribute_name) @attr_name
				[
					(attribute_value) @attr_value
					(quoted_attribute_value (attribute_value) @attr_value)
				])
		`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile attribute query: %v", qerr))
		}

		scriptQuery, qerr := sitter.NewQuery(htmlLang, `(script_element (raw_text) @script)`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile script query: %v", qerr))
		}

		return &Parser{
			parser:      parser,
			attrQuery:   attrQuery,
			scriptQuery: scriptQuery,
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
	if p.attrQuery != nil {
		p.attrQuery.Close()
	}
	if p.scriptQuery != nil {
		p.scriptQuery.Close()
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

// Patterns returns every pattern in source ordered by offset.
func (p *Parser) Patterns(source string) []Pattern {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	patterns := p.attributes(root, sourceBytes)
	patterns = append(patterns, p.scripts(root, sourceBytes)...)

	slices.SortFunc(patterns, func(a, b Pattern) int {
		return cmp.Compare(a.Offset, b.Offset)
	})
	return patterns
}

// attributes collects pattern="..." values. Entity references are left
// as written.
func (p *Parser) attributes(root *sitter.Node, sourceBytes []byte) []Pattern {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	var patterns []Pattern
	names := p.attrQuery.CaptureNames()
	matches := cursor.Matches(p.attrQuery, root, sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		var name string
		var value *sitter.Node
		for _, capture := range match.Captures {
			switch names[capture.Index] {
			case "attr_name":
				name = string(sourceBytes[capture.Node.StartByte():capture.Node.EndByte()])
			case "attr_value":
				node := capture.Node
				value = &node
			}
		}
		if value == nil || !strings.EqualFold(name, "pattern") {
			continue
		}
		patterns = append(patterns, Pattern{
			Pattern: string(sourceBytes[value.StartByte():value.EndByte()]),
			Offset:  int(value.StartByte()), //nolint:gosec // G115: byte offsets are bounded by file size
			Kind:    PatternAttribute,
		})
	}
	return patterns
}

// scripts hands each inline script body to the JS extractor and shifts the
// literal offsets into document coordinates.
func (p *Parser) scripts(root *sitter.Node, sourceBytes []byte) []Pattern {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	var bodies []struct {
		text   string
		offset int
	}
	matches := cursor.Matches(p.scriptQuery, root, sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			start, end := capture.Node.StartByte(), capture.Node.EndByte()
			bodies = append(bodies, struct {
				text   string
				offset int
			}{string(sourceBytes[start:end]), int(start)}) //nolint:gosec // G115: byte offsets are bounded by file size
		}
	}
	if len(bodies) == 0 {
		return nil
	}

	jsParser := js.AcquireParser()
	defer js.ReleaseParser(jsParser)

	var patterns []Pattern
	for _, body := range bodies {
		for _, lit := range jsParser.Literals(body.text) {
			patterns = append(patterns, Pattern{
				Pattern: lit.Pattern,
				Flags:   lit.Flags,
				Offset:  body.offset + lit.Offset,
				Kind:    ScriptLiteral,
			})
		}
	}
	return patterns
}
