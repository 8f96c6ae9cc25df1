// Package parser finds the regular expressions embedded in documents.
package parser

import (
	"strings"

	"bennypowers.dev/rxls/internal/documents"
	"bennypowers.dev/rxls/internal/parser/html"
	"bennypowers.dev/rxls/internal/parser/js"
)

// Built-in dialect names chosen by extraction. Configuration may override
// them per language id.
const (
	DialectJavaScript        = "javascript"
	DialectJavaScriptUnicode = "javascript-unicode"
)

// LanguagePattern is the language id of plain pattern documents.
const LanguagePattern = "regexp"

// DialectDirective at the start of a line in a pattern document switches the
// dialect for the lines that follow.
const DialectDirective = "#!dialect:"

// Region is one pattern inside a document.
type Region struct {
	Pattern string
	// Offset is the byte offset of Pattern in the document
	Offset  int
	Dialect string
}

// Config is the subset of server configuration extraction depends on.
type Config struct {
	DefaultDialect string
	// Dialects maps a language id to the dialect used for its patterns
	Dialects     map[string]string
	PatternFiles []string
	RootPath     string
}

// languages maps language IDs to the extractor they use.
var languages = map[string]string{
	"html":            "html",
	"javascript":      "js",
	"javascriptreact": "js",
	"typescript":      "js",
	"typescriptreact": "js",
	LanguagePattern:   "plain",
}

// IsSupportedLanguage reports whether documents of languageID can contain
// patterns without further configuration.
func IsSupportedLanguage(languageID string) bool {
	_, ok := languages[languageID]
	return ok
}

// Extract returns the patterns in content. Documents matched by
// cfg.PatternFiles are read as pattern documents whatever their language id.
func Extract(languageID, uri, content string, cfg Config) []Region {
	kind := languages[languageID]
	if documents.IsPatternFile(cfg.RootPath, uri, cfg.PatternFiles) {
		kind = "plain"
	}
	override := cfg.Dialects[languageID]

	switch kind {
	case "js":
		p := js.AcquireParser()
		defer js.ReleaseParser(p)
		lits := p.Literals(content)
		regions := make([]Region, 0, len(lits))
		for _, lit := range lits {
			regions = append(regions, Region{
				Pattern: lit.Pattern,
				Offset:  lit.Offset,
				Dialect: pick(override, literalDialect(lit.Unicode())),
			})
		}
		return regions

	case "html":
		p := html.AcquireParser()
		defer html.ReleaseParser(p)
		found := p.Patterns(content)
		regions := make([]Region, 0, len(found))
		for _, f := range found {
			d := DialectJavaScriptUnicode
			if f.Kind == html.ScriptLiteral {
				d = literalDialect(js.Literal{Flags: f.Flags}.Unicode())
			}
			regions = append(regions, Region{
				Pattern: f.Pattern,
				Offset:  f.Offset,
				Dialect: pick(override, d),
			})
		}
		return regions

	case "plain":
		return Lines(content, pick(override, cfg.DefaultDialect))
	}
	return nil
}

func literalDialect(unicode bool) string {
	if unicode {
		return DialectJavaScriptUnicode
	}
	return DialectJavaScript
}

func pick(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

// Lines reads a pattern document: each non-blank line is a pattern in the
// current dialect, and a directive line changes the dialect.
func Lines(content, dialect string) []Region {
	var regions []Region
	offset := 0
	for line := range strings.SplitAfterSeq(content, "\n") {
		start := offset
		offset += len(line)
		text := strings.TrimRight(line, "\r\n")

		if name, ok := strings.CutPrefix(text, DialectDirective); ok {
			if name = strings.TrimSpace(name); name != "" {
				dialect = name
			}
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		regions = append(regions, Region{Pattern: text, Offset: start, Dialect: dialect})
	}
	return regions
}
