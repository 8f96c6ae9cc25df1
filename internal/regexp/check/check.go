// Package check parses and validates a single pattern.
package check

import (
	"cmp"
	"slices"

	"bennypowers.dev/rxls/internal/regexp/ast"
	"bennypowers.dev/rxls/internal/regexp/dialect"
	"bennypowers.dev/rxls/internal/regexp/parser"
	"bennypowers.dev/rxls/internal/regexp/validator"
)

// CodeSyntax marks diagnostics that come from the parser.
const CodeSyntax validator.Code = "syntax"

// Result is the outcome of checking one pattern.
type Result struct {
	Root        *ast.Pattern
	Diagnostics []validator.Diagnostic
}

// HasErrors reports whether any diagnostic has error severity.
func (r Result) HasErrors() bool {
	return slices.ContainsFunc(r.Diagnostics, func(d validator.Diagnostic) bool {
		return d.Severity == validator.Error
	})
}

// Pattern parses pattern with the dialect's syntax options and validates
// it. Diagnostics are ordered by start offset; findings at the same offset
// keep parser-then-validator order.
func Pattern(pattern string, d *dialect.Descriptor) Result {
	root, syntaxErrs := parser.Parse(pattern, d.Options())

	diags := make([]validator.Diagnostic, 0, len(syntaxErrs))
	for _, e := range syntaxErrs {
		diags = append(diags, validator.Diagnostic{
			Severity: validator.Error,
			Code:     CodeSyntax,
			Message:  e.Message,
			Span:     e.Range,
		})
	}

	// A fresh validator per call keeps Pattern safe for concurrent use.
	found, err := validator.New(d).Diagnostics(root)
	if err == nil {
		diags = append(diags, found...)
	}

	slices.SortStableFunc(diags, func(a, b validator.Diagnostic) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})
	return Result{Root: root, Diagnostics: diags}
}
