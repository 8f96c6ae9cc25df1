package validator

import (
	"fmt"

	"bennypowers.dev/rxls/internal/regexp/ast"
)

// Severity of a finding.
type Severity int

const (
	Error Severity = iota
	Warning
	// WeakWarning marks style findings that are worth a hint, not a warning.
	WeakWarning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case WeakWarning:
		return "weak warning"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Highlight is a rendering hint for editors.
type Highlight int

const (
	HighlightDefault Highlight = iota
	// HighlightUnknownSymbol renders like an unresolved reference.
	HighlightUnknownSymbol
)

// Code identifies the rule that produced a diagnostic.
type Code string

const (
	CodeUnknownInlineFlag         Code = "unknown-inline-flag"
	CodeIllegalRange              Code = "illegal-range"
	CodeRedundantRange            Code = "redundant-range"
	CodeUnsupportedBoundary       Code = "unsupported-boundary"
	CodeIllegalEscape             Code = "illegal-escape"
	CodeDuplicateClassMember      Code = "duplicate-class-member"
	CodeIllegalHex                Code = "illegal-hex"
	CodeIllegalOctal              Code = "illegal-octal"
	CodeIllegalUnicode            Code = "illegal-unicode"
	CodeUnsupportedHexSyntax      Code = "unsupported-hex-syntax"
	CodeUnsupportedProperty       Code = "unsupported-property"
	CodeUnknownCategory           Code = "unknown-category"
	CodeUnknownPropertyName       Code = "unknown-property-name"
	CodeUnknownPropertyValue      Code = "unknown-property-value"
	CodeUnsupportedNamedChar      Code = "unsupported-named-character"
	CodeUnknownCharacterName      Code = "unknown-character-name"
	CodeUnresolvedBackref         Code = "unresolved-backref"
	CodeNestedBackref             Code = "nested-backref"
	CodeUnsupportedNamedRef       Code = "unsupported-named-reference"
	CodeUnresolvedNamedRef        Code = "unresolved-named-reference"
	CodeNestedNamedRef            Code = "nested-named-reference"
	CodeEmptyGroup                Code = "empty-group"
	CodeRedundantGroup            Code = "redundant-group"
	CodeUnsupportedNamedGroup     Code = "unsupported-named-group"
	CodeUnsupportedAtomicGroup    Code = "unsupported-atomic-group"
	CodeInvalidGroupName          Code = "invalid-group-name"
	CodeDuplicateGroupName        Code = "duplicate-group-name"
	CodeUnsupportedLookbehind     Code = "unsupported-lookbehind"
	CodeLookbehindLength          Code = "lookbehind-length"
	CodeSimplifiableQuantifier    Code = "simplifiable-quantifier"
	CodeRepetitionTooLarge        Code = "repetition-too-large"
	CodeIllegalRepetitionRange    Code = "illegal-repetition-range"
	CodeUnsupportedPossessive     Code = "unsupported-possessive"
	CodeDanglingMetacharacter     Code = "dangling-metacharacter"
	CodeUnknownPosixClass         Code = "unknown-posix-class"
	CodeUnsupportedComment        Code = "unsupported-comment"
	CodeUnsupportedConditionalRef Code = "unsupported-conditional-reference"
)

// Fix is a textual replacement that resolves a diagnostic. An empty
// NewText deletes Span.
type Fix struct {
	Title   string
	Span    ast.Range
	NewText string
}

// Diagnostic is one finding, anchored to a byte range of the pattern.
type Diagnostic struct {
	Severity  Severity
	Code      Code
	Message   string
	Span      ast.Range
	Highlight Highlight
	Fix       *Fix
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Span, d.Severity, d.Message)
}

// Sink receives diagnostics as the validator finds them.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Diagnostic)

func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Collector is a Sink that keeps every diagnostic in report order.
type Collector struct {
	diagnostics []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics returns the collected diagnostics, never nil.
func (c *Collector) Diagnostics() []Diagnostic {
	if c.diagnostics == nil {
		return []Diagnostic{}
	}
	return c.diagnostics
}
