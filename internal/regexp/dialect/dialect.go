// Package dialect answers what a regular expression flavor supports.
//
// The validator asks every dialect-specific question through Capabilities.
// Descriptor implements it from YAML data; the built-in flavors are
// embedded and workspaces may add their own.
package dialect

import (
	"errors"
	"fmt"

	"bennypowers.dev/rxls/internal/regexp/ast"
	"gopkg.in/yaml.v3"
)

var (
	// ErrValueTooLarge is returned by QuantifierValue for bounds the dialect
	// cannot represent.
	ErrValueTooLarge = errors.New("repetition value too large")
	// ErrUnknownDialect is returned when a dialect name is not registered.
	ErrUnknownDialect = errors.New("unknown dialect")
)

// Lookbehind classifies what a dialect allows inside lookbehind groups.
type Lookbehind int

const (
	// NotSupported rejects lookbehind groups altogether.
	NotSupported Lookbehind = iota
	// Full allows any pattern.
	Full
	// FixedLengthAlternation allows alternatives of one common fixed length.
	FixedLengthAlternation
	// FiniteRepetition allows bounded repetition such as ? and {1,3}.
	FiniteRepetition
)

var lookbehindNames = map[Lookbehind]string{
	NotSupported:           "notSupported",
	Full:                   "full",
	FixedLengthAlternation: "fixedLengthAlternation",
	FiniteRepetition:       "finiteRepetition",
}

func (l Lookbehind) String() string {
	if s, ok := lookbehindNames[l]; ok {
		return s
	}
	return fmt.Sprintf("Lookbehind(%d)", int(l))
}

// UnmarshalYAML reads a lookbehind class by name.
func (l *Lookbehind) UnmarshalYAML(value *yaml.Node) error {
	for k, name := range lookbehindNames {
		if value.Value == name {
			*l = k
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown lookbehind support %q", value.Line, value.Value)
}

// Capabilities is the query surface the validator consults. Implementations
// must be safe for concurrent reads.
type Capabilities interface {
	SupportsInlineOptionFlag(flag rune, opts *ast.Options) bool
	SupportsBoundary(b *ast.Boundary) bool
	SupportsSimpleClass(c *ast.SimpleClass) bool
	SupportsPropertySyntax(p *ast.Property) bool
	IsValidCategory(name string) bool
	IsValidPropertyName(name string) bool
	IsValidPropertyValue(name, value string) bool
	SupportsNamedCharacters(n *ast.NamedChar) bool
	IsValidNamedCharacter(n *ast.NamedChar) bool
	SupportsNamedGroupSyntax(g *ast.Group) bool
	SupportsNamedGroupRefSyntax(r *ast.NamedGroupRef) bool
	IsValidGroupName(name string, g *ast.Group) bool
	SupportsPossessiveQuantifiers(n ast.Node) bool
	SupportsLookbehind(g *ast.Group) Lookbehind
	SupportsLiteralBackspace(c *ast.Char) bool
	SupportsExtendedHexCharacter(c *ast.Char) bool
	SupportsPerl5EmbeddedComments(c *ast.Comment) bool
	SupportsPythonConditionalRefs(r *ast.PyCondRef) bool
	// QuantifierValue returns the numeric value of a repetition bound, or
	// ErrValueTooLarge.
	QuantifierValue(n *ast.Number) (int64, error)
}
