package dialect

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"bennypowers.dev/rxls/internal/collections"
	"bennypowers.dev/rxls/internal/regexp/ast"
	"bennypowers.dev/rxls/internal/regexp/parser"
)

// PropertyStyle selects which \p{...} vocabulary a dialect understands.
type PropertyStyle string

const (
	PropertiesNone       PropertyStyle = "none"
	PropertiesJava       PropertyStyle = "java"
	PropertiesPerl       PropertyStyle = "perl"
	PropertiesJavaScript PropertyStyle = "javascript"
	PropertiesRE2        PropertyStyle = "re2"
)

// Descriptor is a data-driven Capabilities implementation.
type Descriptor struct {
	Name        string `yaml:"name"`
	Extends     string `yaml:"extends,omitempty"`
	Description string `yaml:"description,omitempty"`

	InlineFlags   string        `yaml:"inlineFlags"`
	Boundaries    []string      `yaml:"boundaries"`
	SimpleClasses []string      `yaml:"simpleClasses"`
	PropertyStyle PropertyStyle `yaml:"propertyStyle"`

	NamedGroups      []string `yaml:"namedGroups"`
	NamedGroupRefs   []string `yaml:"namedGroupRefs"`
	GroupNamePattern string   `yaml:"groupNamePattern"`

	PossessiveQuantifiers bool       `yaml:"possessiveQuantifiers"`
	Lookbehind            Lookbehind `yaml:"lookbehind"`
	LiteralBackspace      bool       `yaml:"literalBackspace"`
	ExtendedHex           bool       `yaml:"extendedHex"`
	EmbeddedComments      bool       `yaml:"embeddedComments"`
	ConditionalRefs       bool       `yaml:"conditionalRefs"`
	NamedCharacters       bool       `yaml:"namedCharacters"`
	MaxRepetition         int64      `yaml:"maxRepetition"`

	// Syntax configures the parser for this dialect.
	Syntax parser.Options `yaml:"syntax"`

	boundaries    collections.Set[string]
	simpleClasses collections.Set[string]
	namedGroups   collections.Set[string]
	namedRefs     collections.Set[string]
	groupName     *regexp.Regexp
}

var _ Capabilities = (*Descriptor)(nil)

var groupSyntaxNames = map[ast.GroupType]string{
	ast.GroupNamed:       "angle",
	ast.GroupPythonNamed: "python",
	ast.GroupQuotedNamed: "quoted",
}

// prepare validates the decoded fields and builds lookup tables.
func (d *Descriptor) prepare() error {
	if d.Name == "" {
		return fmt.Errorf("dialect has no name")
	}
	var err error
	if d.boundaries, err = nameSet("boundary", d.Boundaries, knownBoundaries); err != nil {
		return err
	}
	if d.simpleClasses, err = nameSet("simple class", d.SimpleClasses, knownSimpleClasses); err != nil {
		return err
	}
	if d.namedGroups, err = nameSet("named group syntax", d.NamedGroups, collections.NewSet("angle", "python", "quoted")); err != nil {
		return err
	}
	if d.namedRefs, err = nameSet("named reference syntax", d.NamedGroupRefs, knownRefSyntaxes); err != nil {
		return err
	}
	switch d.PropertyStyle {
	case "":
		d.PropertyStyle = PropertiesNone
	case PropertiesNone, PropertiesJava, PropertiesPerl, PropertiesJavaScript, PropertiesRE2:
	default:
		return fmt.Errorf("unknown property style %q", d.PropertyStyle)
	}
	d.groupName = nil
	if d.GroupNamePattern != "" {
		if d.groupName, err = regexp.Compile(d.GroupNamePattern); err != nil {
			return fmt.Errorf("groupNamePattern: %w", err)
		}
	}
	if d.MaxRepetition <= 0 {
		d.MaxRepetition = math.MaxInt32
	}
	return nil
}

var (
	knownBoundaries    = collections.NewSet[string]()
	knownSimpleClasses = collections.NewSet[string]()
	knownRefSyntaxes   = collections.NewSet[string]()
)

func init() {
	for k := ast.BoundaryLineStart; k <= ast.BoundaryGrapheme; k++ {
		knownBoundaries.Add(k.String())
	}
	for k := ast.ClassAny; k <= ast.ClassGrapheme; k++ {
		knownSimpleClasses.Add(k.String())
	}
	for s := ast.RefPython; s < ast.RefBare; s++ {
		knownRefSyntaxes.Add(s.String())
	}
}

func nameSet(what string, names []string, known collections.Set[string]) (collections.Set[string], error) {
	s := collections.NewSet[string]()
	for _, n := range names {
		if !known.Has(n) {
			return nil, fmt.Errorf("unknown %s %q", what, n)
		}
		s.Add(n)
	}
	return s, nil
}

// Options returns the parser options for patterns in this dialect.
func (d *Descriptor) Options() parser.Options {
	return d.Syntax
}

func (d *Descriptor) SupportsInlineOptionFlag(flag rune, _ *ast.Options) bool {
	return strings.ContainsRune(d.InlineFlags, flag)
}

func (d *Descriptor) SupportsBoundary(b *ast.Boundary) bool {
	return d.boundaries.Has(b.Boundary.String())
}

func (d *Descriptor) SupportsSimpleClass(c *ast.SimpleClass) bool {
	return d.simpleClasses.Has(c.Class.String())
}

func (d *Descriptor) SupportsPropertySyntax(*ast.Property) bool {
	return d.PropertyStyle != PropertiesNone
}

func (d *Descriptor) IsValidCategory(name string) bool {
	return isValidCategory(d.PropertyStyle, name)
}

func (d *Descriptor) IsValidPropertyName(name string) bool {
	return isValidPropertyName(d.PropertyStyle, name)
}

func (d *Descriptor) IsValidPropertyValue(name, value string) bool {
	return isValidPropertyValue(d.PropertyStyle, name, value)
}

func (d *Descriptor) SupportsNamedCharacters(*ast.NamedChar) bool {
	return d.NamedCharacters
}

func (d *Descriptor) IsValidNamedCharacter(n *ast.NamedChar) bool {
	_, ok := LookupCharacterName(n.Name)
	return ok
}

func (d *Descriptor) SupportsNamedGroupSyntax(g *ast.Group) bool {
	return d.namedGroups.Has(groupSyntaxNames[g.Type])
}

// SupportsNamedGroupRefSyntax never accepts a bare \k.
func (d *Descriptor) SupportsNamedGroupRefSyntax(r *ast.NamedGroupRef) bool {
	return r.Syntax != ast.RefBare && d.namedRefs.Has(r.Syntax.String())
}

func (d *Descriptor) IsValidGroupName(name string, _ *ast.Group) bool {
	if d.groupName == nil {
		return name != ""
	}
	return d.groupName.MatchString(name)
}

func (d *Descriptor) SupportsPossessiveQuantifiers(ast.Node) bool {
	return d.PossessiveQuantifiers
}

func (d *Descriptor) SupportsLookbehind(*ast.Group) Lookbehind {
	return d.Lookbehind
}

func (d *Descriptor) SupportsLiteralBackspace(*ast.Char) bool {
	return d.LiteralBackspace
}

// SupportsExtendedHexCharacter answers for both \x{...} and \u{...}; the
// latter follows the parser's braced unicode switch.
func (d *Descriptor) SupportsExtendedHexCharacter(c *ast.Char) bool {
	if c.Type == ast.CharUnicode {
		return d.Syntax.BracedUnicode
	}
	return d.ExtendedHex
}

func (d *Descriptor) SupportsPerl5EmbeddedComments(*ast.Comment) bool {
	return d.EmbeddedComments
}

func (d *Descriptor) SupportsPythonConditionalRefs(*ast.PyCondRef) bool {
	return d.ConditionalRefs
}

func (d *Descriptor) QuantifierValue(n *ast.Number) (int64, error) {
	v, err := strconv.ParseInt(n.Text(), 10, 64)
	if err != nil || v > d.MaxRepetition {
		return 0, ErrValueTooLarge
	}
	return v, nil
}
