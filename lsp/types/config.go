package types

import (
	"maps"
	"slices"

	"bennypowers.dev/rxls/internal/parser"
)

// ServerConfig represents the server configuration
type ServerConfig struct {
	// DefaultDialect is used for pattern documents and for languages
	// without an entry in Dialects
	DefaultDialect string `json:"defaultDialect" yaml:"defaultDialect"`

	// Dialects maps a language id to a dialect name, e.g. {"typescript": "javascript-unicode"}
	Dialects map[string]string `json:"dialects" yaml:"dialects"`

	// PatternFiles are globs, relative to the workspace root, of files read
	// as one pattern per line
	PatternFiles []string `json:"patternFiles" yaml:"patternFiles"`

	// DialectFiles are globs of custom dialect descriptors to load
	DialectFiles []string `json:"dialectFiles" yaml:"dialectFiles"`

	// Ignore lists diagnostic codes that are never reported
	Ignore []string `json:"ignore" yaml:"ignore"`

	// DisableWeakWarnings drops style findings such as redundant quantifiers
	DisableWeakWarnings bool `json:"disableWeakWarnings" yaml:"disableWeakWarnings"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `json:"logLevel" yaml:"logLevel"`
}

// DefaultConfig returns the default server configuration
func DefaultConfig() ServerConfig {
	return ServerConfig{
		DefaultDialect: "java",
		Dialects:       map[string]string{},
		PatternFiles:   []string{"**/*.regexp"},
		DialectFiles:   []string{".rxls/dialects/*.yaml", ".rxls/dialects/*.yml"},
		Ignore:         []string{},
		LogLevel:       "info",
	}
}

// ConfigFileNames are the workspace-root files configuration is read from,
// in increasing precedence. package.json carries its settings under the
// "regexpLanguageServer" key.
var ConfigFileNames = []string{"package.json", ".rxls.yaml", ".rxls.yml"}

// ConfigLayer is one configuration source. Nil fields leave the value
// beneath them untouched.
type ConfigLayer struct {
	DefaultDialect      *string           `json:"defaultDialect,omitempty" yaml:"defaultDialect,omitempty"`
	Dialects            map[string]string `json:"dialects,omitempty" yaml:"dialects,omitempty"`
	PatternFiles        []string          `json:"patternFiles,omitempty" yaml:"patternFiles,omitempty"`
	DialectFiles        []string          `json:"dialectFiles,omitempty" yaml:"dialectFiles,omitempty"`
	Ignore              []string          `json:"ignore,omitempty" yaml:"ignore,omitempty"`
	DisableWeakWarnings *bool             `json:"disableWeakWarnings,omitempty" yaml:"disableWeakWarnings,omitempty"`
	LogLevel            *string           `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
}

// IsZero reports whether the layer sets nothing.
func (l ConfigLayer) IsZero() bool {
	return l.DefaultDialect == nil && l.Dialects == nil && l.PatternFiles == nil &&
		l.DialectFiles == nil && l.Ignore == nil && l.DisableWeakWarnings == nil && l.LogLevel == nil
}

// Apply returns c with the fields set in l replaced. Dialects merge per
// language id; lists replace.
func (c ServerConfig) Apply(l ConfigLayer) ServerConfig {
	out := c.Clone()
	if l.DefaultDialect != nil {
		out.DefaultDialect = *l.DefaultDialect
	}
	if l.Dialects != nil {
		maps.Copy(out.Dialects, l.Dialects)
	}
	if l.PatternFiles != nil {
		out.PatternFiles = slices.Clone(l.PatternFiles)
	}
	if l.DialectFiles != nil {
		out.DialectFiles = slices.Clone(l.DialectFiles)
	}
	if l.Ignore != nil {
		out.Ignore = slices.Clone(l.Ignore)
	}
	if l.DisableWeakWarnings != nil {
		out.DisableWeakWarnings = *l.DisableWeakWarnings
	}
	if l.LogLevel != nil {
		out.LogLevel = *l.LogLevel
	}
	return out
}

// Clone deep-copies the map and slices.
func (c ServerConfig) Clone() ServerConfig {
	out := c
	out.Dialects = maps.Clone(c.Dialects)
	if out.Dialects == nil {
		out.Dialects = map[string]string{}
	}
	out.PatternFiles = slices.Clone(c.PatternFiles)
	out.DialectFiles = slices.Clone(c.DialectFiles)
	out.Ignore = slices.Clone(c.Ignore)
	return out
}

// DialectFor returns the dialect configured for a language id, or the
// default.
func (c ServerConfig) DialectFor(languageID string) string {
	if d, ok := c.Dialects[languageID]; ok && d != "" {
		return d
	}
	return c.DefaultDialect
}

// IsIgnored reports whether diagnostics with code are suppressed.
func (c ServerConfig) IsIgnored(code string) bool {
	return slices.Contains(c.Ignore, code)
}

// ExtractConfig is the view of the configuration that pattern extraction
// needs.
func (c ServerConfig) ExtractConfig(rootPath string) parser.Config {
	return parser.Config{
		DefaultDialect: c.DefaultDialect,
		Dialects:       c.Dialects,
		PatternFiles:   c.PatternFiles,
		RootPath:       rootPath,
	}
}
