package documents

import (
	"path/filepath"

	"bennypowers.dev/rxls/internal/uriutil"
	"github.com/bmatcuk/doublestar/v4"
)

// IsPatternFile reports whether uri matches one of the patternFiles globs.
// Relative globs match against the path below rootPath; absolute globs match
// the full path.
func IsPatternFile(rootPath, uri string, globs []string) bool {
	if len(globs) == 0 {
		return false
	}
	rel, inRoot := uriutil.RelativePath(rootPath, uri)
	abs := filepath.ToSlash(uriutil.URIToPath(uri))

	for _, g := range globs {
		g = filepath.ToSlash(g)
		target := rel
		if filepath.IsAbs(filepath.FromSlash(g)) || g[0] == '/' {
			target = abs
		} else if !inRoot {
			continue
		}
		if ok, err := doublestar.Match(g, target); err == nil && ok {
			return true
		}
	}
	return false
}
