package lsp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"bennypowers.dev/rxls/internal/log"
	"bennypowers.dev/rxls/internal/regexp/dialect"
	"bennypowers.dev/rxls/internal/resolver"
	"github.com/bmatcuk/doublestar/v4"
)

// LoadDialects replaces the workspace dialects with those found through the
// dialectFiles setting. Files are loaded parents first whatever their
// names; files in an extends cycle, or whose parent fails, are reported
// and skipped.
func (s *Server) LoadDialects() error {
	files, errs := s.dialectFilePaths()

	s.dialects.ResetCustom()

	// Nodes are file paths; an edge leads to the file declaring the parent.
	data := make(map[string][]byte, len(files))
	heads := make(map[string]dialect.Header, len(files))
	declaredBy := map[string]string{}
	for _, file := range files {
		content, err := os.ReadFile(file) //nolint:gosec // G304: configured dialect file - local trusted environment
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to read dialect file: %w", err))
			continue
		}
		head, err := dialect.ReadHeader(content)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
			continue
		}
		if head.Name != "" {
			if other, dup := declaredBy[head.Name]; dup {
				errs = append(errs, fmt.Errorf("%s: dialect %q is already defined in %s", file, head.Name, other))
				continue
			}
			declaredBy[head.Name] = file
		}
		data[file] = content
		heads[file] = head
	}

	graph := resolver.NewDependencyGraph()
	for file, head := range heads {
		graph.Add(file, declaredBy[head.Extends])
	}

	var order []string
	for {
		var err error
		order, err = graph.TopologicalSort()
		var cycle *resolver.CircularReferenceError
		if !errors.As(err, &cycle) {
			break
		}
		errs = append(errs, fmt.Errorf("dialect files: %w", err))
		graph.Remove(cycle.Cycle...)
	}

	for _, file := range order {
		d, err := s.dialects.Load(data[file], file)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		log.Info("Loaded dialect %q from %s", d.Name, file)
	}
	return errors.Join(errs...)
}

// dialectFilePaths expands the configured dialect files to existing paths,
// sorted and without duplicates.
func (s *Server) dialectFilePaths() ([]string, []error) {
	cfg := s.GetConfig()
	root := s.RootPath()

	var paths []string
	var errs []error
	for _, entry := range cfg.DialectFiles {
		if root == "" && !filepath.IsAbs(entry) && !strings.HasPrefix(entry, "~/") {
			continue
		}
		resolved, err := normalizePath(entry, root)
		if err != nil {
			errs = append(errs, fmt.Errorf("dialectFiles entry %q: %w", entry, err))
			continue
		}
		matches, err := doublestar.FilepathGlob(resolved, doublestar.WithFilesOnly())
		if err != nil {
			errs = append(errs, fmt.Errorf("dialectFiles entry %q: %w", entry, err))
			continue
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)
	return slices.Compact(paths), errs
}

// dialectPatterns returns the dialectFiles entries as absolute slash-separated
// globs, the form file watchers and IsDialectFile match against.
func (s *Server) dialectPatterns() []string {
	cfg := s.GetConfig()
	root := s.RootPath()

	var patterns []string
	for _, entry := range cfg.DialectFiles {
		resolved, err := normalizePath(entry, root)
		if err != nil {
			continue
		}
		if !filepath.IsAbs(resolved) {
			continue
		}
		patterns = append(patterns, filepath.ToSlash(filepath.Clean(resolved)))
	}
	return patterns
}

// IsDialectFile checks if a file path is matched by the dialectFiles setting
func (s *Server) IsDialectFile(path string) bool {
	ext := filepath.Ext(path)
	if ext != ".yaml" && ext != ".yml" {
		return false
	}
	target := filepath.ToSlash(filepath.Clean(path))
	for _, pattern := range s.dialectPatterns() {
		if ok, err := doublestar.Match(pattern, target); err == nil && ok {
			return true
		}
	}
	return false
}
