package lsp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// normalizePath resolves a configured dialect file entry against the
// workspace root. Entries may be:
//   - absolute paths or globs, returned as-is
//   - home directory paths (~/foo), resolved using $HOME
//   - npm:@scope/package/file.yaml, resolved through node_modules and the
//     package's "exports" map
//   - anything else, relative to workspaceRoot
func normalizePath(path, workspaceRoot string) (string, error) {
	switch {
	case filepath.IsAbs(path):
		return path, nil

	case strings.HasPrefix(path, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot expand %s: %w", path, err)
		}
		return filepath.Join(home, path[2:]), nil

	case strings.HasPrefix(path, "npm:"):
		return resolveNpmPath(strings.TrimPrefix(path, "npm:"), workspaceRoot)
	}
	return filepath.Join(workspaceRoot, strings.TrimPrefix(path, "./")), nil
}

// resolveNpmPath resolves package/file or @scope/package/file to a file in
// the workspace's node_modules. A dialect file is always a file, so the
// subpath is required.
func resolveNpmPath(npmPath, workspaceRoot string) (string, error) {
	parts := strings.Split(npmPath, "/")
	nameParts := 1
	if strings.HasPrefix(npmPath, "@") {
		nameParts = 2
	}
	if npmPath == "" || len(parts) <= nameParts || slices.Contains(parts[:nameParts], "") || parts[0] == "@" {
		return "", fmt.Errorf("invalid npm dialect path %q (expected package/file or @scope/package/file)", npmPath)
	}
	packageName := strings.Join(parts[:nameParts], "/")
	subpath := strings.Join(parts[nameParts:], "/")

	packageDir := filepath.Join(workspaceRoot, "node_modules", filepath.FromSlash(packageName))
	if _, err := os.Stat(packageDir); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("npm package not found: %s (expected at %s)", packageName, packageDir)
		}
		return "", fmt.Errorf("error accessing npm package %s: %w", packageName, err)
	}

	if exports, err := readPackageExports(packageDir); err == nil && exports != nil {
		if resolved, err := resolveExports(packageDir, exports, "./"+subpath); err == nil {
			return resolved, nil
		}
	}

	direct := filepath.Join(packageDir, filepath.FromSlash(subpath))
	if _, err := os.Stat(direct); err != nil {
		return "", fmt.Errorf("failed to resolve npm:%s: file not found", npmPath)
	}
	return direct, nil
}

// readPackageExports returns the "exports" field of a package's package.json.
func readPackageExports(packageDir string) (any, error) {
	data, err := os.ReadFile(filepath.Join(packageDir, "package.json")) //nolint:gosec // G304: package inside workspace node_modules
	if err != nil {
		return nil, err
	}
	var pkg struct {
		Exports any `json:"exports,omitempty"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}
	return pkg.Exports, nil
}

// resolveExports looks up a subpath such as "./dialects/acme.yaml" in an
// exports map. Keys may contain a single "*" wildcard.
func resolveExports(packageDir string, exports any, subpath string) (string, error) {
	exportMap, ok := exports.(map[string]any)
	if !ok {
		return "", fmt.Errorf("exports has no subpath entries")
	}
	if target, ok := exportMap[subpath]; ok {
		return resolveExportTarget(packageDir, target)
	}
	for pattern, target := range exportMap {
		prefix, suffix, found := strings.Cut(pattern, "*")
		if !found || strings.Contains(suffix, "*") {
			continue
		}
		if len(subpath) < len(prefix)+len(suffix) ||
			!strings.HasPrefix(subpath, prefix) || !strings.HasSuffix(subpath, suffix) {
			continue
		}
		matched := subpath[len(prefix) : len(subpath)-len(suffix)]
		if s, ok := target.(string); ok {
			target = strings.Replace(s, "*", matched, 1)
		}
		return resolveExportTarget(packageDir, target)
	}
	return "", fmt.Errorf("no export found for %s", subpath)
}

// resolveExportTarget resolves a string target or the first usable branch
// of a conditional one.
func resolveExportTarget(packageDir string, target any) (string, error) {
	switch t := target.(type) {
	case string:
		resolved := filepath.Join(packageDir, filepath.FromSlash(t))
		if _, err := os.Stat(resolved); err != nil {
			return "", fmt.Errorf("export target not found: %s", t)
		}
		return resolved, nil
	case map[string]any:
		for _, condition := range []string{"default", "require", "import"} {
			if next, ok := t[condition]; ok {
				return resolveExportTarget(packageDir, next)
			}
		}
		return "", fmt.Errorf("no suitable conditional export found")
	}
	return "", fmt.Errorf("unsupported export target type: %T", target)
}
