package lsp

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"bennypowers.dev/rxls/lsp/types"
	"github.com/tidwall/jsonc"
)

// PackageJsonKey is the package.json field holding server configuration.
const PackageJsonKey = "regexpLanguageServer"

// readPackageJsonFile reads and parses package.json from the given root path.
// Returns the parsed JSON as a map, or nil if the file doesn't exist.
func readPackageJsonFile(rootPath string) (map[string]any, error) {
	data, err := os.ReadFile(filepath.Join(rootPath, "package.json")) //nolint:gosec // G304: Reading workspace package.json - local trusted environment
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil // Not an error, just no config
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}

	// Parse as JSONC (allows comments)
	var pkgJSON map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkgJSON); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}
	return pkgJSON, nil
}

// ReadPackageJsonConfig reads the regexpLanguageServer block from package.json.
// Returns nil if there is no package.json or no block (not an error).
func ReadPackageJsonConfig(rootPath string) (*types.ConfigLayer, error) {
	if rootPath == "" {
		return nil, nil
	}

	pkgJSON, err := readPackageJsonFile(rootPath)
	if err != nil || pkgJSON == nil {
		return nil, err
	}

	section, ok := pkgJSON[PackageJsonKey]
	if !ok {
		return nil, nil
	}
	if _, isMap := section.(map[string]any); !isMap {
		return nil, fmt.Errorf("package.json: %s must be an object", PackageJsonKey)
	}

	layer, err := types.ParseSettings(section)
	if err != nil {
		return nil, fmt.Errorf("package.json: %w", err)
	}
	return &layer, nil
}
