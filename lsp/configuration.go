package lsp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bennypowers.dev/rxls/internal/log"
	"bennypowers.dev/rxls/lsp/types"
	"gopkg.in/yaml.v3"
)

// GetConfig returns the effective configuration
func (s *Server) GetConfig() types.ServerConfig {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.config
}

// SetConfig replaces the effective configuration. LoadConfig recomputes it
// from its sources.
func (s *Server) SetConfig(config types.ServerConfig) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.config = config
}

// SetClientSettings stores the layer sent by the client. It takes effect on
// the next LoadConfig.
func (s *Server) SetClientSettings(layer types.ConfigLayer) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.client = layer
}

// LoadConfig rebuilds the configuration from defaults, package.json, the
// workspace config file and the client settings, later sources winning. A
// broken source is reported and skipped.
func (s *Server) LoadConfig() error {
	cfg := types.DefaultConfig()
	var errs []error

	if root := s.RootPath(); root != "" {
		if layer, err := ReadPackageJsonConfig(root); err != nil {
			errs = append(errs, err)
		} else if layer != nil {
			cfg = cfg.Apply(*layer)
		}

		if layer, err := ReadConfigFile(root); err != nil {
			errs = append(errs, err)
		} else if layer != nil {
			cfg = cfg.Apply(*layer)
		}
	}

	s.configMu.Lock()
	cfg = cfg.Apply(s.client)
	s.config = cfg
	s.configMu.Unlock()

	if level, err := log.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("logLevel: %w", err))
	} else {
		log.SetLevel(level)
	}

	log.Debug("Configuration loaded: %+v", cfg)
	return errors.Join(errs...)
}

// ReadConfigFile reads the first of .rxls.yaml and .rxls.yml in rootPath.
// Returns nil if neither exists (not an error). Unknown keys are errors.
func ReadConfigFile(rootPath string) (*types.ConfigLayer, error) {
	for _, name := range types.ConfigFileNames {
		if name == "package.json" {
			continue
		}
		path := filepath.Join(rootPath, name)
		data, err := os.ReadFile(path) //nolint:gosec // G304: workspace config file - local trusted environment
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		var layer types.ConfigLayer
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&layer); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		log.Info("Loaded configuration from %s", path)
		return &layer, nil
	}
	return nil, nil
}
