package lsp

import (
	"path/filepath"
	"testing"

	"bennypowers.dev/rxls/internal/log"
	"bennypowers.dev/rxls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keepLogLevel(t *testing.T) {
	t.Helper()
	level := log.GetLevel()
	t.Cleanup(func() { log.SetLevel(level) })
}

func ptr[T any](v T) *T { return &v }

func TestLoadConfig_Defaults(t *testing.T) {
	keepLogLevel(t)
	s := newTestServer(t)
	s.SetRootPath(t.TempDir())

	require.NoError(t, s.LoadConfig())
	assert.Equal(t, types.DefaultConfig(), s.GetConfig())
}

func TestLoadConfig_Layers(t *testing.T) {
	keepLogLevel(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{
		// comments are allowed
		"name": "app",
		"regexpLanguageServer": {
			"defaultDialect": "python",
			"dialects": {"typescript": "javascript-unicode"},
			"ignore": ["illegal-range"],
		}
	}`)
	writeFile(t, filepath.Join(root, ".rxls.yaml"), "defaultDialect: pcre\ndisableWeakWarnings: true\nlogLevel: debug\n")

	s := newTestServer(t)
	s.SetRootPath(root)
	s.SetClientSettings(types.ConfigLayer{
		Dialects: map[string]string{"html": "javascript"},
		Ignore:   []string{},
	})

	require.NoError(t, s.LoadConfig())
	cfg := s.GetConfig()
	assert.Equal(t, "pcre", cfg.DefaultDialect)
	assert.Equal(t, map[string]string{"typescript": "javascript-unicode", "html": "javascript"}, cfg.Dialects)
	assert.Empty(t, cfg.Ignore)
	assert.True(t, cfg.DisableWeakWarnings)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, log.LevelDebug, log.GetLevel())
}

func TestLoadConfig_BrokenSourcesAreSkipped(t *testing.T) {
	keepLogLevel(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"regexpLanguageServer": "python"}`)
	writeFile(t, filepath.Join(root, ".rxls.yaml"), "defaultDialect: re2\n")

	s := newTestServer(t)
	s.SetRootPath(root)
	s.SetClientSettings(types.ConfigLayer{LogLevel: ptr("chatty")})

	err := s.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be an object")
	assert.Contains(t, err.Error(), "unknown log level")
	assert.Equal(t, "re2", s.GetConfig().DefaultDialect)
}

func TestLoadConfig_NoRoot(t *testing.T) {
	keepLogLevel(t)
	s := newTestServer(t)
	s.SetClientSettings(types.ConfigLayer{DefaultDialect: ptr("javascript")})

	require.NoError(t, s.LoadConfig())
	assert.Equal(t, "javascript", s.GetConfig().DefaultDialect)
}

func TestReadConfigFile(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		layer, err := ReadConfigFile(t.TempDir())
		require.NoError(t, err)
		assert.Nil(t, layer)
	})

	t.Run("yml", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, ".rxls.yml"), "patternFiles:\n  - \"*.re\"\n")
		layer, err := ReadConfigFile(root)
		require.NoError(t, err)
		require.NotNil(t, layer)
		assert.Equal(t, []string{"*.re"}, layer.PatternFiles)
	})

	t.Run("yaml wins over yml", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, ".rxls.yaml"), "defaultDialect: python\n")
		writeFile(t, filepath.Join(root, ".rxls.yml"), "defaultDialect: re2\n")
		layer, err := ReadConfigFile(root)
		require.NoError(t, err)
		require.NotNil(t, layer)
		assert.Equal(t, "python", *layer.DefaultDialect)
	})

	t.Run("empty", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, ".rxls.yaml"), "")
		layer, err := ReadConfigFile(root)
		require.NoError(t, err)
		require.NotNil(t, layer)
		assert.True(t, layer.IsZero())
	})

	t.Run("unknown key", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, ".rxls.yaml"), "defaultDialekt: python\n")
		_, err := ReadConfigFile(root)
		assert.ErrorContains(t, err, "failed to parse .rxls.yaml")
	})
}

func TestReadPackageJsonConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string // empty means no package.json
		want    *types.ConfigLayer
		wantErr string
	}{
		{name: "no package.json"},
		{name: "no section", content: `{"name": "app"}`},
		{
			name:    "section",
			content: `{"regexpLanguageServer": {"patternFiles": ["**/*.re"], "disableWeakWarnings": false}}`,
			want:    &types.ConfigLayer{PatternFiles: []string{"**/*.re"}, DisableWeakWarnings: ptr(false)},
		},
		{name: "not an object", content: `{"regexpLanguageServer": []}`, wantErr: "must be an object"},
		{name: "invalid", content: `{"name": `, wantErr: "failed to parse package.json"},
		{name: "wrong field type", content: `{"regexpLanguageServer": {"ignore": "syntax"}}`, wantErr: "package.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			if tt.content != "" {
				writeFile(t, filepath.Join(root, "package.json"), tt.content)
			}
			layer, err := ReadPackageJsonConfig(root)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, layer)
		})
	}

	t.Run("empty root", func(t *testing.T) {
		layer, err := ReadPackageJsonConfig("")
		require.NoError(t, err)
		assert.Nil(t, layer)
	})
}
