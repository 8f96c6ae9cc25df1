package lsp

import (
	"path/filepath"
	"testing"

	"bennypowers.dev/rxls/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDialects(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".rxls", "dialects")
	// a-strict extends b-legacy, which sorts after it
	writeFile(t, filepath.Join(dir, "a-strict.yaml"), "name: strict-legacy\nextends: legacy-java\nlookbehind: notSupported\n")
	writeFile(t, filepath.Join(dir, "b-legacy.yml"), "name: legacy-java\nextends: java\npossessiveQuantifiers: false\n")

	s := newTestServer(t)
	s.SetRootPath(root)

	require.NoError(t, s.LoadDialects())
	assert.Contains(t, s.Dialects().Names(), "strict-legacy")
	assert.Contains(t, s.Dialects().Names(), "legacy-java")

	source, ok := s.Dialects().Source("strict-legacy")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "a-strict.yaml"), source)

	d, err := s.Dialects().Get("strict-legacy")
	require.NoError(t, err)
	assert.False(t, d.PossessiveQuantifiers)
}

func TestLoadDialects_Reload(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ".rxls", "dialects", "custom.yaml")
	writeFile(t, path, "name: first\nextends: java\n")

	s := newTestServer(t)
	s.SetRootPath(root)
	require.NoError(t, s.LoadDialects())
	assert.Contains(t, s.Dialects().Names(), "first")

	writeFile(t, path, "name: second\nextends: java\n")
	require.NoError(t, s.LoadDialects())
	assert.Contains(t, s.Dialects().Names(), "second")
	assert.NotContains(t, s.Dialects().Names(), "first")
}

func TestLoadDialects_Errors(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".rxls", "dialects")
	writeFile(t, filepath.Join(dir, "good.yaml"), "name: good\nextends: re2\n")
	writeFile(t, filepath.Join(dir, "orphan.yaml"), "name: orphan\nextends: missing\n")
	writeFile(t, filepath.Join(dir, "builtin.yaml"), "name: java\n")

	s := newTestServer(t)
	s.SetRootPath(root)

	err := s.LoadDialects()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orphan.yaml")
	assert.Contains(t, err.Error(), "cannot be redefined")
	assert.Contains(t, s.Dialects().Names(), "good")
	assert.NotContains(t, s.Dialects().Names(), "orphan")
}

func TestLoadDialects_Cycle(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".rxls", "dialects")
	writeFile(t, filepath.Join(dir, "ping.yaml"), "name: ping\nextends: pong\n")
	writeFile(t, filepath.Join(dir, "pong.yaml"), "name: pong\nextends: ping\n")
	writeFile(t, filepath.Join(dir, "child.yaml"), "name: child\nextends: ping\n")
	writeFile(t, filepath.Join(dir, "fine.yaml"), "name: fine\nextends: python\n")

	s := newTestServer(t)
	s.SetRootPath(root)

	err := s.LoadDialects()
	require.ErrorIs(t, err, resolver.ErrCircularReference)
	assert.Contains(t, err.Error(), "unknown dialect")
	names := s.Dialects().Names()
	assert.Contains(t, names, "fine")
	assert.NotContains(t, names, "ping")
	assert.NotContains(t, names, "pong")
	assert.NotContains(t, names, "child")
}

func TestLoadDialects_DuplicateName(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".rxls", "dialects")
	writeFile(t, filepath.Join(dir, "a.yaml"), "name: mine\nextends: java\n")
	writeFile(t, filepath.Join(dir, "b.yaml"), "name: mine\nextends: re2\n")

	s := newTestServer(t)
	s.SetRootPath(root)

	err := s.LoadDialects()
	assert.ErrorContains(t, err, "already defined")
	source, ok := s.Dialects().Source("mine")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "a.yaml"), source)
}

func TestLoadDialects_NoRoot(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.LoadDialects())
	assert.ElementsMatch(t,
		[]string{"java", "javascript", "javascript-unicode", "pcre", "python", "re2"},
		s.Dialects().Names())
}

func TestIsDialectFile(t *testing.T) {
	root := t.TempDir()
	s := newTestServer(t)
	s.SetRootPath(root)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"yaml in dialect dir", filepath.Join(root, ".rxls", "dialects", "x.yaml"), true},
		{"yml in dialect dir", filepath.Join(root, ".rxls", "dialects", "x.yml"), true},
		{"nested deeper", filepath.Join(root, ".rxls", "dialects", "sub", "x.yaml"), false},
		{"other dir", filepath.Join(root, "dialects", "x.yaml"), false},
		{"wrong extension", filepath.Join(root, ".rxls", "dialects", "x.json"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsDialectFile(tt.path))
		})
	}
}
