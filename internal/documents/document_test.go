package documents_test

import (
	"testing"

	"bennypowers.dev/rxls/internal/documents"
	"bennypowers.dev/rxls/internal/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument(t *testing.T) {
	doc := documents.NewDocument("file:///a.js", "javascript", 1, "const r = /a+/;")
	assert.Equal(t, "file:///a.js", doc.URI())
	assert.Equal(t, "javascript", doc.LanguageID())

	content, version := doc.Snapshot()
	assert.Equal(t, "const r = /a+/;", content)
	assert.Equal(t, 1, version)
}

func TestDocument_SetContent(t *testing.T) {
	t.Run("newer and same version", func(t *testing.T) {
		doc := documents.NewDocument("file:///a.js", "javascript", 1, "a")
		require.NoError(t, doc.SetContent("b", 1))
		require.NoError(t, doc.SetContent("c", 2))
		assert.Equal(t, "c", doc.Content())
		assert.Equal(t, 2, doc.Version())
	})

	t.Run("stale version", func(t *testing.T) {
		doc := documents.NewDocument("file:///a.js", "javascript", 5, "original")
		err := doc.SetContent("stale", 3)
		require.ErrorIs(t, err, documents.ErrStaleVersion)
		assert.Contains(t, err.Error(), "version 5")
		assert.Equal(t, "original", doc.Content())
	})
}

func TestDocument_Indexed(t *testing.T) {
	doc := documents.NewDocument("file:///a.regexp", "regexp", 1, "a+\nb*")
	content, ix := doc.Indexed()
	assert.Equal(t, "a+\nb*", content)
	_, again := doc.Indexed()
	assert.Same(t, ix, again)
	assert.Equal(t, position.Position{Line: 1, Character: 1}, ix.Position(4))

	require.NoError(t, doc.SetContent("x", 2))
	content, fresh := doc.Indexed()
	assert.Equal(t, "x", content)
	assert.NotSame(t, ix, fresh)
	assert.Equal(t, 1, fresh.LineCount())
}
