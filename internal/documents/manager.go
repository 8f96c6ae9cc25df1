// Package documents tracks the text of documents the client has open.
package documents

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"bennypowers.dev/rxls/internal/position"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrStaleVersion = errors.New("rejected stale update")
)

// Manager manages text documents for the language server
type Manager struct {
	documents map[string]*Document
	mu        sync.RWMutex
}

// NewManager creates a new document manager
func NewManager() *Manager {
	return &Manager{
		documents: make(map[string]*Document),
	}
}

// Get retrieves a document by URI
func (m *Manager) Get(uri string) *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documents[uri]
}

// GetAll returns all managed documents
func (m *Manager) GetAll() []*Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]*Document, 0, len(m.documents))
	for _, doc := range m.documents {
		docs = append(docs, doc)
	}
	return docs
}

// DidOpen starts tracking a document, replacing any previous copy.
func (m *Manager) DidOpen(uri, languageID string, version int, content string) *Document {
	doc := NewDocument(uri, languageID, version, content)
	m.mu.Lock()
	m.documents[uri] = doc
	m.mu.Unlock()
	return doc
}

// DidClose stops tracking a document.
func (m *Manager) DidClose(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.documents[uri]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, uri)
	}
	delete(m.documents, uri)
	return nil
}

// DidChange applies content changes in order. A change without a range
// replaces the whole text.
func (m *Manager) DidChange(uri string, version int, changes []protocol.TextDocumentContentChangeEvent) error {
	doc := m.Get(uri)
	if doc == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, uri)
	}

	content := doc.Content()
	for i, change := range changes {
		if change.Range == nil {
			content = change.Text
			continue
		}
		next, err := applyEdit(content, *change.Range, change.Text)
		if err != nil {
			return fmt.Errorf("change %d: %w", i, err)
		}
		content = next
	}

	if err := doc.SetContent(content, version); err != nil {
		return fmt.Errorf("failed to update %s: %w", uri, err)
	}
	return nil
}

// applyEdit replaces the UTF-16 range r of content with text. A position
// one line past the end is accepted as end of file.
func applyEdit(content string, r protocol.Range, text string) (string, error) {
	ix := position.NewLineIndex(content)
	lines := uint32(ix.LineCount()) //nolint:gosec // G115: line count is bounded by the document size
	if r.Start.Line > lines || r.End.Line > lines {
		return "", fmt.Errorf("range %d:%d-%d:%d outside document of %d lines",
			r.Start.Line, r.Start.Character, r.End.Line, r.End.Character, lines)
	}

	start := ix.Offset(position.Position{Line: r.Start.Line, Character: r.Start.Character})
	end := ix.Offset(position.Position{Line: r.End.Line, Character: r.End.Character})
	if end < start {
		return "", fmt.Errorf("range end %d:%d precedes start %d:%d",
			r.End.Line, r.End.Character, r.Start.Line, r.Start.Character)
	}

	var b strings.Builder
	b.Grow(len(content) - (end - start) + len(text))
	b.WriteString(content[:start])
	b.WriteString(text)
	b.WriteString(content[end:])
	return b.String(), nil
}
