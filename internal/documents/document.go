package documents

import (
	"fmt"
	"sync"

	"bennypowers.dev/rxls/internal/position"
)

// Document is an open text document. Reads are safe while the manager applies
// edits.
type Document struct {
	uri        string
	languageID string

	mu      sync.RWMutex
	content string
	version int
	index   *position.LineIndex
}

// NewDocument creates a new document
func NewDocument(uri, languageID string, version int, content string) *Document {
	return &Document{
		uri:        uri,
		languageID: languageID,
		version:    version,
		content:    content,
	}
}

func (d *Document) URI() string        { return d.uri }
func (d *Document) LanguageID() string { return d.languageID }

// Version returns the document's version
func (d *Document) Version() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// Content returns the document's current content
func (d *Document) Content() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.content
}

// Snapshot returns content and version read together.
func (d *Document) Snapshot() (content string, version int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.content, d.version
}

// Indexed returns the content with its position index, building the index
// on first use after each edit.
func (d *Document) Indexed() (content string, ix *position.LineIndex) {
	d.mu.RLock()
	content, ix = d.content, d.index
	d.mu.RUnlock()
	if ix != nil {
		return content, ix
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.index == nil {
		d.index = position.NewLineIndex(d.content)
	}
	return d.content, d.index
}

// SetContent replaces the content. Updates older than the current version
// are rejected.
func (d *Document) SetContent(content string, version int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if version < d.version {
		return fmt.Errorf("%w: document is at version %d, update is %d", ErrStaleVersion, d.version, version)
	}
	d.content = content
	d.version = version
	d.index = nil
	return nil
}
