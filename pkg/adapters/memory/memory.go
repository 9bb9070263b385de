// Package memory provides in-process implementations of the workspace backing
// store and the core memento. Nothing survives the process.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/codefreeze/pkg/core"
)

// ErrNotFound is returned when a document was never written.
var ErrNotFound = errors.New("document not found")

// Backing stores document content in a map.
type Backing struct {
	mu   sync.RWMutex
	docs map[core.DocumentID]string
}

// NewBacking creates a backing store seeded with docs.
func NewBacking(docs map[core.DocumentID]string) *Backing {
	b := &Backing{docs: make(map[core.DocumentID]string, len(docs))}
	for id, text := range docs {
		b.docs[id] = text
	}
	return b
}

func (b *Backing) Read(ctx context.Context, id core.DocumentID) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	text, ok := b.docs[id]
	if !ok {
		return "", fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return text, nil
}

func (b *Backing) Write(ctx context.Context, id core.DocumentID, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.docs[id] = text
	return nil
}

// Memento is a core.Memento kept in memory.
type Memento struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemento creates an empty memento.
func NewMemento() *Memento {
	return &Memento{values: make(map[string][]byte)}
}

func (m *Memento) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memento) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

var _ core.Memento = (*Memento)(nil)
