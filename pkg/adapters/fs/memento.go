package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/codefreeze/pkg/core"
)

// mementoFile is the on-disk layout of the memento.
type mementoFile struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values"`
}

// Memento is a core.Memento persisted as a single JSON file.
//
// The file is re-read on every access so that several processes (the CLI and
// a running watcher) observe each other's writes. Writes are atomic
// (temp file + rename).
type Memento struct {
	Path string
	mu   sync.Mutex
}

// NewMemento creates a memento stored at path. Parent directories are created
// on first write.
func NewMemento(path string) *Memento {
	return &Memento{Path: path}
}

// load reads the file. If missing or corrupt, it returns an empty layout (no error).
func (m *Memento) load() (*mementoFile, error) {
	f := &mementoFile{Version: 1, Values: make(map[string]string)}

	data, err := os.ReadFile(m.Path)
	if os.IsNotExist(err) {
		return f, nil // Start fresh
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read memento: %w", err)
	}

	if err := json.Unmarshal(data, f); err != nil || f.Values == nil {
		// Treat corruption as empty to self-heal.
		return &mementoFile{Version: 1, Values: make(map[string]string)}, nil
	}
	return f, nil
}

// Get implements core.Memento.
func (m *Memento) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := m.load()
	if err != nil {
		return nil, false, err
	}
	v, ok := f.Values[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

// Set implements core.Memento.
func (m *Memento) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := m.load()
	if err != nil {
		return err
	}
	f.Values[key] = string(value)

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(m.Path), 0755); err != nil {
		return fmt.Errorf("failed to create memento directory: %w", err)
	}
	return writeFileAtomic(m.Path, data, 0644)
}

var _ core.Memento = (*Memento)(nil)
