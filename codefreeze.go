package codefreeze

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/codefreeze/internal/platform"
	"github.com/aretw0/codefreeze/pkg/core"
)

// --- Types ---

// Service is the read-only guard of a host.
type Service = core.Service

// Host is a filesystem-backed editing host.
type Host = platform.Host

// DocumentID identifies a document (a URI).
type DocumentID = core.DocumentID

// --- Configuration ---

// Option defines a functional option for configuring codefreeze.
type Option = platform.Option

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithMemento injects the persistent key-value store of the read-only list.
func WithMemento(m core.Memento) Option {
	return platform.WithMemento(m)
}

// WithBackend selects a built-in store by name ("file", "sqlite", "memory").
func WithBackend(name, path string) Option {
	return platform.WithBackend(name, path)
}

// WithReporter sets the presentation side.
func WithReporter(r core.Reporter) Option {
	return platform.WithReporter(r)
}

// WithEditor sets the host editor for New.
func WithEditor(e core.Editor) Option {
	return platform.WithEditor(e)
}

// WithStorageKey overrides the key under which the read-only list is stored.
func WithStorageKey(key string) Option {
	return platform.WithStorageKey(key)
}

// WithPatterns restricts which files of a filesystem host are documents.
func WithPatterns(include, exclude []string) Option {
	return platform.WithPatterns(include, exclude)
}

// WithHistory sets the undo depth of workspace buffers.
func WithHistory(n int) Option {
	return platform.WithHistory(n)
}

// WithDebounce sets the quiet period of the filesystem watcher.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// --- Factory ---

// New creates a service guarding the editor given with WithEditor. The
// returned closer releases the store.
func New(opts ...Option) (*core.Service, io.Closer, error) {
	return platform.New(opts...)
}

// Open creates a filesystem host over root.
func Open(root string, opts ...Option) (*platform.Host, error) {
	return platform.Open(root, opts...)
}

// FindRoot looks upwards from startDir for a project root marker.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
