package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/codefreeze/pkg/core"
)

// options holds the internal configuration for a codefreeze service.
type options struct {
	memento    core.Memento
	reporter   core.Reporter
	editor     core.Editor
	logger     *slog.Logger
	storageKey string
	backend    string
	statePath  string
	include    []string
	exclude    []string
	history    int
	debounce   time.Duration
}

// Option defines a functional option for configuring codefreeze.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		backend:    "memory",
		storageKey: core.DefaultStorageKey,
	}
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMemento injects the persistent key-value store. It takes precedence
// over WithBackend.
func WithMemento(m core.Memento) Option {
	return func(o *options) {
		o.memento = m
	}
}

// WithBackend selects a built-in memento by name ("file", "sqlite" or
// "memory") stored at path. Defaults to "memory".
func WithBackend(name, path string) Option {
	return func(o *options) {
		o.backend = name
		o.statePath = path
	}
}

// WithReporter sets the presentation side (status, notifications, warnings).
func WithReporter(r core.Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithEditor sets the host editor for New. Hosts built by Open supply their
// own workspace.
func WithEditor(e core.Editor) Option {
	return func(o *options) {
		o.editor = e
	}
}

// WithStorageKey overrides the memento key of the read-only list.
func WithStorageKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.storageKey = key
		}
	}
}

// WithPatterns restricts the filesystem host to files matching include and
// not matching exclude (doublestar globs relative to the root).
func WithPatterns(include, exclude []string) Option {
	return func(o *options) {
		o.include = include
		o.exclude = exclude
	}
}

// WithHistory sets the undo depth of workspace buffers.
func WithHistory(n int) Option {
	return func(o *options) {
		o.history = n
	}
}

// WithDebounce sets the quiet period of the filesystem watcher.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}
