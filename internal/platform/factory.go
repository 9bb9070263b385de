package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/codefreeze/pkg/adapters/fs"
	"github.com/aretw0/codefreeze/pkg/adapters/memory"
	"github.com/aretw0/codefreeze/pkg/adapters/sqlite"
	"github.com/aretw0/codefreeze/pkg/core"
	"github.com/aretw0/codefreeze/pkg/workspace"
)

// New creates a core service for an editor supplied with WithEditor.
// Start is left to the caller, once the editor has its documents open.
func New(opts ...Option) (*core.Service, io.Closer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return newService(o)
}

func newService(o *options) (*core.Service, io.Closer, error) {
	memento, closer, err := openMemento(o)
	if err != nil {
		return nil, nil, err
	}

	svc := core.NewService(core.Config{
		Editor:     o.editor,
		Memento:    memento,
		Reporter:   o.reporter,
		Logger:     o.logger,
		StorageKey: o.storageKey,
	})
	return svc, closer, nil
}

// OpenMemento opens a built-in memento by backend name.
func OpenMemento(backend, path string) (core.Memento, io.Closer, error) {
	o := defaultOptions()
	o.backend = backend
	o.statePath = path
	return openMemento(o)
}

func openMemento(o *options) (core.Memento, io.Closer, error) {
	if o.memento != nil {
		return o.memento, nopCloser{}, nil
	}

	switch o.backend {
	case "", "memory":
		return memory.NewMemento(), nopCloser{}, nil
	case "file":
		if o.statePath == "" {
			return nil, nil, fmt.Errorf("file backend requires a state path")
		}
		return fs.NewMemento(o.statePath), nopCloser{}, nil
	case "sqlite":
		if o.statePath == "" {
			return nil, nil, fmt.Errorf("sqlite backend requires a state path")
		}
		if o.statePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(o.statePath), 0755); err != nil {
				return nil, nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
		m, err := sqlite.Open(o.statePath)
		if err != nil {
			return nil, nil, err
		}
		return m, m, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend: %s", o.backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Host is a filesystem-backed editing host: files below Root are documents,
// buffered in a Workspace and guarded by a Service.
type Host struct {
	Backing   *fs.Backing
	Workspace *workspace.Workspace
	Service   *core.Service

	logger   *slog.Logger
	debounce time.Duration
	closer   io.Closer
}

// Open builds a filesystem host for root. Call Load (or open documents
// individually) and then Start.
func Open(root string, opts ...Option) (*Host, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	backing, err := fs.NewBacking(fs.Config{
		Root:    root,
		Include: o.include,
		Exclude: o.exclude,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	wsOpts := []workspace.Option{workspace.WithLogger(logger)}
	if o.history > 0 {
		wsOpts = append(wsOpts, workspace.WithHistory(o.history))
	}
	ws := workspace.New(backing, wsOpts...)

	o.editor = ws
	svc, closer, err := newService(o)
	if err != nil {
		return nil, err
	}
	ws.Subscribe(svc)

	return &Host{
		Backing:   backing,
		Workspace: ws,
		Service:   svc,
		logger:    logger,
		debounce:  o.debounce,
		closer:    closer,
	}, nil
}

// Load opens every document below the root. Files that cannot be read are
// skipped and reported in the joined error.
func (h *Host) Load(ctx context.Context) (int, error) {
	ids, err := h.Backing.Scan(ctx)
	if err != nil {
		return 0, err
	}
	var errs []error
	opened := 0
	for _, id := range ids {
		if _, err := h.Workspace.Open(ctx, id); err != nil {
			errs = append(errs, err)
			continue
		}
		opened++
	}
	h.logger.Debug("documents loaded", "count", opened, "root", h.Backing.Root)
	return opened, errors.Join(errs...)
}

// Start restores the persisted read-only set against the open documents.
func (h *Host) Start(ctx context.Context) core.ReadOnlySet {
	return h.Service.Start(ctx)
}

// Resolve maps a path (absolute or relative to the working directory) to a
// document ID, opening the document. A read-only document whose file is gone
// still resolves, so that it can be unlocked.
func (h *Host) Resolve(ctx context.Context, path string) (core.DocumentID, error) {
	id, err := fs.IDFromPath(path)
	if err != nil {
		return "", err
	}
	if _, err := h.Workspace.Open(ctx, id); err != nil {
		if errors.Is(err, iofs.ErrNotExist) && h.Service.IsReadOnly(id) {
			h.logger.Debug("resolved missing read-only document", "id", id)
			return id, nil
		}
		return "", err
	}
	return id, nil
}

// Watcher creates a filesystem watcher feeding this host.
func (h *Host) Watcher(restoreOnDisk bool, onError func(error)) *fs.Watcher {
	return fs.NewWatcher(h.Backing, h.Workspace, h.Service, fs.WatchConfig{
		RestoreOnDisk: restoreOnDisk,
		OpenCreated:   true,
		Debounce:      h.debounce,
		Logger:        h.logger,
		ErrorHandler:  onError,
	})
}

// Close releases the memento.
func (h *Host) Close() error {
	return h.closer.Close()
}
