package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/codefreeze/pkg/core"
)

// Buffers is the part of the workspace the watcher drives.
type Buffers interface {
	Document(id core.DocumentID) (core.Document, bool)
	Open(ctx context.Context, id core.DocumentID) (core.Document, error)
	Reload(ctx context.Context, id core.DocumentID) error
}

// Guard answers whether a document is frozen.
type Guard interface {
	IsReadOnly(id core.DocumentID) bool
}

// WatchConfig holds the configuration for the watcher.
type WatchConfig struct {
	// RestoreOnDisk writes the reverted buffer of a read-only document back to
	// disk after an external modification.
	RestoreOnDisk bool
	// OpenCreated opens files created below Root while watching.
	OpenCreated  bool
	Debounce     time.Duration
	Logger       *slog.Logger
	ErrorHandler func(error)
}

// Watcher reloads open buffers when their files change on disk. Combined with
// a core.Service subscribed to the workspace, external edits to read-only
// files are reverted.
type Watcher struct {
	*worker.BaseWorker
	backing   *Backing
	buffers   Buffers
	guard     Guard
	config    WatchConfig
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc

	// syncMu serialises syncs so corrective edits of one do not mask the
	// changes of another.
	syncMu sync.Mutex

	mu            sync.RWMutex
	active        bool
	restored      int
	lastReconcile *time.Time
}

// NewWatcher creates a watcher for the files of backing.
func NewWatcher(backing *Backing, buffers Buffers, guard Guard, cfg WatchConfig) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 50 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		backing:    backing,
		buffers:    buffers,
		guard:      guard,
		config:     cfg,
	}
}

func (w *Watcher) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.BaseWorker.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := w.recursiveAdd(watcher, w.backing.Root); err != nil {
		_ = watcher.Close()
		return err
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(w.config.Debounce)
	w.setActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.reconcile(runCtx)

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *Watcher) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *Watcher) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

func (w *Watcher) recursiveAdd(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // vanished or unreadable; skip
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.backing.Root && w.backing.excludedDir(path) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// reconcile catches up with changes made while nobody was watching: every
// open read-only document whose file differs from its buffer is handled as if
// an event had arrived.
func (w *Watcher) reconcile(ctx context.Context) {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		ids, err := w.backing.Scan(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if w.guard != nil && w.guard.IsReadOnly(id) {
				if _, open := w.buffers.Document(id); open {
					w.sync(ctx, id)
				}
			}
		}
		w.recordReconcile()
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		w.handleError(fmt.Errorf("reconcile failed: %w", err))
	}))
}

// processFilesystemEvent filters and debounces a single fsnotify event.
// Returns true if the event was scheduled.
func (w *Watcher) processFilesystemEvent(ctx context.Context, event fsnotify.Event) (processed bool) {
	w.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.backing.excludedDir(event.Name) {
				if err := w.recursiveAdd(w.watcher, event.Name); err != nil {
					w.handleError(err)
				}
			}
			return false
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if !w.backing.Match(event.Name) {
		return false
	}

	id, err := IDFromPath(event.Name)
	if err != nil {
		w.handleError(fmt.Errorf("failed to resolve ID for %s: %w", event.Name, err))
		return false
	}

	w.debouncer.add(string(id), func() {
		w.sync(ctx, id)
	})
	return true
}

// sync brings the buffer of id in line with the disk and, for read-only
// documents, pushes the reverted buffer back to disk.
func (w *Watcher) sync(ctx context.Context, id core.DocumentID) {
	if ctx.Err() != nil {
		return
	}
	w.syncMu.Lock()
	defer w.syncMu.Unlock()

	if _, open := w.buffers.Document(id); !open {
		if !w.config.OpenCreated {
			return
		}
		if _, err := w.buffers.Open(ctx, id); err != nil {
			w.handleError(err)
		}
		return
	}

	// Reload delivers a change event; a subscribed core.Service reverts the
	// buffer of read-only documents before Reload returns.
	if err := w.buffers.Reload(ctx, id); err != nil {
		w.handleError(err)
		return
	}

	if !w.config.RestoreOnDisk || w.guard == nil || !w.guard.IsReadOnly(id) {
		return
	}

	doc, ok := w.buffers.Document(id)
	if !ok {
		return
	}
	onDisk, err := w.backing.Read(ctx, id)
	if err != nil {
		w.handleError(err)
		return
	}
	if onDisk == doc.Text() {
		return
	}

	// Our own write comes back as an event; the reload above then finds the
	// buffer and the disk equal and stays quiet.
	if err := w.backing.Write(ctx, id, doc.Text()); err != nil {
		w.handleError(fmt.Errorf("failed to restore %s on disk: %w", id, err))
		return
	}
	w.mu.Lock()
	w.restored++
	w.mu.Unlock()
	w.config.Logger.Info("restored read-only file on disk", "id", id)
}

func (w *Watcher) handleError(err error) {
	w.config.Logger.Error("watcher error", "error", err)
	if w.config.ErrorHandler != nil {
		w.config.ErrorHandler(err)
	}
}

// run is the main event loop for the watcher worker.
func (w *Watcher) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)

			// Stack only at debug level.
			if w.config.Logger.Enabled(ctx, slog.LevelDebug) {
				w.config.Logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.config.Logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer w.setActive(false)
	defer w.watcher.Close()

	err = w.mainEventLoop(ctx)

	// Wait for in-flight debounced syncs before the watcher goes away.
	w.debouncer.stopAndWait(5 * time.Second)

	return err
}

func (w *Watcher) mainEventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processFilesystemEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleError(wErr)
		}
	}
}
