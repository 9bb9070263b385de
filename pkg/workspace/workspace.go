// Package workspace manages open document buffers on top of a backing store
// and delivers open/change/save notifications to core listeners.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/codefreeze/pkg/core"
)

// Backing is where document content lives between sessions (disk, memory, ...).
type Backing interface {
	Read(ctx context.Context, id core.DocumentID) (string, error)
	Write(ctx context.Context, id core.DocumentID, text string) error
}

// DefaultHistory is the number of undo steps kept per buffer.
const DefaultHistory = 100

type buffer struct {
	text    string
	saved   string // content last read from or written to the backing store
	history []string
}

func (b *buffer) dirty() bool { return b.text != b.saved }

type document struct {
	id   core.DocumentID
	text string
}

func (d document) ID() core.DocumentID { return d.id }
func (d document) Text() string        { return d.text }

// Workspace implements core.Editor over a set of open buffers.
//
// Listeners are called outside the workspace lock, so a listener may call
// back into the workspace (e.g. Replace from within DidChange).
type Workspace struct {
	mu         sync.RWMutex
	backing    Backing
	buffers    map[core.DocumentID]*buffer
	listeners  []core.Listener
	logger     *slog.Logger
	maxHistory int
	now        func() time.Time
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger for the workspace.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workspace) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithHistory sets how many undo steps are kept per buffer.
func WithHistory(n int) Option {
	return func(w *Workspace) {
		if n > 0 {
			w.maxHistory = n
		}
	}
}

// New creates an empty workspace over backing.
func New(backing Backing, opts ...Option) *Workspace {
	w := &Workspace{
		backing:    backing,
		buffers:    make(map[core.DocumentID]*buffer),
		logger:     slog.New(slog.DiscardHandler),
		maxHistory: DefaultHistory,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Subscribe registers a listener for open/change/save notifications.
func (w *Workspace) Subscribe(l core.Listener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, l)
}

// Open loads id from the backing store into a buffer. Opening an open
// document returns the existing buffer.
func (w *Workspace) Open(ctx context.Context, id core.DocumentID) (core.Document, error) {
	if id == "" {
		return nil, core.ErrEmptyID
	}
	if doc, ok := w.Document(id); ok {
		return doc, nil
	}

	text, err := w.backing.Read(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", id, err)
	}

	w.mu.Lock()
	if _, ok := w.buffers[id]; !ok {
		w.buffers[id] = &buffer{text: text, saved: text}
	}
	text = w.buffers[id].text
	w.mu.Unlock()

	w.logger.Debug("document opened", "id", id)
	for _, l := range w.snapshotListeners() {
		l.DidOpen(ctx, id)
	}
	return document{id: id, text: text}, nil
}

// Close drops the buffer of id, discarding unsaved changes.
func (w *Workspace) Close(id core.DocumentID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.buffers, id)
}

// Document implements core.Editor.
func (w *Workspace) Document(id core.DocumentID) (core.Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, ok := w.buffers[id]
	if !ok {
		return nil, false
	}
	return document{id: id, text: b.text}, true
}

// Documents implements core.Editor. The result is sorted by ID.
func (w *Workspace) Documents() []core.Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	docs := make([]core.Document, 0, len(w.buffers))
	for id, b := range w.buffers {
		docs = append(docs, document{id: id, text: b.text})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID() < docs[j].ID() })
	return docs
}

// Dirty reports whether id has unsaved changes.
func (w *Workspace) Dirty(id core.DocumentID) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, ok := w.buffers[id]
	return ok && b.dirty()
}

// Edit applies a user edit to the buffer.
func (w *Workspace) Edit(ctx context.Context, id core.DocumentID, text string) error {
	return w.apply(ctx, id, text, false)
}

// Replace implements core.Editor. Replacing the buffer with the content it
// had before the last step drops that step from the history instead of
// recording a new one, so a reverted edit cannot be brought back by Undo.
func (w *Workspace) Replace(ctx context.Context, id core.DocumentID, text string) error {
	return w.apply(ctx, id, text, true)
}

func (w *Workspace) apply(ctx context.Context, id core.DocumentID, text string, revert bool) error {
	w.mu.Lock()
	b, ok := w.buffers[id]
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("%s: %w", id, core.ErrDocumentNotOpen)
	}
	changed := b.text != text
	switch {
	case !changed:
	case revert && len(b.history) > 0 && b.history[len(b.history)-1] == text:
		b.history = b.history[:len(b.history)-1]
		b.text = text
	default:
		b.history = append(b.history, b.text)
		if len(b.history) > w.maxHistory {
			b.history = b.history[len(b.history)-w.maxHistory:]
		}
		b.text = text
	}
	w.mu.Unlock()

	w.didChange(ctx, id, changed)
	return nil
}

// Undo implements core.Editor.
func (w *Workspace) Undo(ctx context.Context, id core.DocumentID) error {
	w.mu.Lock()
	b, ok := w.buffers[id]
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("%s: %w", id, core.ErrDocumentNotOpen)
	}
	if len(b.history) == 0 {
		w.mu.Unlock()
		return fmt.Errorf("nothing to undo in %s", id)
	}
	b.text = b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
	w.mu.Unlock()

	w.didChange(ctx, id, true)
	return nil
}

// Reload implements core.Editor. A reload that brings no new content emits no
// change notification.
func (w *Workspace) Reload(ctx context.Context, id core.DocumentID) error {
	if _, ok := w.Document(id); !ok {
		return fmt.Errorf("%s: %w", id, core.ErrDocumentNotOpen)
	}

	text, err := w.backing.Read(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to reload %s: %w", id, err)
	}

	w.mu.Lock()
	b, ok := w.buffers[id]
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("%s: %w", id, core.ErrDocumentNotOpen)
	}
	changed := b.text != text
	if changed {
		b.history = append(b.history, b.text)
		b.text = text
	}
	b.saved = text
	w.mu.Unlock()

	if changed {
		w.didChange(ctx, id, true)
	}
	return nil
}

// Save writes the buffer of id to the backing store unless a listener vetoes it.
func (w *Workspace) Save(ctx context.Context, id core.DocumentID) error {
	if _, ok := w.Document(id); !ok {
		return fmt.Errorf("%s: %w", id, core.ErrDocumentNotOpen)
	}

	event := core.SaveEvent{DocumentID: id, Timestamp: w.now()}
	for _, l := range w.snapshotListeners() {
		if err := l.WillSave(ctx, event); err != nil {
			w.logger.Debug("save vetoed", "id", id, "error", err)
			return err
		}
	}

	w.mu.RLock()
	b, ok := w.buffers[id]
	if !ok {
		w.mu.RUnlock()
		return fmt.Errorf("%s: %w", id, core.ErrDocumentNotOpen)
	}
	text := b.text
	w.mu.RUnlock()

	if err := w.backing.Write(ctx, id, text); err != nil {
		return fmt.Errorf("failed to save %s: %w", id, err)
	}

	w.mu.Lock()
	if b, ok := w.buffers[id]; ok {
		b.saved = text
	}
	w.mu.Unlock()
	return nil
}

func (w *Workspace) didChange(ctx context.Context, id core.DocumentID, changed bool) {
	event := core.ChangeEvent{DocumentID: id, Changed: changed, Timestamp: w.now()}
	for _, l := range w.snapshotListeners() {
		l.DidChange(ctx, event)
	}
}

func (w *Workspace) snapshotListeners() []core.Listener {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]core.Listener(nil), w.listeners...)
}

var _ core.Editor = (*Workspace)(nil)
