package core

import (
	"context"
	"fmt"
	"log/slog"
)

// Controller owns the read-only transition of a document. It keeps the state
// store and the snapshot cache in step: a document has a snapshot exactly
// while it is read-only (once it has been seen open).
type Controller struct {
	state     *StateStore
	snapshots *SnapshotCache
	editor    Editor
	reporter  Reporter
	logger    *slog.Logger
}

// NewController creates a toggle controller.
func NewController(state *StateStore, snapshots *SnapshotCache, editor Editor, reporter Reporter, logger *slog.Logger) *Controller {
	if reporter == nil {
		reporter = NopReporter{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		state:     state,
		snapshots: snapshots,
		editor:    editor,
		reporter:  reporter,
		logger:    logger,
	}
}

// Toggle flips the read-only flag of id and persists the result before
// returning the new state. If persisting fails the flip is undone.
func (c *Controller) Toggle(ctx context.Context, id DocumentID) (bool, error) {
	if id == "" {
		return false, ErrEmptyID
	}

	if c.state.IsReadOnly(id) {
		snapshot, hadSnapshot := c.snapshots.Get(id)
		c.state.SetReadOnly(id, false)
		c.snapshots.Release(id)

		if err := c.state.Persist(ctx); err != nil {
			c.state.SetReadOnly(id, true)
			if hadSnapshot {
				c.snapshots.Capture(id, snapshot)
			}
			return true, err
		}

		c.logger.Info("document is now editable", "id", id)
		c.refresh(id, false)
		return false, nil
	}

	if c.editor == nil {
		return false, ErrEditorUnavailable
	}
	doc, ok := c.editor.Document(id)
	if !ok {
		return false, fmt.Errorf("cannot lock %s: %w", id, ErrDocumentNotOpen)
	}

	c.state.SetReadOnly(id, true)
	c.snapshots.Capture(id, doc.Text())

	if err := c.state.Persist(ctx); err != nil {
		c.state.SetReadOnly(id, false)
		c.snapshots.Release(id)
		return false, err
	}

	c.logger.Info("document is now read-only", "id", id)
	c.refresh(id, true)
	return true, nil
}

// Restore loads the persisted set and captures a snapshot for every open
// document in it. Run once at startup, before events are delivered.
func (c *Controller) Restore(ctx context.Context) ReadOnlySet {
	set := c.state.Load(ctx)
	if c.editor == nil {
		return set
	}

	captured := 0
	for _, doc := range c.editor.Documents() {
		if set.Has(doc.ID()) {
			c.snapshots.Capture(doc.ID(), doc.Text())
			captured++
			c.refresh(doc.ID(), true)
		}
	}
	c.logger.Debug("read-only state restored", "count", len(set), "snapshots", captured)
	return set
}

// Opened captures a snapshot for a read-only document opened after startup.
// An existing snapshot is kept.
func (c *Controller) Opened(id DocumentID) {
	if !c.state.IsReadOnly(id) || c.editor == nil {
		return
	}
	if !c.snapshots.Has(id) {
		doc, ok := c.editor.Document(id)
		if !ok {
			return
		}
		c.snapshots.Capture(id, doc.Text())
		c.logger.Debug("snapshot captured on open", "id", id)
	}
	c.refresh(id, true)
}

// Status answers the status query for id.
func (c *Controller) Status(id DocumentID) Status {
	return Status{
		DocumentID: id,
		ReadOnly:   c.state.IsReadOnly(id),
		Snapshot:   c.snapshots.Has(id),
	}
}

// refresh notifies the presentation layer. Failures there never affect state.
func (c *Controller) refresh(id DocumentID, readOnly bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("reporter panic", "id", id, "error", r)
		}
	}()
	c.reporter.StateChanged(id, readOnly)
}
