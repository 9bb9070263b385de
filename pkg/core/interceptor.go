package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Interceptor turns back edits and saves aimed at read-only documents.
type Interceptor struct {
	session   *Session
	state     *StateStore
	snapshots *SnapshotCache
	editor    Editor
	reporter  Reporter
	logger    *slog.Logger
	now       func() time.Time
}

// NewInterceptor wires an interceptor to the session and the host editor.
func NewInterceptor(session *Session, state *StateStore, snapshots *SnapshotCache, editor Editor, reporter Reporter, logger *slog.Logger) *Interceptor {
	if reporter == nil {
		reporter = NopReporter{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Interceptor{
		session:   session,
		state:     state,
		snapshots: snapshots,
		editor:    editor,
		reporter:  reporter,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleChange reacts to a content change. It returns the violation it
// reported, or nil when the change was allowed or ignored.
//
// Workflow:
//  1. Ignore empty notifications, editable documents and our own corrective edits.
//  2. With a snapshot: replace the content with it (reload if that fails).
//  3. Without one: ask the editor to undo the last action.
//  4. Report the violation.
func (i *Interceptor) HandleChange(ctx context.Context, e ChangeEvent) *Violation {
	if !e.Changed || !i.state.IsReadOnly(e.DocumentID) {
		return nil
	}
	if i.session.isSuppressed(e.DocumentID) {
		i.logger.Debug("ignoring self-triggered change", "id", e.DocumentID)
		return nil
	}

	snapshot, hasSnapshot := i.snapshots.Get(e.DocumentID)
	if hasSnapshot && i.editor != nil {
		if doc, ok := i.editor.Document(e.DocumentID); ok && doc.Text() == snapshot {
			// Content already matches the restore point (late echo of a revert).
			return nil
		}
	}

	v := i.newViolation(e.DocumentID, ViolationEdit, e.Timestamp)
	if hasSnapshot {
		v.Recovery, v.Err = i.restore(ctx, e.DocumentID, snapshot)
	} else {
		i.logger.Warn("no snapshot for read-only document, falling back to undo", "id", e.DocumentID)
		v.Recovery, v.Err = i.undo(ctx, e.DocumentID)
	}

	i.report(v)
	return &v
}

// HandleWillSave vetoes saves of read-only documents. The returned error wraps
// ErrReadOnly when the save must not proceed.
func (i *Interceptor) HandleWillSave(ctx context.Context, e SaveEvent) (*Violation, error) {
	if !i.state.IsReadOnly(e.DocumentID) {
		return nil, nil
	}

	v := i.newViolation(e.DocumentID, ViolationSave, e.Timestamp)
	v.Recovery = RecoveryVetoed
	i.report(v)
	return &v, fmt.Errorf("cannot save %s: %w", e.DocumentID, ErrReadOnly)
}

// restore replaces the document content with the snapshot, falling back to a
// reload from backing storage.
func (i *Interceptor) restore(ctx context.Context, id DocumentID, snapshot string) (Recovery, error) {
	if i.editor == nil {
		return RecoveryFailed, ErrEditorUnavailable
	}
	err := i.guarded(id, func() error {
		return i.editor.Replace(ctx, id, snapshot)
	})
	if err == nil {
		return RecoveryRestored, nil
	}

	i.logger.Warn("corrective replace failed, reloading", "id", id, "error", err)
	reloadErr := i.guarded(id, func() error {
		return i.editor.Reload(ctx, id)
	})
	if reloadErr == nil {
		return RecoveryReloaded, nil
	}

	i.logger.Error("failed to revert read-only document", "id", id, "error", reloadErr)
	return RecoveryFailed, errors.Join(err, reloadErr)
}

func (i *Interceptor) undo(ctx context.Context, id DocumentID) (Recovery, error) {
	if i.editor == nil {
		return RecoveryFailed, ErrEditorUnavailable
	}
	err := i.guarded(id, func() error {
		return i.editor.Undo(ctx, id)
	})
	if err != nil {
		i.logger.Error("undo fallback failed", "id", id, "error", err)
		return RecoveryFailed, err
	}
	return RecoveryUndo, nil
}

// guarded runs a corrective operation with change interception suppressed for id.
// The flag is cleared whether or not fn succeeds.
func (i *Interceptor) guarded(id DocumentID, fn func() error) error {
	if !i.session.suppress(id) {
		return fmt.Errorf("corrective edit already in progress for %s", id)
	}
	defer i.session.release(id)
	return fn()
}

func (i *Interceptor) newViolation(id DocumentID, kind ViolationKind, ts time.Time) Violation {
	if ts.IsZero() {
		ts = i.now()
	}
	return Violation{
		ID:         uuid.NewString(),
		DocumentID: id,
		Kind:       kind,
		Timestamp:  ts,
	}
}

func (i *Interceptor) report(v Violation) {
	i.logger.Warn("read-only violation",
		"id", v.DocumentID,
		"kind", v.Kind,
		"recovery", v.Recovery,
	)
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("reporter panic", "error", r)
		}
	}()
	i.reporter.ReportViolation(v)
}
