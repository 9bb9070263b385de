package core

import "context"

// Document is an open buffer as seen by the core.
type Document interface {
	ID() DocumentID
	Text() string
}

// Editor defines the contract the host offers for inspecting and correcting
// open documents. Adhering to this interface keeps the core independent of the
// editing surface (terminal UI, file watcher, language server, tests).
type Editor interface {
	// Document returns the open document with the given ID.
	Document(id DocumentID) (Document, bool)

	// Documents returns every currently open document.
	Documents() []Document

	// Replace sets the full content of an open document.
	Replace(ctx context.Context, id DocumentID, text string) error

	// Undo reverts the last action applied to the document.
	Undo(ctx context.Context, id DocumentID) error

	// Reload discards the buffer and reads the document again from its backing storage.
	Reload(ctx context.Context, id DocumentID) error
}

// Listener receives document notifications from the host.
type Listener interface {
	// DidOpen is called after a document has been opened.
	DidOpen(ctx context.Context, id DocumentID)

	// DidChange is called after the content of a document changed.
	DidChange(ctx context.Context, e ChangeEvent)

	// WillSave is called before a document is written. A non-nil error vetoes the save.
	WillSave(ctx context.Context, e SaveEvent) error
}

// Memento is a persistent key-value store scoped to the running user.
type Memento interface {
	// Get returns the stored value, or false if the key was never set.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores the value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}

// Reporter is the presentation side of the core: it renders state changes and
// violations. Calls are fire-and-forget.
type Reporter interface {
	StateChanged(id DocumentID, readOnly bool)
	ReportViolation(v Violation)
}

// NopReporter discards every notification.
type NopReporter struct{}

func (NopReporter) StateChanged(DocumentID, bool) {}
func (NopReporter) ReportViolation(Violation)     {}

// Reporters fans notifications out to several reporters in order.
type Reporters []Reporter

func (rs Reporters) StateChanged(id DocumentID, readOnly bool) {
	for _, r := range rs {
		r.StateChanged(id, readOnly)
	}
}

func (rs Reporters) ReportViolation(v Violation) {
	for _, r := range rs {
		r.ReportViolation(v)
	}
}
