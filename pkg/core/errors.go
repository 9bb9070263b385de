package core

import "errors"

// Common errors.
var (
	ErrReadOnly          = errors.New("document is in read-only mode")
	ErrDocumentNotOpen   = errors.New("document is not open")
	ErrEmptyID           = errors.New("document ID cannot be empty")
	ErrEditorUnavailable = errors.New("editor is not available")
)
