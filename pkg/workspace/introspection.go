package workspace

import (
	"github.com/aretw0/introspection"
)

// WorkspaceState exposes internal state for observability.
type WorkspaceState struct {
	Open      int `json:"open"`
	Dirty     int `json:"dirty"`
	Listeners int `json:"listeners"`
}

// State implements introspection.Introspectable.
func (w *Workspace) State() any {
	w.mu.RLock()
	defer w.mu.RUnlock()

	dirty := 0
	for _, b := range w.buffers {
		if b.dirty() {
			dirty++
		}
	}
	return WorkspaceState{
		Open:      len(w.buffers),
		Dirty:     dirty,
		Listeners: len(w.listeners),
	}
}

// ComponentType implements introspection.Component.
func (w *Workspace) ComponentType() string {
	return "workspace"
}

var _ introspection.Introspectable = (*Workspace)(nil)
var _ introspection.Component = (*Workspace)(nil)
