package fs

import (
	"fmt"
	"time"

	"github.com/aretw0/introspection"
)

// WatcherState exposes internal state for observability.
type WatcherState struct {
	Root          string     `json:"root"`
	Status        string     `json:"status"`
	Active        bool       `json:"active"`
	RestoreOnDisk bool       `json:"restore_on_disk"`
	Restored      int        `json:"restored"`
	LastReconcile *time.Time `json:"last_reconcile,omitempty"`
}

// Inspect returns an introspection view of the watcher. State() is taken by
// the lifecycle worker contract, hence the separate view.
func (w *Watcher) Inspect() introspection.Introspectable {
	return watcherView{w}
}

type watcherView struct{ w *Watcher }

// State implements introspection.Introspectable.
func (v watcherView) State() any {
	w := v.w
	status := fmt.Sprint(w.State().Status)

	w.mu.RLock()
	defer w.mu.RUnlock()

	return WatcherState{
		Root:          w.backing.Root,
		Status:        status,
		Active:        w.active,
		RestoreOnDisk: w.config.RestoreOnDisk,
		Restored:      w.restored,
		LastReconcile: w.lastReconcile,
	}
}

// ComponentType implements introspection.Component.
func (v watcherView) ComponentType() string {
	return "fs-watcher"
}

var _ introspection.Introspectable = watcherView{}
var _ introspection.Component = watcherView{}

func (w *Watcher) setActive(active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = active
}

func (w *Watcher) recordReconcile() {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	w.lastReconcile = &now
}
