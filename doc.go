// Package codefreeze is the composition root of codefreeze: per-document,
// in-session read-only locking for an editing host.
//
// A user freezes an open document. From then on edits are reverted to the
// text captured at lock time and saves are vetoed, until the document is
// toggled back. The read-only list survives restarts through a small
// key-value store (JSON file, SQLite or memory).
//
// Layout:
//
//   - pkg/core: state store, snapshot cache, edit interceptor and toggle
//     controller, composed by core.Service.
//   - pkg/workspace: open-buffer host delivering open/change/save events.
//   - pkg/adapters: filesystem backing and watcher, mementos.
//   - pkg/presentation: status indicator, banner, notifications, warnings.
//
// Usage:
//
//	host, err := codefreeze.Open("./project",
//		codefreeze.WithBackend("file", "~/.local/state/codefreeze/state.json"),
//		codefreeze.WithLogger(logger),
//	)
//	host.Load(ctx)
//	host.Start(ctx)
//
//	id, _ := host.Resolve(ctx, "main.go")
//	host.Service.Toggle(ctx, id) // main.go is now READ-ONLY
//
// Protection is an editor-level courtesy, not an OS file permission.
package codefreeze
