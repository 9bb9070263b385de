package workspace_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/codefreeze/pkg/adapters/memory"
	"github.com/aretw0/codefreeze/pkg/core"
	"github.com/aretw0/codefreeze/pkg/workspace"
)

const readme = core.DocumentID("mem://README.md")

type countingListener struct {
	opened  []core.DocumentID
	changes []core.ChangeEvent
	veto    error
}

func (l *countingListener) DidOpen(ctx context.Context, id core.DocumentID) {
	l.opened = append(l.opened, id)
}

func (l *countingListener) DidChange(ctx context.Context, e core.ChangeEvent) {
	l.changes = append(l.changes, e)
}

func (l *countingListener) WillSave(ctx context.Context, e core.SaveEvent) error {
	return l.veto
}

func newWorkspace(t *testing.T) (*workspace.Workspace, *memory.Backing) {
	t.Helper()
	backing := memory.NewBacking(map[core.DocumentID]string{readme: "# hello"})
	return workspace.New(backing), backing
}

func TestWorkspace_OpenEditSave(t *testing.T) {
	ctx := context.Background()
	ws, backing := newWorkspace(t)
	l := &countingListener{}
	ws.Subscribe(l)

	doc, err := ws.Open(ctx, readme)
	require.NoError(t, err)
	assert.Equal(t, "# hello", doc.Text())
	assert.Equal(t, []core.DocumentID{readme}, l.opened)

	// Opening twice keeps the buffer and does not notify again.
	require.NoError(t, ws.Edit(ctx, readme, "# hello world"))
	doc, err = ws.Open(ctx, readme)
	require.NoError(t, err)
	assert.Equal(t, "# hello world", doc.Text())
	assert.Len(t, l.opened, 1)

	require.Len(t, l.changes, 1)
	assert.True(t, l.changes[0].Changed)
	assert.True(t, ws.Dirty(readme))

	require.NoError(t, ws.Save(ctx, readme))
	assert.False(t, ws.Dirty(readme))
	text, err := backing.Read(ctx, readme)
	require.NoError(t, err)
	assert.Equal(t, "# hello world", text)
}

func TestWorkspace_NoOpEditReportsNoChange(t *testing.T) {
	ctx := context.Background()
	ws, _ := newWorkspace(t)
	l := &countingListener{}
	ws.Subscribe(l)
	_, err := ws.Open(ctx, readme)
	require.NoError(t, err)

	require.NoError(t, ws.Edit(ctx, readme, "# hello"))
	require.Len(t, l.changes, 1)
	assert.False(t, l.changes[0].Changed)
	assert.False(t, ws.Dirty(readme))
}

func TestWorkspace_UndoAndReload(t *testing.T) {
	ctx := context.Background()
	ws, backing := newWorkspace(t)
	_, err := ws.Open(ctx, readme)
	require.NoError(t, err)

	require.NoError(t, ws.Edit(ctx, readme, "one"))
	require.NoError(t, ws.Edit(ctx, readme, "two"))
	require.NoError(t, ws.Undo(ctx, readme))
	doc, _ := ws.Document(readme)
	assert.Equal(t, "one", doc.Text())

	require.NoError(t, backing.Write(ctx, readme, "from disk"))
	require.NoError(t, ws.Reload(ctx, readme))
	doc, _ = ws.Document(readme)
	assert.Equal(t, "from disk", doc.Text())
	assert.False(t, ws.Dirty(readme))

	require.NoError(t, ws.Undo(ctx, readme))
	require.NoError(t, ws.Undo(ctx, readme))
	assert.Error(t, ws.Undo(ctx, readme), "history exhausted")
}

func TestWorkspace_HistoryIsBounded(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewBacking(map[core.DocumentID]string{readme: "0"})
	ws := workspace.New(backing, workspace.WithHistory(2))
	_, err := ws.Open(ctx, readme)
	require.NoError(t, err)

	for _, text := range []string{"1", "2", "3", "4"} {
		require.NoError(t, ws.Edit(ctx, readme, text))
	}
	require.NoError(t, ws.Undo(ctx, readme))
	require.NoError(t, ws.Undo(ctx, readme))
	assert.Error(t, ws.Undo(ctx, readme))

	doc, _ := ws.Document(readme)
	assert.Equal(t, "2", doc.Text())
}

func TestWorkspace_ClosedDocument(t *testing.T) {
	ctx := context.Background()
	ws, _ := newWorkspace(t)
	_, err := ws.Open(ctx, readme)
	require.NoError(t, err)
	ws.Close(readme)

	for name, err := range map[string]error{
		"Edit":    ws.Edit(ctx, readme, "x"),
		"Replace": ws.Replace(ctx, readme, "x"),
		"Undo":    ws.Undo(ctx, readme),
		"Reload":  ws.Reload(ctx, readme),
		"Save":    ws.Save(ctx, readme),
	} {
		assert.True(t, errors.Is(err, core.ErrDocumentNotOpen), "%s: %v", name, err)
	}

	_, err = ws.Open(ctx, "mem://missing")
	assert.True(t, errors.Is(err, memory.ErrNotFound))
	_, err = ws.Open(ctx, "")
	assert.True(t, errors.Is(err, core.ErrEmptyID))
}

func TestWorkspace_SaveVeto(t *testing.T) {
	ctx := context.Background()
	ws, backing := newWorkspace(t)
	ws.Subscribe(&countingListener{veto: core.ErrReadOnly})
	_, err := ws.Open(ctx, readme)
	require.NoError(t, err)
	require.NoError(t, ws.Edit(ctx, readme, "changed"))

	err = ws.Save(ctx, readme)
	assert.True(t, errors.Is(err, core.ErrReadOnly))
	text, _ := backing.Read(ctx, readme)
	assert.Equal(t, "# hello", text)
	assert.True(t, ws.Dirty(readme))
}

// TestWorkspace_ReadOnlyService runs the core against a real workspace: the
// corrective replace re-enters the workspace from inside the change listener.
func TestWorkspace_ReadOnlyService(t *testing.T) {
	ctx := context.Background()
	ws, backing := newWorkspace(t)
	memento := memory.NewMemento()
	svc := core.NewService(core.Config{Editor: ws, Memento: memento})
	ws.Subscribe(svc)
	svc.Start(ctx)

	_, err := ws.Open(ctx, readme)
	require.NoError(t, err)
	locked, err := svc.Toggle(ctx, readme)
	require.NoError(t, err)
	require.True(t, locked)

	require.NoError(t, ws.Edit(ctx, readme, "# vandalized"))
	doc, _ := ws.Document(readme)
	assert.Equal(t, "# hello", doc.Text())
	assert.False(t, ws.Dirty(readme), "reverted buffer matches the backing store")

	err = ws.Save(ctx, readme)
	assert.True(t, errors.Is(err, core.ErrReadOnly))
	text, _ := backing.Read(ctx, readme)
	assert.Equal(t, "# hello", text)

	unlocked, err := svc.Toggle(ctx, readme)
	require.NoError(t, err)
	assert.False(t, unlocked)
	require.NoError(t, ws.Edit(ctx, readme, "# allowed"))
	require.NoError(t, ws.Save(ctx, readme))
	text, _ = backing.Read(ctx, readme)
	assert.Equal(t, "# allowed", text)
}

func TestWorkspace_RevertedEditLeavesNoHistory(t *testing.T) {
	ctx := context.Background()
	ws, _ := newWorkspace(t)
	svc := core.NewService(core.Config{Editor: ws, Memento: memory.NewMemento()})
	ws.Subscribe(svc)
	svc.Start(ctx)

	_, err := ws.Open(ctx, readme)
	require.NoError(t, err)
	require.NoError(t, ws.Edit(ctx, readme, "# hello world"))
	_, err = svc.Toggle(ctx, readme)
	require.NoError(t, err)

	require.NoError(t, ws.Edit(ctx, readme, "# vandalized"))
	_, err = svc.Toggle(ctx, readme)
	require.NoError(t, err)

	// Undo skips the rejected edit and returns to the step before the lock.
	require.NoError(t, ws.Undo(ctx, readme))
	doc, _ := ws.Document(readme)
	assert.Equal(t, "# hello", doc.Text())
	assert.Error(t, ws.Undo(ctx, readme))
}

func TestWorkspace_ReplaceRecordsOtherContent(t *testing.T) {
	ctx := context.Background()
	ws, _ := newWorkspace(t)
	_, err := ws.Open(ctx, readme)
	require.NoError(t, err)

	require.NoError(t, ws.Replace(ctx, readme, "formatted"))
	assert.True(t, ws.Dirty(readme))
	require.NoError(t, ws.Undo(ctx, readme))
	doc, _ := ws.Document(readme)
	assert.Equal(t, "# hello", doc.Text())
	assert.False(t, ws.Dirty(readme))
}

func TestWorkspace_State(t *testing.T) {
	ctx := context.Background()
	ws, _ := newWorkspace(t)
	ws.Subscribe(&countingListener{})
	_, err := ws.Open(ctx, readme)
	require.NoError(t, err)
	require.NoError(t, ws.Edit(ctx, readme, "dirty"))

	state, ok := ws.State().(workspace.WorkspaceState)
	require.True(t, ok)
	assert.Equal(t, workspace.WorkspaceState{Open: 1, Dirty: 1, Listeners: 1}, state)
	assert.Equal(t, "workspace", ws.ComponentType())
}
