package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/codefreeze/pkg/adapters/sqlite"
	"github.com/aretw0/codefreeze/pkg/core"
)

func TestMemento_GetSet(t *testing.T) {
	ctx := context.Background()
	m, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer m.Close()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", []byte("one")))
	require.NoError(t, m.Set(ctx, "k", []byte("two")))

	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", string(v))
}

func TestMemento_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	m, err := sqlite.Open(path)
	require.NoError(t, err)
	store := core.NewStateStore(core.NewSession(), m, "", nil)
	store.SetReadOnly("file:///x.go", true)
	require.NoError(t, store.Persist(ctx))
	require.NoError(t, m.Close())

	reopened, err := sqlite.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	set := core.NewStateStore(core.NewSession(), reopened, "", nil).Load(ctx)
	assert.True(t, set.Has("file:///x.go"))
	assert.Len(t, set, 1)
}

func TestMemento_SharedConnection(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "host.db"))
	require.NoError(t, err)
	defer db.Close()

	m, err := sqlite.New(db)
	require.NoError(t, err)
	require.NoError(t, m.Set(context.Background(), "a", nil))

	// Close leaves a borrowed connection open.
	require.NoError(t, m.Close())
	require.NoError(t, db.Ping())

	v, ok, err := m.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, v)
}
