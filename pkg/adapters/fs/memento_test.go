package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/codefreeze/pkg/core"
)

func TestMemento_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing File Means Absent", func(t *testing.T) {
		m := NewMemento(filepath.Join(t.TempDir(), "state.json"))

		_, ok, err := m.Get(ctx, core.DefaultStorageKey)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if ok {
			t.Error("Expected key to be absent")
		}
	})

	t.Run("Reads Valid JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		content := `{
			"version": 1,
			"values": {
				"readOnlyDocuments": "[\"file:///a.md\"]"
			}
		}`
		os.WriteFile(path, []byte(content), 0644)

		m := NewMemento(path)
		v, ok, err := m.Get(ctx, core.DefaultStorageKey)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !ok {
			t.Fatal("Expected key to be present")
		}
		if string(v) != `["file:///a.md"]` {
			t.Errorf("Unexpected value %q", v)
		}
	})

	t.Run("Resets on Corrupted JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		os.WriteFile(path, []byte("{ invalid json"), 0644)

		m := NewMemento(path)
		_, ok, err := m.Get(ctx, core.DefaultStorageKey)
		if err != nil {
			t.Fatalf("Get should self-heal, got: %v", err)
		}
		if ok {
			t.Error("Expected key to be absent after corruption")
		}

		// A write replaces the corrupt file.
		if err := m.Set(ctx, "k", []byte("v")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		v, ok, _ := m.Get(ctx, "k")
		if !ok || string(v) != "v" {
			t.Errorf("Expected k=v after rewrite, got %q (present=%v)", v, ok)
		}
	})
}

func TestMemento_Set(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")
	m := NewMemento(path)

	if err := m.Set(ctx, "a", []byte("1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := m.Set(ctx, "b", []byte("2")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("Expected memento file to exist")
	}

	// A second instance (another process) sees both keys.
	other := NewMemento(path)
	for key, want := range map[string]string{"a": "1", "b": "2"} {
		v, ok, err := other.Get(ctx, key)
		if err != nil || !ok {
			t.Fatalf("Get(%s) failed: ok=%v err=%v", key, ok, err)
		}
		if string(v) != want {
			t.Errorf("Get(%s) = %q, want %q", key, v, want)
		}
	}
}

func TestMemento_StateStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	store := core.NewStateStore(core.NewSession(), NewMemento(path), "", nil)
	store.SetReadOnly("file:///one", true)
	store.SetReadOnly("file:///two", true)
	if err := store.Persist(ctx); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	restarted := core.NewStateStore(core.NewSession(), NewMemento(path), "", nil)
	set := restarted.Load(ctx)
	if !set.Equal(core.NewReadOnlySet("file:///one", "file:///two")) {
		t.Errorf("Unexpected set after reload: %v", set.Sorted())
	}
}
