package fs

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/aretw0/codefreeze/pkg/core"
)

func TestIDFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a b", "c.md")

	id, err := IDFromPath(path)
	if err != nil {
		t.Fatalf("IDFromPath failed: %v", err)
	}
	if !strings.HasPrefix(string(id), "file:///") {
		t.Errorf("expected file URI, got %q", id)
	}
	if !strings.Contains(string(id), "a%20b") {
		t.Errorf("expected escaped space in %q", id)
	}
	if id.Base() != "c.md" {
		t.Errorf("Base() = %q, want c.md", id.Base())
	}

	back, err := PathFromID(id)
	if err != nil {
		t.Fatalf("PathFromID failed: %v", err)
	}
	if back != filepath.Clean(path) {
		t.Errorf("round trip mismatch: %q != %q", back, path)
	}
}

func TestPathFromID_Rejects(t *testing.T) {
	for _, id := range []string{"untitled:Untitled-1", "http://example.com/x", "%zz"} {
		if _, err := PathFromID(core.DocumentID(id)); err == nil {
			t.Errorf("expected error for %q", id)
		}
	}
}

func TestBacking_Match(t *testing.T) {
	dir := t.TempDir()
	b, err := NewBacking(Config{
		Root:    dir,
		Include: []string{"**/*.go", "*.md"},
		Exclude: []string{"vendor/**"},
	})
	if err != nil {
		t.Fatalf("NewBacking failed: %v", err)
	}

	cases := map[string]bool{
		"main.go":                 true,
		"pkg/core/domain.go":      true,
		"README.md":               true,
		"docs/guide.md":           false,
		"vendor/x/y.go":           false,
		".git/config":             false,
		"node_modules/a/index.go": false,
		TempFilePrefix + "12345":  false,
		"../outside.go":           false,
	}
	for path, want := range cases {
		if got := b.Match(path); got != want {
			t.Errorf("Match(%q) = %v, want %v", path, got, want)
		}
	}
	if !b.Match(filepath.Join(dir, "abs.go")) {
		t.Error("expected absolute path below root to match")
	}
}

func TestNewBacking_InvalidPattern(t *testing.T) {
	if _, err := NewBacking(Config{Root: t.TempDir(), Include: []string{"[unclosed"}}); err == nil {
		t.Fatal("expected invalid pattern error")
	}
}

func TestBacking_ReadWriteScan(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("path layout differs on windows")
	}
	ctx := context.Background()
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "src"), 0755)
	os.MkdirAll(filepath.Join(dir, ".git"), 0755)
	os.WriteFile(filepath.Join(dir, "src", "b.txt"), []byte("b"), 0644)
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644)
	os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref"), 0644)

	b, err := NewBacking(Config{Root: dir})
	if err != nil {
		t.Fatalf("NewBacking failed: %v", err)
	}

	ids, err := b.Scan(ctx)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 documents, got %v", ids)
	}
	if ids[0].Base() != "a.txt" || ids[1].Base() != "b.txt" {
		t.Errorf("unexpected scan order: %v", ids)
	}

	if err := b.Write(ctx, ids[0], "changed"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	text, err := b.Read(ctx, ids[0])
	if err != nil || text != "changed" {
		t.Errorf("Read = %q, %v", text, err)
	}
}
