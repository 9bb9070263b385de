package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestCLI_ToggleStatusList(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	file := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package main\n"), 0644))
	state := filepath.Join(t.TempDir(), "state.json")
	common := []string{"--backend", "file", "--state", state}

	out := run(t, append([]string{"toggle", file}, common...)...)
	assert.Equal(t, "🔒 main.go is now READ-ONLY\n", out)

	out = run(t, append([]string{"status", file}, common...)...)
	assert.Equal(t, "main.go is currently in READ-ONLY mode. Use Ctrl+Alt+L to toggle.\n", out)

	out = run(t, append([]string{"list", "--json"}, common...)...)
	var entries []listEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, file, entries[0].Path)
	listJSON = false

	out = run(t, append([]string{"toggle", file}, common...)...)
	assert.Equal(t, "🔓 main.go is now EDITABLE\n", out)

	out = run(t, append([]string{"list"}, common...)...)
	assert.Empty(t, strings.TrimSpace(out))
}

func TestCLI_UnlockDeletedFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	file := filepath.Join(dir, "gone.go")
	require.NoError(t, os.WriteFile(file, []byte("package gone\n"), 0644))
	state := filepath.Join(t.TempDir(), "state.json")
	common := []string{"--backend", "file", "--state", state}

	run(t, append([]string{"toggle", file}, common...)...)
	require.NoError(t, os.Remove(file))

	out := run(t, append([]string{"toggle", file}, common...)...)
	assert.Equal(t, "🔓 gone.go is now EDITABLE\n", out)

	out = run(t, append([]string{"list"}, common...)...)
	assert.Empty(t, strings.TrimSpace(out))
}

func TestCLI_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	rootCmd.SetArgs([]string{"list", "--backend", "redis"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	assert.Error(t, rootCmd.Execute())
	backend = ""
}

func TestCLI_Version(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	out := run(t, "version")
	assert.True(t, strings.HasPrefix(out, "codefreeze version "))
}
