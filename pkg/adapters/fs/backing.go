// Package fs is the filesystem adapter: files under a root directory as
// documents, a JSON file memento, and an fsnotify watcher that feeds external
// changes back into the workspace.
package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/codefreeze/pkg/core"
)

// DefaultExclude lists the patterns never treated as documents.
var DefaultExclude = []string{".git/**", "**/.git/**", "node_modules/**", "**/node_modules/**"}

// Config holds the configuration for the filesystem backing.
type Config struct {
	Root    string
	Include []string // doublestar patterns relative to Root; empty means everything
	Exclude []string // appended to DefaultExclude
	Logger  *slog.Logger
}

// Backing implements workspace.Backing over files below Root.
type Backing struct {
	Root    string
	include []string
	exclude []string
	logger  *slog.Logger
}

// NewBacking creates a filesystem backing. Patterns are validated eagerly.
func NewBacking(cfg Config) (*Backing, error) {
	root := cfg.Root
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}

	exclude := append(append([]string(nil), DefaultExclude...), cfg.Exclude...)
	for _, p := range append(append([]string(nil), cfg.Include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern %q", p)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Backing{
		Root:    abs,
		include: cfg.Include,
		exclude: exclude,
		logger:  logger,
	}, nil
}

// IDFromPath returns the canonical document ID (file URI) of path.
func IDFromPath(path string) (core.DocumentID, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	slashed := filepath.ToSlash(filepath.Clean(abs))
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed // windows drive letters
	}
	u := url.URL{Scheme: "file", Path: slashed}
	return core.DocumentID(u.String()), nil
}

// PathFromID returns the filesystem path of a file URI.
func PathFromID(id core.DocumentID) (string, error) {
	u, err := url.Parse(string(id))
	if err != nil {
		return "", fmt.Errorf("invalid document ID %q: %w", id, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported document ID %q: not a file URI", id)
	}
	p := u.Path
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:] // /C:/x -> C:/x
	}
	return filepath.FromSlash(p), nil
}

// Read implements workspace.Backing.
func (b *Backing) Read(ctx context.Context, id core.DocumentID) (string, error) {
	path, err := PathFromID(id)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write implements workspace.Backing.
func (b *Backing) Write(ctx context.Context, id core.DocumentID, text string) error {
	path, err := PathFromID(id)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, []byte(text), 0644)
}

// Match reports whether path (absolute or relative to Root) is a document.
func (b *Backing) Match(path string) bool {
	if isTempFile(path) {
		return false
	}
	rel, ok := b.rel(path)
	if !ok {
		return false
	}
	for _, p := range b.exclude {
		if matched, _ := doublestar.Match(p, rel); matched {
			return false
		}
	}
	if len(b.include) == 0 {
		return true
	}
	for _, p := range b.include {
		if matched, _ := doublestar.Match(p, rel); matched {
			return true
		}
	}
	return false
}

// excludedDir reports whether a directory should not be walked or watched.
func (b *Backing) excludedDir(path string) bool {
	rel, ok := b.rel(path)
	if !ok {
		return true
	}
	if rel == "." {
		return false
	}
	for _, p := range b.exclude {
		if matched, _ := doublestar.Match(p, rel+"/x"); matched {
			return true
		}
	}
	return false
}

func (b *Backing) rel(path string) (string, bool) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.Root, path)
	}
	rel, err := filepath.Rel(b.Root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Scan lists the documents below Root, sorted by path.
func (b *Backing) Scan(ctx context.Context) ([]core.DocumentID, error) {
	var ids []core.DocumentID
	err := filepath.WalkDir(b.Root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, iofs.ErrPermission) {
				b.logger.Debug("skipping unreadable path", "path", path)
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != b.Root && b.excludedDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !b.Match(path) {
			return nil
		}
		id, err := IDFromPath(path)
		if err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", b.Root, err)
	}
	return ids, nil
}
