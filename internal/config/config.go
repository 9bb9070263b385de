// Package config loads the codefreeze CLI configuration.
//
// The file is YAML unless its extension is .toml. A missing file is not an
// error: defaults apply. Paths starting with "~" are expanded to the home
// directory.
//
//	root: ~/src/project
//	include: ["**/*.go", "**/*.md"]
//	exclude: ["vendor/**"]
//	backend: file            # file | sqlite | memory
//	state_path: ~/.local/state/codefreeze/state.json
//	restore_on_disk: true
//	notification_timeout: 5s
//	shortcut: Ctrl+Alt+L
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

const (
	DefaultConfigPath          = "~/.config/codefreeze/config.yaml"
	defaultStateDir            = "~/.local/state/codefreeze"
	defaultNotificationTimeout = 5 * time.Second
	defaultShortcut            = "Ctrl+Alt+L"
)

// Config is the resolved CLI configuration.
type Config struct {
	Root                string
	Include             []string
	Exclude             []string
	Backend             string
	StatePath           string
	RestoreOnDisk       bool
	NotificationTimeout time.Duration
	Shortcut            string
}

// raw is the on-disk shape shared by both formats.
type raw struct {
	Root                string   `yaml:"root" toml:"root"`
	Include             []string `yaml:"include" toml:"include"`
	Exclude             []string `yaml:"exclude" toml:"exclude"`
	Backend             string   `yaml:"backend" toml:"backend"`
	StatePath           string   `yaml:"state_path" toml:"state_path"`
	RestoreOnDisk       *bool    `yaml:"restore_on_disk" toml:"restore_on_disk"`
	NotificationTimeout string   `yaml:"notification_timeout" toml:"notification_timeout"`
	Shortcut            string   `yaml:"shortcut" toml:"shortcut"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	cfg := Config{
		Root:                ".",
		Backend:             BackendFile,
		RestoreOnDisk:       true,
		NotificationTimeout: defaultNotificationTimeout,
		Shortcut:            defaultShortcut,
	}
	cfg.StatePath = DefaultStatePath(cfg.Backend)
	return cfg
}

// DefaultStatePath is where a backend keeps its state unless configured.
func DefaultStatePath(backend string) string {
	switch backend {
	case BackendSQLite:
		return mustExpand(defaultStateDir + "/state.db")
	case BackendMemory:
		return ""
	default:
		return mustExpand(defaultStateDir + "/state.json")
	}
}

// Load reads the configuration at path, or at DefaultConfigPath when path is
// empty, falling back to defaults when the file is missing.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultConfigPath
	}
	resolved, err := expandPath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var r raw
	if strings.EqualFold(filepath.Ext(resolved), ".toml") {
		err = toml.Unmarshal(data, &r)
	} else {
		err = yaml.Unmarshal(data, &r)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", resolved, err)
	}

	if err := cfg.apply(r); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", resolved, err)
	}
	return cfg, nil
}

func (c *Config) apply(r raw) error {
	if v := strings.TrimSpace(r.Root); v != "" {
		c.Root = mustExpand(v)
	}
	if len(r.Include) > 0 {
		c.Include = r.Include
	}
	if len(r.Exclude) > 0 {
		c.Exclude = r.Exclude
	}

	if v := strings.ToLower(strings.TrimSpace(r.Backend)); v != "" {
		if err := ValidateBackend(v); err != nil {
			return err
		}
		c.Backend = v
		c.StatePath = DefaultStatePath(v)
	}
	if v := strings.TrimSpace(r.StatePath); v != "" {
		c.StatePath = mustExpand(v)
	}

	if r.RestoreOnDisk != nil {
		c.RestoreOnDisk = *r.RestoreOnDisk
	}
	if v := strings.TrimSpace(r.NotificationTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("notification_timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("notification_timeout must be positive, got %s", v)
		}
		c.NotificationTimeout = d
	}
	if v := strings.TrimSpace(r.Shortcut); v != "" {
		c.Shortcut = v
	}
	return nil
}

// ValidateBackend checks a backend name.
func ValidateBackend(name string) error {
	switch name {
	case BackendFile, BackendSQLite, BackendMemory:
		return nil
	}
	return fmt.Errorf("unknown backend %q (want %s, %s or %s)", name, BackendFile, BackendSQLite, BackendMemory)
}

// ExpandPath resolves "~" and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
