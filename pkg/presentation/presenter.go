package presentation

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/codefreeze/pkg/core"
)

// Presenter implements core.Reporter for terminal hosts. It tracks the state
// of every document it has been told about, drives the indicator for the
// active document and writes violation warnings to a sink.
type Presenter struct {
	mu       sync.RWMutex
	active   core.DocumentID
	states   map[core.DocumentID]bool
	styles   Styles
	shortcut string

	Indicator *Indicator
	Notifier  *Notifier

	warnings io.Writer
	styled   bool
	logger   *slog.Logger
}

// Config configures a Presenter.
type Config struct {
	Theme    *Theme
	Timeout  time.Duration
	Shortcut string
	// Warnings receives one line per violation. Nil discards them.
	Warnings io.Writer
	// Styled renders warnings with lipgloss (for terminals).
	Styled   bool
	OnNotify func(n Notification, visible bool)
	Logger   *slog.Logger
}

// DefaultShortcut is the toggle key binding named in status messages.
const DefaultShortcut = "Ctrl+Alt+L"

// New creates a presenter.
func New(cfg Config) *Presenter {
	theme := DefaultTheme
	if cfg.Theme != nil {
		theme = *cfg.Theme
	}
	styles := theme.Styles()
	if cfg.Shortcut == "" {
		cfg.Shortcut = DefaultShortcut
	}
	if cfg.Warnings == nil {
		cfg.Warnings = io.Discard
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Presenter{
		states:    make(map[core.DocumentID]bool),
		styles:    styles,
		shortcut:  cfg.Shortcut,
		Indicator: NewIndicator(styles),
		Notifier:  NewNotifier(cfg.Timeout, cfg.OnNotify),
		warnings:  cfg.Warnings,
		styled:    cfg.Styled,
		logger:    cfg.Logger,
	}
}

// Styles returns the styles in use.
func (p *Presenter) Styles() Styles { return p.styles }

// Shortcut returns the toggle key binding shown in messages.
func (p *Presenter) Shortcut() string { return p.shortcut }

// StateChanged implements core.Reporter.
func (p *Presenter) StateChanged(id core.DocumentID, readOnly bool) {
	p.mu.Lock()
	p.states[id] = readOnly
	active := p.active == id
	p.mu.Unlock()

	if active {
		p.Indicator.Update(readOnly)
	}
}

// ReportViolation implements core.Reporter.
func (p *Presenter) ReportViolation(v core.Violation) {
	msg := v.Message()
	p.logger.Warn("read-only violation", "id", v.DocumentID, "kind", v.Kind, "recovery", v.Recovery)
	if p.styled {
		msg = p.styles.Violation.Render("⚠ " + msg)
	}
	fmt.Fprintln(p.warnings, msg)
}

// Announce shows the toggle notification for id.
func (p *Presenter) Announce(id core.DocumentID, readOnly bool) Notification {
	return p.Notifier.Show(id.Base(), readOnly)
}

// Activate makes id the active document; the indicator follows its state.
// An empty id hides the indicator.
func (p *Presenter) Activate(id core.DocumentID, readOnly bool) {
	p.mu.Lock()
	p.active = id
	if id != "" {
		p.states[id] = readOnly
	}
	p.mu.Unlock()

	if id == "" {
		p.Indicator.Hide()
		return
	}
	p.Indicator.Update(readOnly)
}

// Active returns the active document.
func (p *Presenter) Active() core.DocumentID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.active
}

// Decorate renders text of id with the read-only decoration if it applies.
func (p *Presenter) Decorate(id core.DocumentID, text string, width int) string {
	p.mu.RLock()
	readOnly := p.states[id]
	p.mu.RUnlock()
	return Decorate(p.styles, text, readOnly, width)
}

// StatusMessage answers the status query for s.
func (p *Presenter) StatusMessage(s core.Status) string {
	return s.Message(p.shortcut)
}

var _ core.Reporter = (*Presenter)(nil)
