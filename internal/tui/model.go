// Package tui is the terminal editing host of codefreeze: a file list with
// lock markers, a preview with the read-only banner, a status bar with the
// indicator and the transient toggle notification.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aretw0/codefreeze/internal/platform"
	"github.com/aretw0/codefreeze/pkg/core"
	"github.com/aretw0/codefreeze/pkg/presentation"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Host      *platform.Host
	Presenter *presentation.Presenter
	// Bridge must also be registered as a reporter of the host's service.
	Bridge *Bridge
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	host      *platform.Host
	presenter *presentation.Presenter
	bridge    *Bridge
	keys      keyMap
	help      help.Model

	width  int
	height int

	docs     []core.Document
	selected int

	notice  *presentation.Notification
	message string
	warning string
}

// New creates the model and subscribes its bridge to the host workspace.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	b := opts.Bridge
	if b == nil {
		b = NewBridge()
	}
	opts.Host.Workspace.Subscribe(b)

	m := Model{
		ctx:       ctx,
		host:      opts.Host,
		presenter: opts.Presenter,
		bridge:    b,
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.bridge.wait()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case refreshMsg:
		m.reload()
		return m, m.bridge.wait()

	case violationMsg:
		m.warning = core.Violation(msg).Message()
		m.reload()
		return m, m.bridge.wait()

	case noticeExpiredMsg:
		if m.notice != nil && m.notice.Seq == msg.seq {
			m.notice = nil
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	return m.render()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		m.activate()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.docs)-1 {
			m.selected++
		}
		m.activate()
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		return m.toggle()

	case key.Matches(msg, m.keys.Status):
		if doc, ok := m.current(); ok {
			m.message = m.presenter.StatusMessage(m.host.Service.Status(doc.ID()))
		}
		return m, nil

	case key.Matches(msg, m.keys.Tamper):
		if doc, ok := m.current(); ok {
			text := doc.Text() + "\n// edited " + time.Now().Format(time.Kitchen)
			m.setError(m.host.Workspace.Edit(m.ctx, doc.ID(), text))
			m.reload()
		}
		return m, nil

	case key.Matches(msg, m.keys.Undo):
		if doc, ok := m.current(); ok {
			m.setError(m.host.Workspace.Undo(m.ctx, doc.ID()))
			m.reload()
		}
		return m, nil

	case key.Matches(msg, m.keys.Save):
		if doc, ok := m.current(); ok {
			err := m.host.Workspace.Save(m.ctx, doc.ID())
			if err == nil {
				m.message = "Saved " + doc.ID().Base()
			} else if !errors.Is(err, core.ErrReadOnly) {
				m.setError(err)
			}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) toggle() (tea.Model, tea.Cmd) {
	doc, ok := m.current()
	if !ok {
		return m, nil
	}
	readOnly, err := m.host.Service.Toggle(m.ctx, doc.ID())
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.warning = ""
	m.activate()

	note := m.presenter.Announce(doc.ID(), readOnly)
	m.notice = &note
	seq := note.Seq
	return m, tea.Tick(m.presenter.Notifier.Timeout(), func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (m *Model) setError(err error) {
	if err != nil {
		m.message = "Error: " + err.Error()
	}
}

// reload re-reads the open documents, keeping the selection on the same ID.
func (m *Model) reload() {
	var selectedID core.DocumentID
	if doc, ok := m.current(); ok {
		selectedID = doc.ID()
	}
	m.docs = m.host.Workspace.Documents()
	m.selected = 0
	for i, doc := range m.docs {
		if doc.ID() == selectedID {
			m.selected = i
			break
		}
	}
	m.activate()
}

// activate points the presenter's indicator at the selected document.
func (m *Model) activate() {
	doc, ok := m.current()
	if !ok {
		m.presenter.Activate("", false)
		return
	}
	m.presenter.Activate(doc.ID(), m.host.Service.IsReadOnly(doc.ID()))
}

func (m Model) current() (core.Document, bool) {
	if m.selected < 0 || m.selected >= len(m.docs) {
		return nil, false
	}
	return m.docs[m.selected], true
}
