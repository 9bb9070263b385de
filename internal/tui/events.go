package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aretw0/codefreeze/pkg/core"
)

// refreshMsg asks the model to re-read the workspace.
type refreshMsg struct{}

// violationMsg carries a violation reported by the core.
type violationMsg core.Violation

// violationReadyMsg wakes the loop for a queued violation.
type violationReadyMsg struct{}

// noticeExpiredMsg hides notification seq unless a newer one replaced it.
type noticeExpiredMsg struct{ seq uint64 }

// Bridge is subscribed to the workspace and registered as a reporter; it
// turns callbacks from the core (any goroutine) into messages for the
// Bubble Tea loop.
//
// Refreshes are dropped when the loop is behind. Violations are queued
// without bound so every one of them surfaces as a warning.
type Bridge struct {
	ch chan tea.Msg

	mu         sync.Mutex
	violations []core.Violation
}

// NewBridge creates a bridge.
func NewBridge() *Bridge {
	return &Bridge{ch: make(chan tea.Msg, 64)}
}

func (b *Bridge) post(msg tea.Msg) {
	select {
	case b.ch <- msg:
	default:
		// loop is behind; a pending refresh covers this one
	}
}

func (b *Bridge) DidOpen(context.Context, core.DocumentID)    { b.post(refreshMsg{}) }
func (b *Bridge) DidChange(context.Context, core.ChangeEvent) { b.post(refreshMsg{}) }
func (b *Bridge) WillSave(context.Context, core.SaveEvent) error {
	return nil
}

func (b *Bridge) StateChanged(core.DocumentID, bool) { b.post(refreshMsg{}) }

func (b *Bridge) ReportViolation(v core.Violation) {
	b.mu.Lock()
	b.violations = append(b.violations, v)
	b.mu.Unlock()
	b.post(violationReadyMsg{})
}

func (b *Bridge) nextViolation() (core.Violation, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.violations) == 0 {
		return core.Violation{}, false
	}
	v := b.violations[0]
	b.violations = b.violations[1:]
	return v, true
}

// wait returns a command that delivers the next bridged message. Queued
// violations go first.
func (b *Bridge) wait() tea.Cmd {
	return func() tea.Msg {
		if v, ok := b.nextViolation(); ok {
			return violationMsg(v)
		}
		msg := <-b.ch
		if _, ok := msg.(violationReadyMsg); ok {
			if v, ok := b.nextViolation(); ok {
				return violationMsg(v)
			}
			// already delivered by an earlier wait
			return refreshMsg{}
		}
		return msg
	}
}

var (
	_ core.Listener = (*Bridge)(nil)
	_ core.Reporter = (*Bridge)(nil)
)
