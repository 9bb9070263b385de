package presentation_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/codefreeze/pkg/core"
	"github.com/aretw0/codefreeze/pkg/presentation"
)

func TestNotifier_Expires(t *testing.T) {
	var mu sync.Mutex
	var events []bool
	n := presentation.NewNotifier(20*time.Millisecond, func(_ presentation.Notification, visible bool) {
		mu.Lock()
		events = append(events, visible)
		mu.Unlock()
	})

	note := n.Show("main.go", true)
	assert.Equal(t, "🔒 main.go is now READ-ONLY", note.Text())

	current, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, note.Seq, current.Seq)

	assert.Eventually(t, func() bool {
		_, ok := n.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, events)
}

func TestNotifier_Preempts(t *testing.T) {
	n := presentation.NewNotifier(50*time.Millisecond, nil)

	first := n.Show("a.go", true)
	time.Sleep(30 * time.Millisecond)
	second := n.Show("a.go", false)
	assert.Greater(t, second.Seq, first.Seq)

	// The first timer would have fired by now; the second notification stays.
	time.Sleep(30 * time.Millisecond)
	current, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, second.Seq, current.Seq)
	assert.Equal(t, "🔓 a.go is now EDITABLE", current.Text())

	assert.Eventually(t, func() bool {
		_, ok := n.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestNotifier_HideAndDefaultTimeout(t *testing.T) {
	n := presentation.NewNotifier(0, nil)
	assert.Equal(t, presentation.DefaultNotificationTimeout, n.Timeout())

	n.Show("x", true)
	n.Hide()
	_, ok := n.Current()
	assert.False(t, ok)
	n.Hide() // no-op
}

func TestIndicator(t *testing.T) {
	i := presentation.NewIndicator(presentation.DefaultTheme.Styles())
	assert.Empty(t, i.Label())
	assert.Empty(t, i.View())

	i.Update(true)
	assert.Equal(t, presentation.LockedLabel, i.Label())
	assert.Contains(t, i.View(), presentation.LockedLabel)

	i.Update(false)
	assert.Equal(t, presentation.EditableLabel, i.Label())

	i.Hide()
	assert.Empty(t, i.Label())
}

func TestDecorate(t *testing.T) {
	styles := presentation.DefaultTheme.Styles()
	text := "line one\nline two"

	assert.Equal(t, text, presentation.Decorate(styles, text, false, 20))

	out := presentation.Decorate(styles, text, true, 20)
	assert.Contains(t, out, strings.TrimSpace(presentation.BannerText))
	assert.Contains(t, out, "line one")
	assert.True(t, strings.HasSuffix(out, "\nline two"))
	assert.Equal(t, 3, strings.Count(out, "\n")+1)
}

func TestPresenter(t *testing.T) {
	var warnings bytes.Buffer
	p := presentation.New(presentation.Config{Warnings: &warnings, Timeout: time.Minute})
	id := core.DocumentID("file:///src/app.go")

	t.Run("Indicator Follows Active Document", func(t *testing.T) {
		p.StateChanged(id, true)
		assert.Empty(t, p.Indicator.Label(), "inactive documents do not drive the indicator")

		p.Activate(id, true)
		assert.Equal(t, presentation.LockedLabel, p.Indicator.Label())

		p.StateChanged(id, false)
		assert.Equal(t, presentation.EditableLabel, p.Indicator.Label())

		p.Activate("", false)
		assert.Empty(t, p.Indicator.Label())
	})

	t.Run("Violations Are Written", func(t *testing.T) {
		p.ReportViolation(core.Violation{DocumentID: id, Kind: core.ViolationEdit, Recovery: core.RecoveryRestored})
		assert.Equal(t, "Cannot edit app.go - file is in Read-Only mode\n", warnings.String())
	})

	t.Run("Announce", func(t *testing.T) {
		note := p.Announce(id, true)
		assert.Equal(t, "app.go", note.FileName)
		current, ok := p.Notifier.Current()
		require.True(t, ok)
		assert.True(t, current.ReadOnly)
	})

	t.Run("Status Message", func(t *testing.T) {
		msg := p.StatusMessage(core.Status{DocumentID: id, ReadOnly: true})
		assert.Equal(t, "app.go is currently in READ-ONLY mode. Use Ctrl+Alt+L to toggle.", msg)
	})

	t.Run("Decorate Uses Known State", func(t *testing.T) {
		p.StateChanged(id, true)
		assert.Contains(t, p.Decorate(id, "x", 0), strings.TrimSpace(presentation.BannerText))
		assert.Equal(t, "x", p.Decorate("file:///other", "x", 0))
	})
}
