package presentation

import "sync"

const (
	LockedLabel   = "🔒 READ-ONLY"
	EditableLabel = "✎ EDITABLE"
	BannerText    = " READ-ONLY MODE "
)

// Indicator is the status-bar item of the active document.
type Indicator struct {
	mu       sync.RWMutex
	visible  bool
	readOnly bool
	styles   Styles
}

// NewIndicator creates a hidden indicator.
func NewIndicator(styles Styles) *Indicator {
	return &Indicator{styles: styles}
}

// Update shows the indicator for the given state.
func (i *Indicator) Update(readOnly bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.visible = true
	i.readOnly = readOnly
}

// Hide hides the indicator (no active document).
func (i *Indicator) Hide() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.visible = false
}

// Label is the plain text of the indicator, empty while hidden.
func (i *Indicator) Label() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if !i.visible {
		return ""
	}
	if i.readOnly {
		return LockedLabel
	}
	return EditableLabel
}

// View renders the indicator.
func (i *Indicator) View() string {
	label := i.Label()
	if label == "" {
		return ""
	}
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.readOnly {
		return i.styles.Locked.Render(label)
	}
	return i.styles.Editable.Render(label)
}
