package presentation

import (
	"sync"
	"time"
)

// DefaultNotificationTimeout is how long a toggle notification stays visible.
const DefaultNotificationTimeout = 5 * time.Second

// Notification is the transient message shown after a toggle.
type Notification struct {
	Seq      uint64
	FileName string
	ReadOnly bool
	Shown    time.Time
}

// Text renders the notification message.
func (n Notification) Text() string {
	if n.ReadOnly {
		return "🔒 " + n.FileName + " is now READ-ONLY"
	}
	return "🔓 " + n.FileName + " is now EDITABLE"
}

// Notifier keeps at most one notification visible. Showing a new one
// preempts the current one; each expires on its own timer.
type Notifier struct {
	mu       sync.Mutex
	timeout  time.Duration
	current  *Notification
	timer    *time.Timer
	seq      uint64
	onChange func(n Notification, visible bool)
}

// NewNotifier creates a notifier. A zero timeout means the default.
// onChange, if set, runs on every show and hide, outside the notifier lock.
func NewNotifier(timeout time.Duration, onChange func(n Notification, visible bool)) *Notifier {
	if timeout <= 0 {
		timeout = DefaultNotificationTimeout
	}
	return &Notifier{timeout: timeout, onChange: onChange}
}

// Timeout returns the display duration.
func (n *Notifier) Timeout() time.Duration { return n.timeout }

// Show displays a notification for fileName, replacing the current one.
func (n *Notifier) Show(fileName string, readOnly bool) Notification {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.seq++
	note := Notification{Seq: n.seq, FileName: fileName, ReadOnly: readOnly, Shown: time.Now()}
	n.current = &note
	seq := n.seq
	n.timer = time.AfterFunc(n.timeout, func() { n.expire(seq) })
	n.mu.Unlock()

	n.changed(note, true)
	return note
}

// Current returns the visible notification, if any.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

// Hide removes the visible notification early.
func (n *Notifier) Hide() {
	n.mu.Lock()
	note := n.current
	n.current = nil
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.mu.Unlock()

	if note != nil {
		n.changed(*note, false)
	}
}

// expire hides notification seq unless it was already preempted.
func (n *Notifier) expire(seq uint64) {
	n.mu.Lock()
	if n.current == nil || n.current.Seq != seq {
		n.mu.Unlock()
		return
	}
	note := *n.current
	n.current = nil
	n.timer = nil
	n.mu.Unlock()

	n.changed(note, false)
}

func (n *Notifier) changed(note Notification, visible bool) {
	if n.onChange != nil {
		n.onChange(note, visible)
	}
}
