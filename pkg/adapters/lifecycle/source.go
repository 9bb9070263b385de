// Package lifecycle exposes codefreeze notifications as a lifecycle.Source,
// so hosts built on github.com/aretw0/lifecycle can consume them as events.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/codefreeze/pkg/core"
)

// Event kinds.
const (
	KindStateChanged = "state"
	KindViolation    = "violation"
)

// Event is a codefreeze notification.
type Event struct {
	Kind       string
	DocumentID core.DocumentID
	ReadOnly   bool
	Violation  *core.Violation
	Time       time.Time
}

// String implements lifecycle.Event.
func (e Event) String() string {
	if e.Kind == KindViolation && e.Violation != nil {
		return fmt.Sprintf("violation %s %s: %s", e.Violation.Kind, e.DocumentID, e.Violation.Recovery)
	}
	state := "editable"
	if e.ReadOnly {
		state = "read-only"
	}
	return fmt.Sprintf("state %s: %s", e.DocumentID, state)
}

// Feed is a core.Reporter that turns notifications into Events. Sends never
// block the core: when the buffer is full the event is dropped and counted.
type Feed struct {
	mu      sync.RWMutex
	ch      chan Event
	closed  bool
	dropped atomic.Int64
}

// NewFeed creates a feed with the given buffer size (default 64).
func NewFeed(buffer int) *Feed {
	if buffer <= 0 {
		buffer = 64
	}
	return &Feed{ch: make(chan Event, buffer)}
}

// Events returns the feed channel. It is closed by Close.
func (f *Feed) Events() <-chan Event { return f.ch }

// Dropped returns how many events were lost to a full buffer.
func (f *Feed) Dropped() int64 { return f.dropped.Load() }

// StateChanged implements core.Reporter.
func (f *Feed) StateChanged(id core.DocumentID, readOnly bool) {
	f.send(Event{Kind: KindStateChanged, DocumentID: id, ReadOnly: readOnly, Time: time.Now()})
}

// ReportViolation implements core.Reporter.
func (f *Feed) ReportViolation(v core.Violation) {
	f.send(Event{Kind: KindViolation, DocumentID: v.DocumentID, ReadOnly: true, Violation: &v, Time: v.Timestamp})
}

func (f *Feed) send(e Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return
	}
	select {
	case f.ch <- e:
	default:
		f.dropped.Add(1)
	}
}

// Close closes the feed channel.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.ch)
	}
}

var _ core.Reporter = (*Feed)(nil)

type feedSource struct {
	events <-chan Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits codefreeze events.
func NewSource(events <-chan Event) lifecycle.Source {
	return &feedSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *feedSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *feedSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
