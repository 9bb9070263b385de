package fs

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of events per key (editors often write a file in
// several steps) and fires the last callback once the key has been quiet.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
	stopped bool
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

// add schedules fn for key, replacing any pending callback for the same key.
func (d *debouncer) add(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if t, ok := d.timers[key]; ok && t.Stop() {
		d.wg.Done() // the pending callback will never run
	}

	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		// add holds d.mu until t is assigned.
		d.mu.Lock()
		stopped := d.stopped
		if d.timers[key] == t {
			delete(d.timers, key)
		}
		d.mu.Unlock()

		if !stopped {
			fn()
		}
	})
	d.timers[key] = t
}

// stopAndWait rejects new events, cancels pending ones and waits for running
// callbacks, up to timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
