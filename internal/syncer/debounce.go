package syncer

import (
	"sync"
	"time"
)

// debouncer collapses bursts of triggers into a single callback fired once
// the quiet window elapses with no further triggers. The timer is owned by
// the orchestrator instance; Reconfigure cancels any pending fire.
type debouncer struct {
	mu     sync.Mutex
	window time.Duration
	timer  *time.Timer
	fn     func()
}

func newDebouncer(window time.Duration, fn func()) *debouncer {
	return &debouncer{window: window, fn: fn}
}

// Trigger (re)starts the quiet window.
func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fn)
}

// Reconfigure changes the quiet window and cancels any pending fire.
func (d *debouncer) Reconfigure(window time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.window = window
}

// Stop cancels any pending fire.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
