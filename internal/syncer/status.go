package syncer

import (
	"sync"
	"time"
)

// Status is the background indicator shown in the UI. Independent triggers
// may overwrite it concurrently; it is cosmetic, never a workflow gate.
// Callers that need a reliable outcome use the Report returned by the
// trigger itself.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// statusBoard keeps the shared display status plus the first error message
// of the last failed sync, and reverts to idle after the display window.
type statusBoard struct {
	mu            sync.Mutex
	status        Status
	lastError     string
	displayWindow time.Duration
	revert        *time.Timer
}

func newStatusBoard(displayWindow time.Duration) *statusBoard {
	return &statusBoard{status: StatusIdle, displayWindow: displayWindow}
}

func (b *statusBoard) setSyncing() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.revert != nil {
		b.revert.Stop()
		b.revert = nil
	}
	b.status = StatusSyncing
}

// finish records the outcome and schedules the revert to idle.
func (b *statusBoard) finish(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.status = StatusError
		b.lastError = err.Error()
	} else {
		b.status = StatusSuccess
		b.lastError = ""
	}

	if b.revert != nil {
		b.revert.Stop()
	}
	b.revert = time.AfterFunc(b.displayWindow, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.status = StatusIdle
	})
}

// Current returns the display status and the last error message, if any.
func (b *statusBoard) Current() (Status, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status, b.lastError
}
