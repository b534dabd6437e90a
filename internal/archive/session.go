package archive

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExportRequired is returned by Session.Purge when no export for an
// equal-or-later cutoff has succeeded in the session.
var ErrExportRequired = errors.New("export must succeed before purge")

// SyncNotifier is the cooperative hook back into the sync orchestrator:
// after a purge the branch snapshot must be re-pushed so the remote copy
// shrinks too.
type SyncNotifier interface {
	TriggerAutoSync(ctx context.Context)
}

// Session is one archival interaction. The export-before-purge gate is
// session-scoped, not data-scoped: the store cannot tell from the data
// alone whether an export happened, so the session tracks it. The flag is
// deliberately not shared with the orchestrator's sync status, which
// concurrent triggers may overwrite at any time.
type Session struct {
	engine   *Engine
	notifier SyncNotifier

	exported       bool
	exportedCutoff time.Time
}

// NewSession starts an archival session. notifier may be nil (no re-push
// after purge).
func (e *Engine) NewSession(notifier SyncNotifier) *Session {
	return &Session{engine: e, notifier: notifier}
}

// Count forwards to the engine's confirmation-display counts.
func (s *Session) Count(ctx context.Context, cutoff time.Time) (*Counts, error) {
	return s.engine.CountOldData(ctx, cutoff)
}

// Export exports the slice and, on success, unlocks purge for any cutoff
// at or before the exported one.
func (s *Session) Export(ctx context.Context, cutoff time.Time, format Format) (string, error) {
	path, err := s.engine.ExportSlice(ctx, cutoff, format)
	if err != nil {
		return "", err
	}

	if !s.exported || cutoff.After(s.exportedCutoff) {
		s.exportedCutoff = cutoff
	}
	s.exported = true
	return path, nil
}

// Purge fails fast with ErrExportRequired unless an export for an
// equal-or-later cutoff succeeded earlier in this session. After a
// successful purge it asks the orchestrator to re-push the branch
// snapshot.
func (s *Session) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	if !s.exported || cutoff.After(s.exportedCutoff) {
		return 0, fmt.Errorf("cutoff %s: %w", cutoff.Format("2006-01-02"), ErrExportRequired)
	}

	n, err := s.engine.Purge(ctx, cutoff)
	if err != nil {
		return n, err
	}

	if s.notifier != nil {
		s.notifier.TriggerAutoSync(ctx)
	}
	return n, nil
}
