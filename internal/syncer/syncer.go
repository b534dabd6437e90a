// Package syncer decides when local changes are pushed to which remote
// backend. Operational records travel via the branch snapshot on the file
// backend; master data travels via the shared master snapshot, debounced;
// the row backend receives only operational records. The two payloads are
// never combined.
package syncer

import (
	"context"
	"time"

	"github.com/dmitrijs2005/branchsync/internal/backend/rowstore"
	"github.com/dmitrijs2005/branchsync/internal/logging"
)

// FileBackend is the snapshot-oriented remote.
type FileBackend interface {
	Configured(ctx context.Context) bool
	UploadBranchSnapshot(ctx context.Context) error
	UploadMasterSnapshot(ctx context.Context) error
}

// RowBackend is the per-record upsert remote.
type RowBackend interface {
	Configured(ctx context.Context) bool
	PushSalesUp(ctx context.Context) rowstore.Result
}

// Report is the per-trigger outcome returned to the caller: one line per
// attempted backend, never failing fast on the first error.
type Report struct {
	Lines []string
	AllOK bool
}

type Orchestrator struct {
	file  FileBackend
	row   RowBackend
	log   logging.Logger
	board *statusBoard
	// masterDebounce fires the master push once mutations go quiet. Master
	// changes are signalled explicitly by the write paths (MarkMasterDirty)
	// rather than detected by diffing aggregates, so a push can neither be
	// missed by an in-place mutation nor faked by an unrelated re-render.
	masterDebounce *debouncer
}

func New(file FileBackend, row RowBackend, debounceWindow, displayWindow time.Duration, log logging.Logger) *Orchestrator {
	o := &Orchestrator{
		file:  file,
		row:   row,
		log:   log,
		board: newStatusBoard(displayWindow),
	}
	o.masterDebounce = newDebouncer(debounceWindow, func() {
		o.pushMaster(context.Background())
	})
	return o
}

// Status returns the shared display status and last error message.
func (o *Orchestrator) Status() (Status, string) {
	return o.board.Current()
}

// Stop cancels any pending debounced master push.
func (o *Orchestrator) Stop() {
	o.masterDebounce.Stop()
}

// TriggerAutoSync pushes this branch's snapshot after a local mutation
// with clear provenance (a completed sale, an admin action). It no-ops
// entirely, without touching the status, when no backend is configured.
// Failures are logged and swallowed: a background push must never
// interrupt the user action that triggered it.
func (o *Orchestrator) TriggerAutoSync(ctx context.Context) {
	if !o.file.Configured(ctx) && !o.row.Configured(ctx) {
		return
	}

	o.board.setSyncing()

	var err error
	if o.file.Configured(ctx) {
		if err = o.file.UploadBranchSnapshot(ctx); err != nil {
			o.log.Warn(ctx, "branch snapshot push failed", "error", err)
		}
	}

	o.board.finish(err)
}

// MarkMasterDirty signals that a master-data write happened. Repeated
// signals within the quiet window collapse into one master push after the
// window elapses with no further signals.
func (o *Orchestrator) MarkMasterDirty() {
	o.masterDebounce.Trigger()
}

// pushMaster is the debounced master-snapshot push. Best-effort: errors
// are logged, recorded on the status board and swallowed.
func (o *Orchestrator) pushMaster(ctx context.Context) {
	if !o.file.Configured(ctx) {
		return
	}

	o.board.setSyncing()

	err := o.file.UploadMasterSnapshot(ctx)
	if err != nil {
		o.log.Warn(ctx, "master snapshot push failed", "error", err)
	}

	o.board.finish(err)
}

// SyncNow is the explicit "sync now" action: every configured backend is
// attempted, and the report carries one line per backend so one backend's
// failure cannot suppress another's success.
func (o *Orchestrator) SyncNow(ctx context.Context) *Report {
	o.board.setSyncing()

	report := &Report{AllOK: true}
	var firstErr error

	fileConfigured := o.file.Configured(ctx)
	rowConfigured := o.row.Configured(ctx)

	if !fileConfigured && !rowConfigured {
		report.AllOK = false
		report.Lines = append(report.Lines, "no backend configured — connect one in settings")
		o.board.finish(nil)
		return report
	}

	if fileConfigured {
		if err := o.file.UploadBranchSnapshot(ctx); err != nil {
			report.AllOK = false
			report.Lines = append(report.Lines, "file backend: failed: "+err.Error())
			if firstErr == nil {
				firstErr = err
			}
		} else {
			report.Lines = append(report.Lines, "file backend: branch snapshot uploaded")
		}
	}

	if rowConfigured {
		res := o.row.PushSalesUp(ctx)
		if !res.Success {
			report.AllOK = false
			report.Lines = append(report.Lines, "relational backend: failed: "+res.Message)
			if firstErr == nil {
				firstErr = errorString(res.Message)
			}
		} else {
			report.Lines = append(report.Lines, "relational backend: "+res.Message)
		}
	}

	o.board.finish(firstErr)
	return report
}

type errorString string

func (e errorString) Error() string { return string(e) }
