package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/branchsync/internal/common"
)

// SyncNow runs an explicit multi-backend sync and prints the per-backend
// report.
func (a *App) SyncNow(ctx context.Context) {
	report := a.orchestrator.SyncNow(ctx)
	for _, line := range report.Lines {
		fmt.Println(line)
	}
}

// PushMaster pushes the master snapshot immediately, outside the debounce.
func (a *App) PushMaster(ctx context.Context) {
	if err := a.file.UploadMasterSnapshot(ctx); err != nil {
		fmt.Println(userMessage(err))
		return
	}
	fmt.Println("master snapshot uploaded")
}

// PullMaster downloads the shared master snapshot and replaces local
// master collections with it. Local-only master edits since the last push
// are discarded; that is the snapshot model's merge granularity.
func (a *App) PullMaster(ctx context.Context) {
	err := a.file.DownloadAndMergeMasterSnapshot(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			fmt.Println("no master snapshot has been pushed yet")
			return
		}
		fmt.Println(userMessage(err))
		return
	}
	fmt.Println("master data merged")
}

// Branches lists every branch snapshot for administrative aggregation.
func (a *App) Branches(ctx context.Context) {
	snaps, err := a.file.ListBranchSnapshots(ctx)
	if err != nil {
		fmt.Println(userMessage(err))
		return
	}
	if len(snaps) == 0 {
		fmt.Println("no branch snapshots found")
		return
	}
	for i := range snaps {
		s := &snaps[i]
		count := 0
		if s.Operational != nil {
			count = len(s.Operational.Transactions)
		}
		fmt.Printf("%-12s pushed %s, %d transactions\n",
			s.BranchID, s.CreatedAt.Format("2006-01-02 15:04"), count)
	}
}

// ClearRemote deletes the operational rows on the relational backend.
func (a *App) ClearRemote(ctx context.Context) {
	ok, err := Confirm(a.reader, "delete all remote sales rows?", a.out)
	if err != nil || !ok {
		return
	}
	res := a.row.ClearSales(ctx)
	fmt.Println(res.Message)
}

// PurgeArchiveFolder deletes the stale report archive folder on the file
// backend.
func (a *App) PurgeArchiveFolder(ctx context.Context) {
	n, err := a.file.PurgeArchiveFolder(ctx)
	if err != nil {
		fmt.Println(userMessage(err))
		return
	}
	if n == 0 {
		fmt.Println("archive folder already empty")
		return
	}
	fmt.Printf("deleted %d archived objects\n", n)
}

// userMessage folds the error taxonomy into actionable text:
// configuration problems are fixable in settings, transient problems are
// retryable, destructive-action failures need manual reconciliation.
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrNotConfigured):
		return "backend not configured — run 'configure' first"
	case errors.Is(err, common.ErrAuthExpired):
		return "authorization rejected — reconnect the backend in 'configure'"
	case errors.Is(err, common.ErrQuotaExceeded):
		return "remote storage is full — run 'archive' to shrink the data set"
	case errors.Is(err, common.ErrStorage):
		return "local storage failed partway — data may be partially purged, reconcile manually: " + err.Error()
	case errors.Is(err, common.ErrUpload), errors.Is(err, common.ErrNetwork):
		return "temporary failure, try again: " + err.Error()
	default:
		return err.Error()
	}
}
