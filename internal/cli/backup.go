package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/branchsync/internal/common"
)

// Backup uploads the full database snapshot for this branch.
func (a *App) Backup(ctx context.Context) {
	if err := a.file.UploadFullBackup(ctx); err != nil {
		fmt.Println(userMessage(err))
		return
	}
	fmt.Println("full backup uploaded")
}

// Restore replaces the local database with the remote backup. Destructive:
// existing collections are overwritten wholesale.
func (a *App) Restore(ctx context.Context) {
	ok, err := Confirm(a.reader, "overwrite ALL local data with the remote backup?", a.out)
	if err != nil || !ok {
		return
	}

	snap, err := a.file.DownloadFullBackup(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			fmt.Println("no backup found for this branch")
			return
		}
		fmt.Println(userMessage(err))
		return
	}

	if err := a.store.ImportFullSnapshot(ctx, snap); err != nil {
		if errors.Is(err, common.ErrValidation) {
			fmt.Println("backup is malformed, nothing was changed:", err)
			return
		}
		fmt.Println(userMessage(err))
		return
	}
	fmt.Println("restore complete")
}
