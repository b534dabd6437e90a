package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/branchsync/internal/archive"
	"github.com/dmitrijs2005/branchsync/internal/common"
)

// Archive walks the user through one archival session: pick a window, see
// the counts, export, then optionally purge. The purge stays locked until
// an export succeeds in this session.
func (a *App) Archive(ctx context.Context) {
	window, err := GetSimpleText(a.reader, "retention window: 1m, 3m, 6m or 1y", a.out)
	if err != nil {
		return
	}

	cutoff, err := archive.ComputeCutoff(time.Now(), archive.Window(window))
	if err != nil {
		fmt.Println(err)
		return
	}

	session := a.engine.NewSession(a.orchestrator)

	counts, err := session.Count(ctx, cutoff)
	if err != nil {
		fmt.Println(userMessage(err))
		return
	}
	fmt.Printf("older than %s:\n", cutoff.Format("2006-01-02"))
	fmt.Printf("  transactions: %d\n  audit logs:   %d\n  other:        %d\n  total:        %d\n",
		counts.Transactions, counts.AuditLogs, counts.Other, counts.Total)

	format, err := GetSimpleText(a.reader, "export format: json, csv or doc", a.out)
	if err != nil {
		return
	}

	path, err := session.Export(ctx, cutoff, archive.Format(format))
	if err != nil {
		if errors.Is(err, common.ErrEmptyData) {
			fmt.Println("nothing to archive in that range")
			return
		}
		fmt.Println(userMessage(err))
		return
	}
	fmt.Printf("exported to %s\n", path)

	ok, err := Confirm(a.reader, "delete the exported records from this device?", a.out)
	if err != nil || !ok {
		return
	}

	deleted, err := session.Purge(ctx, cutoff)
	if err != nil {
		fmt.Println(userMessage(err))
		return
	}
	fmt.Printf("purged %d records; remote snapshot will be refreshed\n", deleted)
}
