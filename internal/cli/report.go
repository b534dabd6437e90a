package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/branchsync/internal/common"
	"github.com/dmitrijs2005/branchsync/internal/report"
)

// ReportExport prints an encrypted block holding every local transaction,
// ready to paste into any text channel.
func (a *App) ReportExport(ctx context.Context) {
	data, err := a.store.AllOperational(ctx)
	if err != nil {
		fmt.Println(userMessage(err))
		return
	}

	block, err := report.Encode(data.Transactions)
	if err != nil {
		if errors.Is(err, common.ErrEmptyData) {
			fmt.Println("no transactions to report")
			return
		}
		fmt.Println(err)
		return
	}
	fmt.Println(block)
}

// ReportImport reads an encrypted block and merges its transactions into
// the local store by id.
func (a *App) ReportImport(ctx context.Context) {
	block, err := GetSimpleText(a.reader, "paste the report block", a.out)
	if err != nil {
		return
	}

	items, err := report.Decode(block)
	if err != nil {
		fmt.Println("report rejected:", err)
		return
	}

	if err := a.store.MergeTransactions(ctx, items); err != nil {
		fmt.Println(userMessage(err))
		return
	}
	fmt.Printf("merged %d transaction(s)\n", len(items))
	a.orchestrator.TriggerAutoSync(ctx)
}
