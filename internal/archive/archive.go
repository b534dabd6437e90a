// Package archive implements the data-retention workflow: compute a
// cutoff, count what falls behind it, export that slice to a durable file
// and only then purge it from the local store.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/branchsync/internal/logging"
	"github.com/dmitrijs2005/branchsync/internal/models"
)

// Window is a retention window selectable by the user.
type Window string

const (
	Window1Month  Window = "1m"
	Window3Months Window = "3m"
	Window6Months Window = "6m"
	Window1Year   Window = "1y"
)

// ComputeCutoff subtracts the window from now using calendar arithmetic:
// one month back from March 15 is February 15, not 28/29/30/31 days.
func ComputeCutoff(now time.Time, w Window) (time.Time, error) {
	switch w {
	case Window1Month:
		return now.AddDate(0, -1, 0), nil
	case Window3Months:
		return now.AddDate(0, -3, 0), nil
	case Window6Months:
		return now.AddDate(0, -6, 0), nil
	case Window1Year:
		return now.AddDate(-1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown retention window %q", w)
	}
}

// Counts holds per-category record counts behind a cutoff, for the user
// confirmation display.
type Counts struct {
	Transactions int
	AuditLogs    int
	// Other covers expenses, other income and stock adjustment logs.
	Other int
	Total int
}

// Store is the slice of the local store the engine needs.
type Store interface {
	OperationalOlderThan(ctx context.Context, cutoff time.Time) (*models.OperationalData, error)
	DeleteOperationalOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Engine struct {
	store Store
	log   logging.Logger
}

func NewEngine(store Store, log logging.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// CountOldData counts records older than cutoff per category. The counts
// are informational only; they are not a precondition for export.
func (e *Engine) CountOldData(ctx context.Context, cutoff time.Time) (*Counts, error) {
	data, err := e.store.OperationalOlderThan(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("count old data: %w", err)
	}

	c := &Counts{
		Transactions: len(data.Transactions),
		AuditLogs:    len(data.AuditLogs),
		Other:        len(data.Expenses) + len(data.OtherIncomes) + len(data.StockAdjustments),
	}
	c.Total = c.Transactions + c.AuditLogs + c.Other
	return c, nil
}

// Purge deletes every operational record older than cutoff and returns the
// deleted count. The export-before-purge gate is not enforced here: it is a
// session-scoped workflow invariant that cannot be verified from data
// alone. Use Session.Purge.
func (e *Engine) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := e.store.DeleteOperationalOlderThan(ctx, cutoff)
	if err != nil {
		return n, err
	}
	e.log.Info(ctx, "purged operational records", "cutoff", cutoff, "deleted", n)
	return n, nil
}
