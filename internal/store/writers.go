package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/branchsync/internal/dbx"
	"github.com/dmitrijs2005/branchsync/internal/models"
)

// SaveTransaction upserts a transaction by id. Only status-like fields are
// expected to change on conflict; the upsert rewrites the full row.
func (s *Store) SaveTransaction(ctx context.Context, t *models.Transaction) error {
	return upsertTransaction(ctx, s.db, t)
}

func (s *Store) SaveExpense(ctx context.Context, e *models.Expense) error {
	return upsertExpense(ctx, s.db, e)
}

func (s *Store) SaveStockAdjustment(ctx context.Context, a *models.StockAdjustment) error {
	return upsertStockAdjustment(ctx, s.db, a)
}

func (s *Store) SaveAuditLog(ctx context.Context, l *models.AuditLog) error {
	return upsertAuditLog(ctx, s.db, l)
}

func (s *Store) SaveOtherIncome(ctx context.Context, o *models.OtherIncome) error {
	return upsertOtherIncome(ctx, s.db, o)
}

// MergeTransactions upserts a batch of transactions in one transaction.
// Used when decoding an encrypted report back into the local store.
func (s *Store) MergeTransactions(ctx context.Context, items []models.Transaction) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for i := range items {
			if err := upsertTransaction(ctx, tx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertTransaction(ctx context.Context, db dbx.DBTX, t *models.Transaction) error {
	items, err := json.Marshal(t.Items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}

	query := `INSERT INTO transactions (id, branch_id, user_name, payment_status, total, items, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET branch_id = excluded.branch_id,
			user_name = excluded.user_name,
			payment_status = excluded.payment_status,
			total = excluded.total,
			items = excluded.items,
			created_at = excluded.created_at
	`
	_, err = db.ExecContext(ctx, query,
		t.ID, t.BranchID, t.UserName, t.PaymentStatus, t.Total.String(), string(items), t.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert transaction: %w", err)
	}
	return nil
}

func upsertExpense(ctx context.Context, db dbx.DBTX, e *models.Expense) error {
	query := `INSERT INTO expenses (id, branch_id, description, category, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET branch_id = excluded.branch_id,
			description = excluded.description,
			category = excluded.category,
			amount = excluded.amount,
			created_at = excluded.created_at
	`
	_, err := db.ExecContext(ctx, query,
		e.ID, e.BranchID, e.Description, e.Category, e.Amount.String(), e.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert expense: %w", err)
	}
	return nil
}

func upsertStockAdjustment(ctx context.Context, db dbx.DBTX, a *models.StockAdjustment) error {
	query := `INSERT INTO stock_adjustments (id, branch_id, item_id, item_type, delta, reason, user_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET branch_id = excluded.branch_id,
			item_id = excluded.item_id,
			item_type = excluded.item_type,
			delta = excluded.delta,
			reason = excluded.reason,
			user_name = excluded.user_name,
			created_at = excluded.created_at
	`
	_, err := db.ExecContext(ctx, query,
		a.ID, a.BranchID, a.ItemID, a.ItemType, a.Delta, a.Reason, a.UserName, a.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert stock adjustment: %w", err)
	}
	return nil
}

func upsertAuditLog(ctx context.Context, db dbx.DBTX, l *models.AuditLog) error {
	query := `INSERT INTO audit_logs (id, branch_id, action, user_name, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET branch_id = excluded.branch_id,
			action = excluded.action,
			user_name = excluded.user_name,
			details = excluded.details,
			created_at = excluded.created_at
	`
	_, err := db.ExecContext(ctx, query,
		l.ID, l.BranchID, l.Action, l.UserName, l.Details, l.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert audit log: %w", err)
	}
	return nil
}

func upsertOtherIncome(ctx context.Context, db dbx.DBTX, o *models.OtherIncome) error {
	query := `INSERT INTO other_incomes (id, branch_id, description, amount, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET branch_id = excluded.branch_id,
			description = excluded.description,
			amount = excluded.amount,
			created_at = excluded.created_at
	`
	_, err := db.ExecContext(ctx, query,
		o.ID, o.BranchID, o.Description, o.Amount.String(), o.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert other income: %w", err)
	}
	return nil
}
