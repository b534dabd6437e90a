package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/branchsync/internal/common"
	"github.com/dmitrijs2005/branchsync/internal/dbx"
	"github.com/dmitrijs2005/branchsync/internal/models"
)

// operationalTables lists the collections that hold operational records,
// in purge order.
var operationalTables = []string{
	"transactions",
	"expenses",
	"stock_adjustments",
	"audit_logs",
	"other_incomes",
}

// OperationalSince returns every operational record created at or after
// cutoff.
func (s *Store) OperationalSince(ctx context.Context, cutoff time.Time) (*models.OperationalData, error) {
	return s.operationalWhere(ctx, "created_at >= ?", cutoff.Unix())
}

// OperationalOlderThan returns every operational record created before
// cutoff. Used by the archival export.
func (s *Store) OperationalOlderThan(ctx context.Context, cutoff time.Time) (*models.OperationalData, error) {
	return s.operationalWhere(ctx, "created_at < ?", cutoff.Unix())
}

// AllOperational returns the complete operational data set.
func (s *Store) AllOperational(ctx context.Context) (*models.OperationalData, error) {
	return s.operationalWhere(ctx, "1=1")
}

func (s *Store) operationalWhere(ctx context.Context, cond string, args ...any) (*models.OperationalData, error) {
	data := &models.OperationalData{}

	var err error
	if data.Transactions, err = queryTransactions(ctx, s.db, cond, args...); err != nil {
		return nil, err
	}
	if data.Expenses, err = queryExpenses(ctx, s.db, cond, args...); err != nil {
		return nil, err
	}
	if data.StockAdjustments, err = queryStockAdjustments(ctx, s.db, cond, args...); err != nil {
		return nil, err
	}
	if data.AuditLogs, err = queryAuditLogs(ctx, s.db, cond, args...); err != nil {
		return nil, err
	}
	if data.OtherIncomes, err = queryOtherIncomes(ctx, s.db, cond, args...); err != nil {
		return nil, err
	}

	return data, nil
}

// DeleteOperationalOlderThan deletes every operational record created
// before cutoff and returns the number of rows removed. Each collection is
// deleted in its own transaction; a failure partway leaves earlier
// collections purged. The wrapped common.ErrStorage marks that state as
// fatal and user-visible, not silently retryable.
func (s *Store) DeleteOperationalOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64

	for _, table := range operationalTables {
		err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			res, err := tx.ExecContext(ctx,
				fmt.Sprintf("DELETE FROM %s WHERE created_at < ?", table), cutoff.Unix())
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			total += n
			return nil
		})
		if err != nil {
			return total, fmt.Errorf("purge %s: %v: %w", table, err, common.ErrStorage)
		}
	}

	return total, nil
}

func queryTransactions(ctx context.Context, db dbx.DBTX, cond string, args ...any) ([]models.Transaction, error) {
	query := `SELECT id, branch_id, user_name, payment_status, total, items, created_at
		FROM transactions WHERE ` + cond
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select transactions: %w", err)
	}
	defer rows.Close()

	var result []models.Transaction
	for rows.Next() {
		var item models.Transaction
		var items []byte
		var createdAt int64
		if err := rows.Scan(&item.ID, &item.BranchID, &item.UserName, &item.PaymentStatus,
			&item.Total, &items, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &item.Items); err != nil {
			return nil, fmt.Errorf("failed to decode items for %s: %w", item.ID, err)
		}
		item.CreatedAt = time.Unix(createdAt, 0).UTC()
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func queryExpenses(ctx context.Context, db dbx.DBTX, cond string, args ...any) ([]models.Expense, error) {
	query := `SELECT id, branch_id, description, category, amount, created_at
		FROM expenses WHERE ` + cond
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select expenses: %w", err)
	}
	defer rows.Close()

	var result []models.Expense
	for rows.Next() {
		var item models.Expense
		var createdAt int64
		if err := rows.Scan(&item.ID, &item.BranchID, &item.Description, &item.Category,
			&item.Amount, &createdAt); err != nil {
			return nil, err
		}
		item.CreatedAt = time.Unix(createdAt, 0).UTC()
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func queryStockAdjustments(ctx context.Context, db dbx.DBTX, cond string, args ...any) ([]models.StockAdjustment, error) {
	query := `SELECT id, branch_id, item_id, item_type, delta, reason, user_name, created_at
		FROM stock_adjustments WHERE ` + cond
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select stock adjustments: %w", err)
	}
	defer rows.Close()

	var result []models.StockAdjustment
	for rows.Next() {
		var item models.StockAdjustment
		var createdAt int64
		if err := rows.Scan(&item.ID, &item.BranchID, &item.ItemID, &item.ItemType,
			&item.Delta, &item.Reason, &item.UserName, &createdAt); err != nil {
			return nil, err
		}
		item.CreatedAt = time.Unix(createdAt, 0).UTC()
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func queryAuditLogs(ctx context.Context, db dbx.DBTX, cond string, args ...any) ([]models.AuditLog, error) {
	query := `SELECT id, branch_id, action, user_name, details, created_at
		FROM audit_logs WHERE ` + cond
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select audit logs: %w", err)
	}
	defer rows.Close()

	var result []models.AuditLog
	for rows.Next() {
		var item models.AuditLog
		var createdAt int64
		if err := rows.Scan(&item.ID, &item.BranchID, &item.Action, &item.UserName,
			&item.Details, &createdAt); err != nil {
			return nil, err
		}
		item.CreatedAt = time.Unix(createdAt, 0).UTC()
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func queryOtherIncomes(ctx context.Context, db dbx.DBTX, cond string, args ...any) ([]models.OtherIncome, error) {
	query := `SELECT id, branch_id, description, amount, created_at
		FROM other_incomes WHERE ` + cond
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select other incomes: %w", err)
	}
	defer rows.Close()

	var result []models.OtherIncome
	for rows.Next() {
		var item models.OtherIncome
		var createdAt int64
		if err := rows.Scan(&item.ID, &item.BranchID, &item.Description, &item.Amount,
			&createdAt); err != nil {
			return nil, err
		}
		item.CreatedAt = time.Unix(createdAt, 0).UTC()
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
