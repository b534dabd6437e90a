package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/branchsync/internal/common"
	"github.com/dmitrijs2005/branchsync/internal/dbx"
	"github.com/dmitrijs2005/branchsync/internal/models"
)

// ExportFullSnapshot reads every collection plus the settings namespace
// into a single aggregate for whole-database backup.
func (s *Store) ExportFullSnapshot(ctx context.Context) (*models.FullSnapshot, error) {
	master, err := s.MasterData(ctx)
	if err != nil {
		return nil, err
	}

	operational, err := s.AllOperational(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}

	return &models.FullSnapshot{
		ExportedAt:  time.Now().UTC(),
		Master:      master,
		Operational: operational,
		Settings:    settings,
	}, nil
}

// ImportFullSnapshot overwrites every collection with the contents of the
// given aggregate. The restore is destructive: existing collections are
// replaced wholesale. A payload missing either top-level collection set is
// rejected with common.ErrValidation and nothing is applied.
func (s *Store) ImportFullSnapshot(ctx context.Context, snap *models.FullSnapshot) error {
	if snap == nil || snap.Master == nil || snap.Operational == nil {
		return fmt.Errorf("snapshot is missing required collections: %w", common.ErrValidation)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := replaceMasterData(ctx, tx, snap.Master); err != nil {
			return err
		}

		for _, table := range operationalTables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		op := snap.Operational
		for i := range op.Transactions {
			if err := upsertTransaction(ctx, tx, &op.Transactions[i]); err != nil {
				return err
			}
		}
		for i := range op.Expenses {
			if err := upsertExpense(ctx, tx, &op.Expenses[i]); err != nil {
				return err
			}
		}
		for i := range op.StockAdjustments {
			if err := upsertStockAdjustment(ctx, tx, &op.StockAdjustments[i]); err != nil {
				return err
			}
		}
		for i := range op.AuditLogs {
			if err := upsertAuditLog(ctx, tx, &op.AuditLogs[i]); err != nil {
				return err
			}
		}
		for i := range op.OtherIncomes {
			if err := upsertOtherIncome(ctx, tx, &op.OtherIncomes[i]); err != nil {
				return err
			}
		}

		for key, value := range snap.Settings {
			if err := setKV(ctx, tx, "settings", key, value); err != nil {
				return err
			}
		}

		return nil
	})
}
