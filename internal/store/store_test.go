package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/branchsync/internal/common"
	"github.com/dmitrijs2005/branchsync/internal/models"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func tx(id string, createdAt time.Time, total string) *models.Transaction {
	return &models.Transaction{
		ID:            id,
		BranchID:      "b1",
		UserName:      "kasia",
		PaymentStatus: "paid",
		Total:         decimal.RequireFromString(total),
		Items: []models.TransactionItem{
			{ItemID: "p1", Name: "Coffee", ItemType: "product", Quantity: 2, Price: decimal.RequireFromString("2.50")},
		},
		CreatedAt: createdAt,
	}
}

func TestOperationalPartitionByCutoff(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	old := now.AddDate(0, -2, 0)

	require.NoError(t, s.SaveTransaction(ctx, tx("old1", old, "5.00")))
	require.NoError(t, s.SaveTransaction(ctx, tx("new1", now, "7.50")))
	require.NoError(t, s.SaveExpense(ctx, &models.Expense{
		ID: "e1", BranchID: "b1", Description: "rent", Amount: decimal.RequireFromString("100"), CreatedAt: old,
	}))

	cutoff := now.AddDate(0, -1, 0)

	older, err := s.OperationalOlderThan(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, older.Transactions, 1)
	assert.Equal(t, "old1", older.Transactions[0].ID)
	assert.Len(t, older.Expenses, 1)

	newer, err := s.OperationalSince(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, newer.Transactions, 1)
	assert.Equal(t, "new1", newer.Transactions[0].ID)
	assert.Empty(t, newer.Expenses)
}

func TestTransactionRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	created := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	require.NoError(t, s.SaveTransaction(ctx, tx("t1", created, "12.34")))

	data, err := s.AllOperational(ctx)
	require.NoError(t, err)
	require.Len(t, data.Transactions, 1)

	got := data.Transactions[0]
	assert.Equal(t, "t1", got.ID)
	assert.Equal(t, created, got.CreatedAt)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("12.34")))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Coffee", got.Items[0].Name)
}

func TestDeleteOperationalOlderThan(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	old := now.AddDate(0, -3, 0)

	require.NoError(t, s.SaveTransaction(ctx, tx("old1", old, "1")))
	require.NoError(t, s.SaveTransaction(ctx, tx("old2", old, "2")))
	require.NoError(t, s.SaveTransaction(ctx, tx("new1", now, "3")))
	require.NoError(t, s.SaveAuditLog(ctx, &models.AuditLog{ID: "a1", Action: "login", CreatedAt: old}))

	n, err := s.DeleteOperationalOlderThan(ctx, now.AddDate(0, -1, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	rest, err := s.AllOperational(ctx)
	require.NoError(t, err)
	require.Len(t, rest.Transactions, 1)
	assert.Equal(t, "new1", rest.Transactions[0].ID)
	assert.Empty(t, rest.AuditLogs)
}

func TestMergeTransactionsIsIdempotent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	items := []models.Transaction{*tx("t1", time.Now().UTC(), "5"), *tx("t2", time.Now().UTC(), "6")}

	require.NoError(t, s.MergeTransactions(ctx, items))
	require.NoError(t, s.MergeTransactions(ctx, items))

	data, err := s.AllOperational(ctx)
	require.NoError(t, err)
	assert.Len(t, data.Transactions, 2)
}

func TestImportFullSnapshotRejectsMissingCollections(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		snap *models.FullSnapshot
	}{
		{"nil snapshot", nil},
		{"missing master", &models.FullSnapshot{Operational: &models.OperationalData{}}},
		{"missing operational", &models.FullSnapshot{Master: &models.MasterData{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.ImportFullSnapshot(ctx, tt.snap)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestFullSnapshotRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveProduct(ctx, &models.Product{
		ID: "p1", Name: "Coffee", Price: decimal.RequireFromString("2.50"), Stock: 10,
	}))
	require.NoError(t, s.SaveTransaction(ctx, tx("t1", time.Now().UTC().Truncate(time.Second), "5")))
	require.NoError(t, s.SetSetting(ctx, "shop_name", "Corner Cafe"))

	snap, err := s.ExportFullSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap.Master)
	require.NotNil(t, snap.Operational)
	assert.Len(t, snap.Master.Products, 1)
	assert.Len(t, snap.Operational.Transactions, 1)
	assert.Equal(t, "Corner Cafe", snap.Settings["shop_name"])

	// restoring into a fresh store yields the same data
	s2 := setupStore(t)
	require.NoError(t, s2.ImportFullSnapshot(ctx, snap))

	master, err := s2.MasterData(ctx)
	require.NoError(t, err)
	require.Len(t, master.Products, 1)
	assert.Equal(t, "Coffee", master.Products[0].Name)

	data, err := s2.AllOperational(ctx)
	require.NoError(t, err)
	assert.Len(t, data.Transactions, 1)

	name, found, err := s2.Setting(ctx, "shop_name")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Corner Cafe", name)
}

func TestReplaceMasterDataOverwritesWholesale(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveProduct(ctx, &models.Product{ID: "local-only", Name: "Old"}))

	incoming := &models.MasterData{
		Products:   []models.Product{{ID: "p9", Name: "New", Price: decimal.RequireFromString("1")}},
		Categories: []models.Category{{ID: "c1", Name: "Drinks"}},
	}
	require.NoError(t, s.ReplaceMasterData(ctx, incoming))

	master, err := s.MasterData(ctx)
	require.NoError(t, err)
	require.Len(t, master.Products, 1)
	assert.Equal(t, "p9", master.Products[0].ID)
	assert.Len(t, master.Categories, 1)
}

func TestAdjustStock(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveProduct(ctx, &models.Product{ID: "p1", Name: "Coffee", Stock: 10}))

	require.NoError(t, s.AdjustStock(ctx, "p1", -4))

	levels, err := s.StockLevels(ctx)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, 6, levels[0].Quantity)

	err = s.AdjustStock(ctx, "missing", 1)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestStateNamespace(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, found, err := s.State(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SetState(ctx, "k", "v1"))
	require.NoError(t, s.SetState(ctx, "k", "v2"))

	v, found, err := s.State(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v2", v)

	require.NoError(t, s.DeleteState(ctx, "k"))
	_, found, err = s.State(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	// app state never leaks into the exported settings
	require.NoError(t, s.SetState(ctx, "cred/filestore/secret_key", "sssh"))
	snap, err := s.ExportFullSnapshot(ctx)
	require.NoError(t, err)
	assert.NotContains(t, snap.Settings, "cred/filestore/secret_key")
}
