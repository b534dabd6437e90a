// Package models defines the record types moved through the local store,
// the archival exports and the remote backends.
//
// Operational records (transactions, expenses, stock adjustments, audit
// logs, other income) are append-mostly: immutable once created except for
// status fields. Each carries its creation time, used for retention range
// queries, and the id of the branch that produced it.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionItem is one line of a sale.
type TransactionItem struct {
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name"`
	ItemType string          `json:"item_type"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Transaction is a completed sale.
type Transaction struct {
	ID            string            `json:"id"`
	BranchID      string            `json:"branch_id"`
	UserName      string            `json:"user_name"`
	PaymentStatus string            `json:"payment_status"`
	Total         decimal.Decimal   `json:"total"`
	Items         []TransactionItem `json:"items"`
	CreatedAt     time.Time         `json:"created_at"`
}

type Expense struct {
	ID          string          `json:"id"`
	BranchID    string          `json:"branch_id"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// StockAdjustment records a manual stock change (damage, recount, transfer).
type StockAdjustment struct {
	ID        string    `json:"id"`
	BranchID  string    `json:"branch_id"`
	ItemID    string    `json:"item_id"`
	ItemType  string    `json:"item_type"`
	Delta     int       `json:"delta"`
	Reason    string    `json:"reason"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

type AuditLog struct {
	ID        string    `json:"id"`
	BranchID  string    `json:"branch_id"`
	Action    string    `json:"action"`
	UserName  string    `json:"user_name"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

type OtherIncome struct {
	ID          string          `json:"id"`
	BranchID    string          `json:"branch_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OperationalData aggregates every operational collection for one slice
// (a time range, a branch snapshot, or a full export).
type OperationalData struct {
	Transactions     []Transaction     `json:"transactions"`
	Expenses         []Expense         `json:"expenses"`
	StockAdjustments []StockAdjustment `json:"stock_adjustments"`
	AuditLogs        []AuditLog        `json:"audit_logs"`
	OtherIncomes     []OtherIncome     `json:"other_incomes"`
}

// IsEmpty reports whether the slice holds no transactions and no expenses.
// Adjustments and logs alone do not count as archivable data.
func (o *OperationalData) IsEmpty() bool {
	return len(o.Transactions) == 0 && len(o.Expenses) == 0
}
