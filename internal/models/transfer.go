package models

import "time"

// Stock transfer packet states. A packet is written once by the sender as
// pending and rewritten as consumed by the receiver after it applies the
// quantities, so the sender can observe the handoff.
const (
	TransferPending  = "pending"
	TransferConsumed = "consumed"
)

// TransferItem is one (item, type, quantity) tuple handed to another branch.
type TransferItem struct {
	ItemID   string `json:"item_id"`
	ItemType string `json:"item_type"`
	Quantity int    `json:"quantity"`
}

// StockTransferPacket is a one-way message dropping inventory quantities on
// a target branch. Written once by the sender, consumed at most once by the
// receiver's next pull.
type StockTransferPacket struct {
	ID             string         `json:"id"`
	SourceBranchID string         `json:"source_branch_id"`
	TargetBranchID string         `json:"target_branch_id"`
	Items          []TransferItem `json:"items"`
	Notes          string         `json:"notes"`
	Status         string         `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	ConsumedAt     *time.Time     `json:"consumed_at,omitempty"`
}
