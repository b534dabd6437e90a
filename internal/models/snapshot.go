package models

import "time"

// StockLevel is one line of the current stock snapshot included in every
// branch push.
type StockLevel struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// BranchSnapshot is the unit pushed to the file backend per branch: a
// timestamped aggregate of that branch's operational records plus the
// current stock. Exactly one snapshot file exists per branch id; every
// push fully overwrites the previous one.
type BranchSnapshot struct {
	BranchID    string           `json:"branch_id"`
	CreatedAt   time.Time        `json:"created_at"`
	Operational *OperationalData `json:"operational"`
	Stock       []StockLevel     `json:"stock"`
}

// MasterSnapshot is the single shared master-data document, overwritten on
// every master push. Exactly one instance exists per deployment.
type MasterSnapshot struct {
	UpdatedAt time.Time   `json:"updated_at"`
	Master    *MasterData `json:"master"`
}

// FullSnapshot is a whole-database export used for backup and restore.
// Master and Operational are pointers so a restore payload missing either
// top-level collection set is detectable as invalid.
type FullSnapshot struct {
	ExportedAt  time.Time         `json:"exported_at"`
	BranchID    string            `json:"branch_id"`
	Master      *MasterData       `json:"master"`
	Operational *OperationalData  `json:"operational"`
	Settings    map[string]string `json:"settings"`
}
