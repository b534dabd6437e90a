package filestore

import "fmt"

// Object paths are a fixed convention shared by every branch of a
// deployment. One master snapshot exists per bucket; one branch snapshot
// and one full backup exist per branch id. Two branches must never share a
// branch id or their snapshots will clobber each other.
const (
	masterSnapshotKey = "master_data.json"
	branchFolder      = "branch_data"
	backupPrefix      = "full_backup"
	transferFolder    = "stock_transfers"
	consumedFolder    = "stock_transfers_consumed"
	archiveFolder     = "report_archive"
)

func branchSnapshotKey(branchID string) string {
	return fmt.Sprintf("%s/branch_data_%s.json", branchFolder, branchID)
}

func fullBackupKey(branchID string) string {
	return fmt.Sprintf("%s_%s.json", backupPrefix, branchID)
}

func transferPendingPrefix(targetBranchID string) string {
	return fmt.Sprintf("%s/%s/", transferFolder, targetBranchID)
}

func transferPendingKey(targetBranchID, packetID string) string {
	return fmt.Sprintf("%s/%s/%s.json", transferFolder, targetBranchID, packetID)
}

func transferConsumedKey(targetBranchID, packetID string) string {
	return fmt.Sprintf("%s/%s/%s.json", consumedFolder, targetBranchID, packetID)
}
