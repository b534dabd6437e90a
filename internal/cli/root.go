package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

// Root runs the interactive command loop.
func (a *App) Root(ctx context.Context) {
	log.Println("branchsync CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		status, _ := a.orchestrator.Status()
		fmt.Printf("bsync [%s] %s> ", a.config.BranchID, status)

		if !scanner.Scan() {
			break
		}
		cmd := strings.TrimSpace(scanner.Text())

		switch cmd {
		case "":
		case "help":
			a.Help()
		case "status":
			a.ShowStatus()
		case "sync":
			a.SyncNow(ctx)
		case "push-master":
			a.PushMaster(ctx)
		case "pull-master":
			a.PullMaster(ctx)
		case "backup":
			a.Backup(ctx)
		case "restore":
			a.Restore(ctx)
		case "archive":
			a.Archive(ctx)
		case "transfer-send":
			a.TransferSend(ctx)
		case "transfer-receive":
			a.TransferReceive(ctx)
		case "test-connection":
			a.TestConnection(ctx)
		case "configure":
			a.Configure(ctx)
		case "clear-remote":
			a.ClearRemote(ctx)
		case "purge-archive-folder":
			a.PurgeArchiveFolder(ctx)
		case "report-export":
			a.ReportExport(ctx)
		case "report-import":
			a.ReportImport(ctx)
		case "branches":
			a.Branches(ctx)
		case "exit", "quit":
			return
		default:
			fmt.Println("unknown command (type 'help')")
		}
	}
}

func (a *App) Help() {
	fmt.Println(`commands:
  status                current sync status
  sync                  push to every configured backend now
  push-master           push master data snapshot now
  pull-master           download and merge the shared master snapshot
  backup                upload a full database backup
  restore               restore the database from the remote backup
  archive               export and purge old operational data
  transfer-send         send stock to another branch
  transfer-receive      apply pending stock transfers
  branches              list all branch snapshots
  test-connection       verify the relational backend
  configure             set backend credentials
  clear-remote          delete operational rows on the relational backend
  purge-archive-folder  delete the stale report archive folder
  report-export         produce an encrypted transaction report
  report-import         merge an encrypted transaction report
  exit                  leave`)
}

func (a *App) ShowStatus() {
	status, lastErr := a.orchestrator.Status()
	fmt.Printf("sync status: %s\n", status)
	if lastErr != "" {
		fmt.Printf("last error: %s\n", lastErr)
	}
}
