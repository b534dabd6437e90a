package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/branchsync/internal/models"
)

// TransferSend collects a target branch and item quantities and drops a
// stock transfer packet for it.
func (a *App) TransferSend(ctx context.Context) {
	target, err := GetSimpleText(a.reader, "target branch id", a.out)
	if err != nil || target == "" {
		return
	}

	var items []models.TransferItem
	for {
		itemID, err := GetSimpleText(a.reader, "product id (empty line to finish)", a.out)
		if err != nil {
			return
		}
		if itemID == "" {
			break
		}
		qtyText, err := GetSimpleText(a.reader, "quantity", a.out)
		if err != nil {
			return
		}
		qty, err := strconv.Atoi(qtyText)
		if err != nil || qty <= 0 {
			fmt.Println("quantity must be a positive number")
			continue
		}
		items = append(items, models.TransferItem{ItemID: itemID, ItemType: "product", Quantity: qty})
	}

	notes, err := GetSimpleText(a.reader, "notes (optional)", a.out)
	if err != nil {
		return
	}

	packet, err := a.channel.Send(ctx, target, items, notes)
	if err != nil {
		fmt.Println(userMessage(err))
		return
	}
	fmt.Printf("transfer %s sent to %s (%d items)\n", packet.ID, target, len(items))
	a.orchestrator.TriggerAutoSync(ctx)
}

// TransferReceive applies every pending transfer addressed to this branch.
func (a *App) TransferReceive(ctx context.Context) {
	applied, err := a.channel.Receive(ctx)
	if err != nil {
		fmt.Println(userMessage(err))
		return
	}
	if applied == 0 {
		fmt.Println("no pending transfers")
		return
	}
	fmt.Printf("applied %d transfer(s)\n", applied)
	a.orchestrator.TriggerAutoSync(ctx)
}
