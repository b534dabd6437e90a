// Package transfer implements the one-way stock handoff between branches:
// the sender drops a packet on the file backend keyed by the destination
// branch, the receiver applies it on its next pull and marks it consumed.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/branchsync/internal/common"
	"github.com/dmitrijs2005/branchsync/internal/logging"
	"github.com/dmitrijs2005/branchsync/internal/models"
)

// FileChannel is the slice of the file backend the channel rides on.
type FileChannel interface {
	UploadStockTransferPacket(ctx context.Context, packet *models.StockTransferPacket) error
	ListPendingTransferPackets(ctx context.Context) ([]models.StockTransferPacket, error)
	MarkTransferConsumed(ctx context.Context, packet *models.StockTransferPacket) error
}

// Stock is the slice of the local store the channel adjusts.
type Stock interface {
	AdjustStock(ctx context.Context, itemID string, delta int) error
	SaveStockAdjustment(ctx context.Context, a *models.StockAdjustment) error
}

type Channel struct {
	file     FileChannel
	stock    Stock
	branchID string
	userName string
	log      logging.Logger
}

func NewChannel(file FileChannel, stock Stock, branchID, userName string, log logging.Logger) *Channel {
	return &Channel{file: file, stock: stock, branchID: branchID, userName: userName, log: log}
}

// Send deducts the quantities from local stock, records the adjustments
// and drops a pending packet for the target branch. The local deduction
// happens first: a send that cannot be covered by local stock records fails
// before anything reaches the remote.
func (c *Channel) Send(ctx context.Context, targetBranchID string, items []models.TransferItem, notes string) (*models.StockTransferPacket, error) {
	if targetBranchID == c.branchID {
		return nil, fmt.Errorf("cannot transfer stock to own branch: %w", common.ErrValidation)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("transfer has no items: %w", common.ErrValidation)
	}

	packet := &models.StockTransferPacket{
		ID:             uuid.NewString(),
		SourceBranchID: c.branchID,
		TargetBranchID: targetBranchID,
		Items:          items,
		Notes:          notes,
		Status:         models.TransferPending,
		CreatedAt:      time.Now().UTC(),
	}

	for _, item := range items {
		if err := c.stock.AdjustStock(ctx, item.ItemID, -item.Quantity); err != nil {
			return nil, fmt.Errorf("deduct %s: %w", item.ItemID, err)
		}
		adj := &models.StockAdjustment{
			ID:        uuid.NewString(),
			BranchID:  c.branchID,
			ItemID:    item.ItemID,
			ItemType:  item.ItemType,
			Delta:     -item.Quantity,
			Reason:    "transfer out to " + targetBranchID,
			UserName:  c.userName,
			CreatedAt: packet.CreatedAt,
		}
		if err := c.stock.SaveStockAdjustment(ctx, adj); err != nil {
			return nil, fmt.Errorf("record adjustment: %w", err)
		}
	}

	if err := c.file.UploadStockTransferPacket(ctx, packet); err != nil {
		return nil, err
	}

	c.log.Info(ctx, "stock transfer sent", "packet", packet.ID, "target", targetBranchID, "items", len(items))
	return packet, nil
}

// Receive pulls every pending packet addressed to this branch, applies the
// quantities to local stock and marks each packet consumed. Items naming
// products unknown to this branch are logged and skipped; the packet is
// still consumed so it cannot be applied twice.
func (c *Channel) Receive(ctx context.Context) (int, error) {
	packets, err := c.file.ListPendingTransferPackets(ctx)
	if err != nil {
		return 0, err
	}

	applied := 0
	for i := range packets {
		packet := &packets[i]
		if packet.Status != models.TransferPending {
			continue
		}

		for _, item := range packet.Items {
			if err := c.stock.AdjustStock(ctx, item.ItemID, item.Quantity); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					c.log.Warn(ctx, "transfer item unknown locally, skipped",
						"packet", packet.ID, "item", item.ItemID)
					continue
				}
				return applied, fmt.Errorf("apply %s: %w", item.ItemID, err)
			}
			adj := &models.StockAdjustment{
				ID:        uuid.NewString(),
				BranchID:  c.branchID,
				ItemID:    item.ItemID,
				ItemType:  item.ItemType,
				Delta:     item.Quantity,
				Reason:    "transfer in from " + packet.SourceBranchID,
				UserName:  c.userName,
				CreatedAt: time.Now().UTC(),
			}
			if err := c.stock.SaveStockAdjustment(ctx, adj); err != nil {
				return applied, fmt.Errorf("record adjustment: %w", err)
			}
		}

		if err := c.file.MarkTransferConsumed(ctx, packet); err != nil {
			return applied, err
		}
		applied++
	}

	return applied, nil
}
