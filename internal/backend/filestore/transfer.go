package filestore

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/branchsync/internal/models"
)

// Stock transfer packets ride the same object store as the snapshots: one
// pending object per packet under the destination branch's folder, moved
// to the consumed folder once the receiver has applied it.

// UploadStockTransferPacket writes a pending packet addressed to its
// target branch. There is no read-back confirmation; the consumed-state
// rewrite by the receiver is the only acknowledgment.
func (c *Client) UploadStockTransferPacket(ctx context.Context, packet *models.StockTransferPacket) error {
	api, bucket, err := c.api(ctx)
	if err != nil {
		return err
	}

	if err := c.putJSON(ctx, api, bucket, transferPendingKey(packet.TargetBranchID, packet.ID), packet); err != nil {
		return mapRemoteError("upload stock transfer packet", err)
	}
	return nil
}

// ListPendingTransferPackets downloads every pending packet addressed to
// this branch. Unreadable packets are logged and skipped.
func (c *Client) ListPendingTransferPackets(ctx context.Context) ([]models.StockTransferPacket, error) {
	api, bucket, err := c.api(ctx)
	if err != nil {
		return nil, err
	}

	out, err := api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(transferPendingPrefix(c.branchID)),
	})
	if err != nil {
		return nil, mapRemoteError("list transfer packets", err)
	}

	var result []models.StockTransferPacket
	for _, obj := range out.Contents {
		if obj.Key == nil || !strings.HasSuffix(*obj.Key, ".json") {
			continue
		}
		var packet models.StockTransferPacket
		if err := c.getJSON(ctx, api, bucket, *obj.Key, &packet); err != nil {
			c.log.Warn(ctx, "skipping unreadable transfer packet", "key", *obj.Key, "error", err)
			continue
		}
		result = append(result, packet)
	}

	return result, nil
}

// MarkTransferConsumed rewrites the packet with status consumed under the
// consumed folder and removes the pending object, completing the two-state
// handoff.
func (c *Client) MarkTransferConsumed(ctx context.Context, packet *models.StockTransferPacket) error {
	api, bucket, err := c.api(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	packet.Status = models.TransferConsumed
	packet.ConsumedAt = &now

	if err := c.putJSON(ctx, api, bucket, transferConsumedKey(packet.TargetBranchID, packet.ID), packet); err != nil {
		return mapRemoteError("mark transfer consumed", err)
	}

	_, err = api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(transferPendingKey(packet.TargetBranchID, packet.ID)),
	})
	if err != nil {
		return mapRemoteError("delete pending transfer packet", err)
	}
	return nil
}
