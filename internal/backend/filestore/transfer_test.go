package filestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/branchsync/internal/models"
)

func pendingPacket(id, target string) *models.StockTransferPacket {
	return &models.StockTransferPacket{
		ID:             id,
		SourceBranchID: "b1",
		TargetBranchID: target,
		Items:          []models.TransferItem{{ItemID: "p1", ItemType: "product", Quantity: 3}},
		Status:         models.TransferPending,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestUploadStockTransferPacket(t *testing.T) {
	fake := newFakeObjectStore()
	c := newTestClient(t, fake, &stubSource{})

	require.NoError(t, c.UploadStockTransferPacket(context.Background(), pendingPacket("tr1", "b2")))

	assert.Contains(t, fake.objects, "stock_transfers/b2/tr1.json")
}

func TestListPendingTransferPacketsOwnBranchOnly(t *testing.T) {
	fake := newFakeObjectStore()
	c := newTestClient(t, fake, &stubSource{})
	ctx := context.Background()

	// two packets for b1, one for b3, one stray non-json object, one broken
	require.NoError(t, c.UploadStockTransferPacket(ctx, pendingPacket("tr1", "b1")))
	require.NoError(t, c.UploadStockTransferPacket(ctx, pendingPacket("tr2", "b1")))
	require.NoError(t, c.UploadStockTransferPacket(ctx, pendingPacket("tr3", "b3")))
	fake.objects["stock_transfers/b1/readme.txt"] = []byte("ignore me")
	fake.objects["stock_transfers/b1/tr4.json"] = []byte("{broken")

	packets, err := c.ListPendingTransferPackets(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(packets))
	for _, p := range packets {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"tr1", "tr2"}, ids)
}

func TestMarkTransferConsumed(t *testing.T) {
	fake := newFakeObjectStore()
	c := newTestClient(t, fake, &stubSource{})
	ctx := context.Background()

	packet := pendingPacket("tr1", "b1")
	require.NoError(t, c.UploadStockTransferPacket(ctx, packet))

	require.NoError(t, c.MarkTransferConsumed(ctx, packet))

	assert.NotContains(t, fake.objects, "stock_transfers/b1/tr1.json")
	assert.Contains(t, fake.objects, "stock_transfers_consumed/b1/tr1.json")
	assert.Equal(t, models.TransferConsumed, packet.Status)
	require.NotNil(t, packet.ConsumedAt)

	// a consumed packet no longer shows up as pending
	packets, err := c.ListPendingTransferPackets(ctx)
	require.NoError(t, err)
	assert.Empty(t, packets)
}
