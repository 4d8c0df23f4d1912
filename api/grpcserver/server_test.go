package grpcserver

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rainybook/api/pb"
	"rainybook/domain/mbo"
	"rainybook/domain/orderbook"
	"rainybook/service"
)

func newTestServer(t *testing.T) (*Server, *service.MarketService) {
	t.Helper()
	svc := service.New(zerolog.Nop(), nil)
	return NewServer(svc, zerolog.Nop()), svc
}

func seedBook(t *testing.T, svc *service.MarketService) {
	t.Helper()
	events := []mbo.Message{
		{Action: mbo.ActionAdd, Side: orderbook.Bid, Price: 10050, OrderID: 1, Size: 100},
		{Action: mbo.ActionAdd, Side: orderbook.Bid, Price: 10048, OrderID: 2, Size: 50},
		{Action: mbo.ActionAdd, Side: orderbook.Ask, Price: 10052, OrderID: 3, Size: 75},
	}
	for _, ev := range events {
		require.NoError(t, svc.Apply(ev))
	}
}

func TestBestBidAsk(t *testing.T) {
	srv, svc := newTestServer(t)

	resp, err := srv.BestBid(context.Background(), &pb.BestQuoteRequest{})
	require.NoError(t, err)
	assert.False(t, resp.Found, "empty book should report not found")

	seedBook(t, svc)

	resp, err = srv.BestBid(context.Background(), &pb.BestQuoteRequest{})
	require.NoError(t, err)
	assert.True(t, resp.Found)
	assert.Equal(t, int64(10050), resp.Price)
	assert.Equal(t, uint64(100), resp.TotalQty)

	resp, err = srv.BestAsk(context.Background(), &pb.BestQuoteRequest{})
	require.NoError(t, err)
	assert.True(t, resp.Found)
	assert.Equal(t, int64(10052), resp.Price)
}

func TestDepth(t *testing.T) {
	srv, svc := newTestServer(t)
	seedBook(t, svc)

	resp, err := srv.Depth(context.Background(), &pb.DepthRequest{Levels: 1})
	require.NoError(t, err)
	require.Len(t, resp.Bids, 1)
	assert.Equal(t, int64(10050), resp.Bids[0].Price)
	require.Len(t, resp.Asks, 1)

	// Zero levels falls back to the default depth.
	resp, err = srv.Depth(context.Background(), &pb.DepthRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Bids, 2)
	assert.Len(t, resp.Asks, 1)
}

func TestSnapshot(t *testing.T) {
	srv, svc := newTestServer(t)
	seedBook(t, svc)

	resp, err := srv.Snapshot(context.Background(), &pb.SnapshotRequest{})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), resp.Seq)
	require.Len(t, resp.Bids, 2)
	assert.Equal(t, uint64(100), resp.Bids[0].TotalQty)
	assert.Equal(t, uint32(1), resp.Bids[0].OrderCount)
	require.Len(t, resp.Asks, 1)
	assert.Equal(t, int64(10052), resp.Asks[0].Price)
}
