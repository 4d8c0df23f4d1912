// Package pb defines the MarketData gRPC service: the message types,
// the hand-maintained service descriptor, and a thin client.
package pb

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "rainybook.MarketData"

// -------------------- Messages --------------------

type BestQuoteRequest struct{}

type BestQuoteResponse struct {
	// Found is false when the side is empty; Price and TotalQty are
	// zero in that case.
	Found    bool   `json:"found"`
	Price    int64  `json:"price"`
	TotalQty uint64 `json:"total_qty"`
}

type DepthRequest struct {
	// Levels caps how many price levels per side are returned.
	Levels uint32 `json:"levels"`
}

type Quote struct {
	Price    int64  `json:"price"`
	TotalQty uint64 `json:"total_qty"`
}

type DepthResponse struct {
	Bids []*Quote `json:"bids"`
	Asks []*Quote `json:"asks"`
}

type SnapshotRequest struct{}

type LevelSummary struct {
	Price      int64  `json:"price"`
	TotalQty   uint64 `json:"total_qty"`
	OrderCount uint32 `json:"order_count"`
}

type SnapshotResponse struct {
	Seq  uint64          `json:"seq"`
	Bids []*LevelSummary `json:"bids"`
	Asks []*LevelSummary `json:"asks"`
}

// -------------------- Server --------------------

type MarketDataServer interface {
	BestBid(context.Context, *BestQuoteRequest) (*BestQuoteResponse, error)
	BestAsk(context.Context, *BestQuoteRequest) (*BestQuoteResponse, error)
	Depth(context.Context, *DepthRequest) (*DepthResponse, error)
	Snapshot(context.Context, *SnapshotRequest) (*SnapshotResponse, error)
}

func RegisterMarketDataServer(s grpc.ServiceRegistrar, srv MarketDataServer) {
	s.RegisterService(&MarketDataServiceDesc, srv)
}

func bestBidHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(BestQuoteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketDataServer).BestBid(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/BestBid"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketDataServer).BestBid(ctx, req.(*BestQuoteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func bestAskHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(BestQuoteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketDataServer).BestAsk(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/BestAsk"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketDataServer).BestAsk(ctx, req.(*BestQuoteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func depthHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DepthRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketDataServer).Depth(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Depth"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketDataServer).Depth(ctx, req.(*DepthRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func snapshotHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SnapshotRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketDataServer).Snapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Snapshot"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketDataServer).Snapshot(ctx, req.(*SnapshotRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var MarketDataServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MarketDataServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "BestBid", Handler: bestBidHandler},
		{MethodName: "BestAsk", Handler: bestAskHandler},
		{MethodName: "Depth", Handler: depthHandler},
		{MethodName: "Snapshot", Handler: snapshotHandler},
	},
	Streams: []grpc.StreamDesc{},
}

// -------------------- Client --------------------

type MarketDataClient struct {
	cc *grpc.ClientConn
}

func NewMarketDataClient(cc *grpc.ClientConn) *MarketDataClient {
	return &MarketDataClient{cc: cc}
}

func (c *MarketDataClient) invoke(ctx context.Context, method string, in, out any) error {
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, grpc.CallContentSubtype(CodecName))
}

func (c *MarketDataClient) BestBid(ctx context.Context, in *BestQuoteRequest) (*BestQuoteResponse, error) {
	out := new(BestQuoteResponse)
	if err := c.invoke(ctx, "BestBid", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MarketDataClient) BestAsk(ctx context.Context, in *BestQuoteRequest) (*BestQuoteResponse, error) {
	out := new(BestQuoteResponse)
	if err := c.invoke(ctx, "BestAsk", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MarketDataClient) Depth(ctx context.Context, in *DepthRequest) (*DepthResponse, error) {
	out := new(DepthResponse)
	if err := c.invoke(ctx, "Depth", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MarketDataClient) Snapshot(ctx context.Context, in *SnapshotRequest) (*SnapshotResponse, error) {
	out := new(SnapshotResponse)
	if err := c.invoke(ctx, "Snapshot", in, out); err != nil {
		return nil, err
	}
	return out, nil
}
