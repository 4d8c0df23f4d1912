// Package grpcserver adapts MarketService queries to the MarketData
// gRPC service.
package grpcserver

import (
	"context"

	"github.com/rs/zerolog"

	"rainybook/api/pb"
	"rainybook/domain/orderbook"
	"rainybook/service"
)

const defaultDepthLevels = 10

type Server struct {
	svc *service.MarketService
	log zerolog.Logger
}

func NewServer(svc *service.MarketService, log zerolog.Logger) *Server {
	return &Server{svc: svc, log: log}
}

func (s *Server) BestBid(ctx context.Context, _ *pb.BestQuoteRequest) (*pb.BestQuoteResponse, error) {
	return bestQuote(s.svc.BestBid()), nil
}

func (s *Server) BestAsk(ctx context.Context, _ *pb.BestQuoteRequest) (*pb.BestQuoteResponse, error) {
	return bestQuote(s.svc.BestAsk()), nil
}

func (s *Server) Depth(ctx context.Context, req *pb.DepthRequest) (*pb.DepthResponse, error) {
	n := int(req.Levels)
	if n <= 0 {
		n = defaultDepthLevels
	}
	return &pb.DepthResponse{
		Bids: toQuotes(s.svc.TopBids(n)),
		Asks: toQuotes(s.svc.TopAsks(n)),
	}, nil
}

func (s *Server) Snapshot(ctx context.Context, _ *pb.SnapshotRequest) (*pb.SnapshotResponse, error) {
	seq, view, err := s.svc.Snapshot()
	if err != nil {
		// The projection itself cannot fail; only the sink can. The
		// in-memory view is still good, so serve it and log the sink
		// failure.
		s.log.Warn().Err(err).Msg("snapshot persistence failed")
	}

	resp := &pb.SnapshotResponse{
		Seq:  seq,
		Bids: make([]*pb.LevelSummary, 0, len(view.Bids)),
		Asks: make([]*pb.LevelSummary, 0, len(view.Asks)),
	}
	for _, lvl := range view.Bids {
		resp.Bids = append(resp.Bids, &pb.LevelSummary{
			Price:      lvl.Price,
			TotalQty:   lvl.TotalQty,
			OrderCount: uint32(lvl.OrderCount),
		})
	}
	for _, lvl := range view.Asks {
		resp.Asks = append(resp.Asks, &pb.LevelSummary{
			Price:      lvl.Price,
			TotalQty:   lvl.TotalQty,
			OrderCount: uint32(lvl.OrderCount),
		})
	}
	return resp, nil
}

func bestQuote(q orderbook.Quote, ok bool) *pb.BestQuoteResponse {
	if !ok {
		return &pb.BestQuoteResponse{}
	}
	return &pb.BestQuoteResponse{Found: true, Price: q.Price, TotalQty: q.Qty}
}

func toQuotes(quotes []orderbook.Quote) []*pb.Quote {
	out := make([]*pb.Quote, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, &pb.Quote{Price: q.Price, TotalQty: q.Qty})
	}
	return out
}
