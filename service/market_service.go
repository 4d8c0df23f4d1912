// Package service coordinates the engine: it is the single write
// entry point into the event processor and the read entry point for
// queries and snapshots. The book itself carries no locking, so the
// RWMutex here is what lets the feed writer and the query side share
// one instrument.
package service

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"rainybook/domain/mbo"
	"rainybook/domain/mbp"
	"rainybook/domain/orderbook"
	"rainybook/infra/metrics"
	"rainybook/infra/sequence"
	"rainybook/infra/store"
)

type MarketService struct {
	mu   sync.RWMutex
	proc *mbo.Processor
	seq  *sequence.Sequencer

	store *store.Store // optional snapshot sink
	log   zerolog.Logger
}

// New wires the service. store may be nil when snapshot persistence is
// disabled.
func New(log zerolog.Logger, st *store.Store) *MarketService {
	return &MarketService{
		proc:  mbo.NewProcessor(log),
		seq:   sequence.New(0),
		store: st,
		log:   log,
	}
}

// Apply feeds one event through the processor. Events are numbered in
// arrival order; errors propagate to the caller untouched.
func (s *MarketService) Apply(msg mbo.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.seq.Next()
	err := s.proc.Apply(msg)

	metrics.EventsTotal.WithLabelValues(msg.Action.String()).Inc()
	if err != nil {
		metrics.EventErrorsTotal.WithLabelValues(errorKind(err)).Inc()
		s.log.Error().
			Err(err).
			Uint64("seq", seq).
			Stringer("action", msg.Action).
			Uint64("order_id", msg.OrderID).
			Msg("event rejected")
		return err
	}

	bids, asks := s.proc.Book().Depth()
	metrics.BookDepthLevels.WithLabelValues("bid").Set(float64(bids))
	metrics.BookDepthLevels.WithLabelValues("ask").Set(float64(asks))
	metrics.BookRestingOrders.Set(float64(s.proc.Book().OrderCount()))
	return nil
}

// errorKind names the error for the failure counter.
func errorKind(err error) string {
	var notFound *orderbook.OrderNotFoundError
	var tooLarge *orderbook.FillExceedsSizeError
	var unknownAction *mbo.UnknownActionError
	var badSide *mbo.SideConversionError
	switch {
	case errors.As(err, &notFound):
		return "order_not_found"
	case errors.As(err, &tooLarge):
		return "fill_exceeds_size"
	case errors.As(err, &unknownAction):
		return "unknown_action"
	case errors.As(err, &badSide):
		return "side_conversion"
	default:
		return "other"
	}
}

// BestBid returns the highest-priced bid level.
func (s *MarketService) BestBid() (orderbook.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.proc.Book().BestBid()
}

// BestAsk returns the lowest-priced ask level.
func (s *MarketService) BestAsk() (orderbook.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.proc.Book().BestAsk()
}

func (s *MarketService) TopBids(n int) []orderbook.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.proc.Book().TopBids(n)
}

func (s *MarketService) TopAsks(n int) []orderbook.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.proc.Book().TopAsks(n)
}

// Snapshot cuts a market-by-price snapshot at the current sequence
// and persists it when a store is configured.
func (s *MarketService) Snapshot() (uint64, *mbp.MarketByPrice, error) {
	s.mu.RLock()
	seq := s.seq.Current()
	view := mbp.Snapshot(s.proc.Book())
	s.mu.RUnlock()

	metrics.SnapshotsTotal.Inc()
	if s.store != nil {
		if err := s.store.PutSnapshot(seq, time.Now(), view); err != nil {
			return seq, view, err
		}
	}
	return seq, view, nil
}

// Seq returns the sequence number of the last applied event.
func (s *MarketService) Seq() uint64 {
	return s.seq.Current()
}
