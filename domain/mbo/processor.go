package mbo

import (
	"github.com/rs/zerolog"

	"rainybook/domain/orderbook"
)

// Processor owns exactly one order book and applies messages to it
// strictly in the order received. It never retries or self-heals: book
// errors surface verbatim so the caller can decide whether to
// resynchronize via a clear and rebuild.
type Processor struct {
	book *orderbook.OrderBook
	log  zerolog.Logger
}

// NewProcessor creates a processor with a fresh empty book.
func NewProcessor(log zerolog.Logger) *Processor {
	book := orderbook.NewOrderBook()
	book.SetLogger(log)
	return &Processor{book: book, log: log}
}

// Book exposes the owned book for queries and projection. Callers
// must not mutate it directly.
func (p *Processor) Book() *orderbook.OrderBook {
	return p.book
}

// Apply translates one message into the corresponding book operation.
func (p *Processor) Apply(msg Message) error {
	switch msg.Action {
	case ActionAdd:
		p.log.Debug().
			Uint64("order_id", msg.OrderID).
			Stringer("side", msg.Side).
			Int64("price", msg.Price).
			Uint64("size", msg.Size).
			Msg("adding order")
		p.book.AddOrder(msg.Side, msg.Price, msg.OrderID, msg.Size)
		return nil

	case ActionCancel:
		p.log.Debug().Uint64("order_id", msg.OrderID).Msg("cancelling order")
		p.book.RemoveOrder(msg.OrderID)
		return nil

	case ActionModify:
		p.log.Debug().
			Uint64("order_id", msg.OrderID).
			Uint64("size", msg.Size).
			Msg("modifying order")
		return p.book.ModifyOrder(msg.OrderID, msg.Size)

	case ActionFill:
		p.log.Debug().
			Uint64("order_id", msg.OrderID).
			Uint64("size", msg.Size).
			Msg("filling order")
		return p.book.FillOrder(msg.OrderID, msg.Size)

	case ActionClear:
		// Session boundary; the book is rebuilt from subsequent adds.
		p.log.Debug().Msg("clearing order book")
		p.book = orderbook.NewOrderBook()
		p.book.SetLogger(p.log)
		return nil

	case ActionTrade:
		// Trades do not touch the book. A trade tape may hang off
		// this arm later.
		p.log.Debug().Uint64("order_id", msg.OrderID).Msg("ignoring trade action")
		return nil

	default:
		return &UnknownActionError{Code: int8(msg.Action)}
	}
}
