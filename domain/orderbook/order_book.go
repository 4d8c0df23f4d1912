package orderbook

import "github.com/rs/zerolog"

// locator records where an order currently rests. It must be updated
// in lock-step with every structural change to a price level; a stale
// entry would make the order unreachable.
type locator struct {
	side  Side
	price int64
}

// Quote is the aggregate of one price level: its price and the total
// resting quantity across all orders at that price.
type Quote struct {
	Price int64
	Qty   uint64
}

// OrderBook is the two-sided, order-level book for one instrument.
type OrderBook struct {
	bids  *levelTree
	asks  *levelTree
	index map[uint64]locator

	log zerolog.Logger
}

// NewOrderBook creates an empty book. Feed anomalies (duplicate adds,
// cancels of absent orders) are discarded silently; use SetLogger to
// surface them.
func NewOrderBook() *OrderBook {
	return &OrderBook{
		bids:  newLevelTree(),
		asks:  newLevelTree(),
		index: make(map[uint64]locator),
	}
}

// SetLogger installs the diagnostic sink for tolerated anomalies.
func (b *OrderBook) SetLogger(log zerolog.Logger) {
	b.log = log
}

func (b *OrderBook) side(s Side) *levelTree {
	if s == Bid {
		return b.bids
	}
	return b.asks
}

// AddOrder inserts a resting order with upsert semantics: if the id is
// already present anywhere in the book the existing order is removed
// from its old level first (duplicate adds are retransmit noise, not
// errors) and the order ends up at the new side and price.
func (b *OrderBook) AddOrder(side Side, price int64, orderID, qty uint64) {
	if old, ok := b.index[orderID]; ok {
		b.log.Warn().
			Uint64("order_id", orderID).
			Stringer("old_side", old.side).
			Int64("old_price", old.price).
			Stringer("side", side).
			Int64("price", price).
			Msg("order already exists, moving")
		b.unlink(orderID, old)
	}

	b.side(side).Upsert(price).add(orderID, qty)
	b.index[orderID] = locator{side: side, price: price}
}

// RemoveOrder cancels a resting order. Cancels of unknown ids are an
// idempotent no-op.
func (b *OrderBook) RemoveOrder(orderID uint64) (Order, bool) {
	loc, ok := b.index[orderID]
	if !ok {
		b.log.Warn().
			Uint64("order_id", orderID).
			Msg("order not found in index, ignoring removal")
		return Order{}, false
	}
	qty := b.unlink(orderID, loc)
	return Order{ID: orderID, Side: loc.side, Price: loc.price, Qty: qty}, true
}

// unlink deletes the order from its level, drops the level when it
// empties, and clears the index entry.
func (b *OrderBook) unlink(orderID uint64, loc locator) uint64 {
	tree := b.side(loc.side)
	var qty uint64
	if lvl := tree.Find(loc.price); lvl != nil {
		qty, _ = lvl.remove(orderID)
		if lvl.Empty() {
			tree.Delete(loc.price)
		}
	}
	delete(b.index, orderID)
	return qty
}

// ModifyOrder changes an order's resting quantity in place. It never
// moves the order between levels or sides. A new quantity of zero is
// permitted and leaves a zero-quantity order resting.
func (b *OrderBook) ModifyOrder(orderID, newQty uint64) error {
	loc, ok := b.index[orderID]
	if !ok {
		return &OrderNotFoundError{OrderID: orderID}
	}
	lvl := b.side(loc.side).Find(loc.price)
	if lvl == nil || !lvl.setQty(orderID, newQty) {
		return &OrderNotFoundError{OrderID: orderID}
	}
	return nil
}

// FillOrder reduces an order's quantity by fillQty. A fill down to
// exactly zero removes the order; a fill exceeding the resting
// quantity fails with no effect on the order.
func (b *OrderBook) FillOrder(orderID, fillQty uint64) error {
	qty, ok := b.orderQty(orderID)
	if !ok {
		return &OrderNotFoundError{OrderID: orderID}
	}
	if fillQty > qty {
		return &FillExceedsSizeError{Requested: fillQty, Available: qty}
	}

	rest := qty - fillQty
	if rest == 0 {
		b.RemoveOrder(orderID)
		return nil
	}
	return b.ModifyOrder(orderID, rest)
}

func (b *OrderBook) orderQty(orderID uint64) (uint64, bool) {
	loc, ok := b.index[orderID]
	if !ok {
		return 0, false
	}
	lvl := b.side(loc.side).Find(loc.price)
	if lvl == nil {
		return 0, false
	}
	return lvl.Qty(orderID)
}

// BestBid returns the highest-priced bid level, if any.
func (b *OrderBook) BestBid() (Quote, bool) {
	lvl := b.bids.Max()
	if lvl == nil {
		return Quote{}, false
	}
	return Quote{Price: lvl.Price, Qty: lvl.TotalQty()}, true
}

// BestAsk returns the lowest-priced ask level, if any.
func (b *OrderBook) BestAsk() (Quote, bool) {
	lvl := b.asks.Min()
	if lvl == nil {
		return Quote{}, false
	}
	return Quote{Price: lvl.Price, Qty: lvl.TotalQty()}, true
}

// TopBids returns up to n bid levels, best (highest price) first.
func (b *OrderBook) TopBids(n int) []Quote {
	return topN(n, b.bids.Descending)
}

// TopAsks returns up to n ask levels, best (lowest price) first.
func (b *OrderBook) TopAsks(n int) []Quote {
	return topN(n, b.asks.Ascending)
}

func topN(n int, walk func(func(*PriceLevel) bool)) []Quote {
	if n <= 0 {
		return nil
	}
	quotes := make([]Quote, 0, n)
	walk(func(lvl *PriceLevel) bool {
		quotes = append(quotes, Quote{Price: lvl.Price, Qty: lvl.TotalQty()})
		return len(quotes) < n
	})
	return quotes
}

// BidsWalk visits bid levels best to worst.
func (b *OrderBook) BidsWalk(fn func(*PriceLevel) bool) {
	b.bids.Descending(fn)
}

// AsksWalk visits ask levels best to worst.
func (b *OrderBook) AsksWalk(fn func(*PriceLevel) bool) {
	b.asks.Ascending(fn)
}

// Depth returns the number of price levels on each side.
func (b *OrderBook) Depth() (bids, asks int) {
	return b.bids.Size(), b.asks.Size()
}

// OrderCount returns the number of resting orders across both sides.
func (b *OrderBook) OrderCount() int {
	return len(b.index)
}
