// Package mbp derives an aggregated market-by-price view from an
// order-level book. A snapshot is a plain value taken at one instant;
// it never observes later book mutations.
package mbp

import "rainybook/domain/orderbook"

// LevelSummary is the aggregate of one price level.
type LevelSummary struct {
	Price      int64  `json:"price"`
	TotalQty   uint64 `json:"total_qty"`
	OrderCount int    `json:"order_count"`
}

// MarketByPrice is the per-level view of both sides, best level first
// on each: bids descend by price, asks ascend.
type MarketByPrice struct {
	Bids []LevelSummary `json:"bids"`
	Asks []LevelSummary `json:"asks"`
}

func summarize(lvl *orderbook.PriceLevel) LevelSummary {
	return LevelSummary{
		Price:      lvl.Price,
		TotalQty:   lvl.TotalQty(),
		OrderCount: lvl.OrderCount(),
	}
}

// Snapshot projects the book's current contents into a market-by-price
// value. An empty book yields empty sides, not an error.
func Snapshot(book *orderbook.OrderBook) *MarketByPrice {
	nbids, nasks := book.Depth()
	view := &MarketByPrice{
		Bids: make([]LevelSummary, 0, nbids),
		Asks: make([]LevelSummary, 0, nasks),
	}

	book.BidsWalk(func(lvl *orderbook.PriceLevel) bool {
		view.Bids = append(view.Bids, summarize(lvl))
		return true
	})
	book.AsksWalk(func(lvl *orderbook.PriceLevel) bool {
		view.Asks = append(view.Asks, summarize(lvl))
		return true
	})
	return view
}

// BidAt returns the summary for an exact bid price.
func (m *MarketByPrice) BidAt(price int64) (LevelSummary, bool) {
	return levelAt(m.Bids, price)
}

// AskAt returns the summary for an exact ask price.
func (m *MarketByPrice) AskAt(price int64) (LevelSummary, bool) {
	return levelAt(m.Asks, price)
}

func levelAt(levels []LevelSummary, price int64) (LevelSummary, bool) {
	for _, lvl := range levels {
		if lvl.Price == price {
			return lvl, true
		}
	}
	return LevelSummary{}, false
}
