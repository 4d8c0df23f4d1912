package orderbook

// PriceLevel holds every resting order at one exact price on one side.
// The total quantity is cached and kept in sync on every mutation so
// best-of-book and depth queries never rescan the level; the order
// count is always derived from the map itself.
type PriceLevel struct {
	Price int64

	orders   map[uint64]uint64 // order id -> resting qty
	totalQty uint64
}

func newPriceLevel(price int64) *PriceLevel {
	return &PriceLevel{
		Price:  price,
		orders: make(map[uint64]uint64),
	}
}

// TotalQty returns the summed resting quantity at this level.
func (p *PriceLevel) TotalQty() uint64 { return p.totalQty }

// OrderCount returns the number of resting orders at this level.
func (p *PriceLevel) OrderCount() int { return len(p.orders) }

func (p *PriceLevel) Empty() bool { return len(p.orders) == 0 }

// Qty looks up the resting quantity of one order.
func (p *PriceLevel) Qty(orderID uint64) (uint64, bool) {
	qty, ok := p.orders[orderID]
	return qty, ok
}

// add inserts or overwrites an order, reporting whether it replaced an
// existing entry.
func (p *PriceLevel) add(orderID, qty uint64) bool {
	old, existed := p.orders[orderID]
	if existed {
		p.totalQty -= old
	}
	p.orders[orderID] = qty
	p.totalQty += qty
	return existed
}

// remove deletes an order, returning its quantity.
func (p *PriceLevel) remove(orderID uint64) (uint64, bool) {
	qty, ok := p.orders[orderID]
	if !ok {
		return 0, false
	}
	delete(p.orders, orderID)
	p.totalQty -= qty
	return qty, true
}

// setQty changes an order's resting quantity in place.
func (p *PriceLevel) setQty(orderID, qty uint64) bool {
	old, ok := p.orders[orderID]
	if !ok {
		return false
	}
	p.orders[orderID] = qty
	p.totalQty += qty - old
	return true
}

// sumQty recomputes the total from the orders themselves, ignoring the
// cache. Used to cross-check the cached aggregate in tests.
func (p *PriceLevel) sumQty() uint64 {
	var total uint64
	for _, qty := range p.orders {
		total += qty
	}
	return total
}
