package orderbook

// Side of the book an order rests on. The numeric values match the
// raw side codes of the normalized feed.
type Side int8

const (
	Bid Side = 1
	Ask Side = 2
)

func (s Side) String() string {
	switch s {
	case Bid:
		return "bid"
	case Ask:
		return "ask"
	default:
		return "unknown"
	}
}

// Order is a single resting order. IDs are caller-assigned and unique
// across both sides of one book instance. Prices are integer ticks.
type Order struct {
	ID    uint64
	Side  Side
	Price int64
	Qty   uint64
}
