package orderbook

import "fmt"

// OrderNotFoundError is returned by ModifyOrder and FillOrder when the
// id has no resting order. Cancels of absent orders are a logged no-op
// instead, and duplicate adds relocate the order; neither ever errors.
type OrderNotFoundError struct {
	OrderID uint64
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order %d not found at price level", e.OrderID)
}

// FillExceedsSizeError is returned by FillOrder when the requested
// fill is larger than the order's resting quantity. The order is left
// untouched when this fires.
type FillExceedsSizeError struct {
	Requested uint64
	Available uint64
}

func (e *FillExceedsSizeError) Error() string {
	return fmt.Sprintf("attempted to fill %d units, but only %d available", e.Requested, e.Available)
}
