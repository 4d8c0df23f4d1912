// Package mbo applies a normalized market-by-order event stream to an
// order book. Each message carries one of six actions; add, cancel,
// modify and fill translate directly into book mutations, clear resets
// the book at a session boundary, and trade is reserved for a future
// trade-tape side channel.
package mbo

import (
	"fmt"

	"rainybook/domain/orderbook"
)

// Action of a market-by-order message. The numeric values match the
// raw action codes of the normalized feed.
type Action int8

const (
	ActionAdd    Action = 1
	ActionCancel Action = 2
	ActionModify Action = 3
	ActionFill   Action = 4
	// ActionClear marks a session boundary (e.g. start of a trading
	// day); the book is discarded and rebuilt from subsequent adds.
	ActionClear Action = 5
	ActionTrade Action = 6
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionCancel:
		return "cancel"
	case ActionModify:
		return "modify"
	case ActionFill:
		return "fill"
	case ActionClear:
		return "clear"
	case ActionTrade:
		return "trade"
	default:
		return fmt.Sprintf("action(%d)", int8(a))
	}
}

// UnknownActionError reports a raw action code outside the six known
// actions.
type UnknownActionError struct {
	Code int8
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("action %d is not supported", e.Code)
}

// SideConversionError reports a raw side code that is neither bid nor
// ask.
type SideConversionError struct {
	Code int8
}

func (e *SideConversionError) Error() string {
	return fmt.Sprintf("could not convert %d to a bid/ask", e.Code)
}

// ActionFromCode converts a raw feed code into an Action.
func ActionFromCode(code int8) (Action, error) {
	a := Action(code)
	if a < ActionAdd || a > ActionTrade {
		return 0, &UnknownActionError{Code: code}
	}
	return a, nil
}

// ParseAction converts the textual action form used by JSON feeds.
func ParseAction(s string) (Action, error) {
	switch s {
	case "add":
		return ActionAdd, nil
	case "cancel":
		return ActionCancel, nil
	case "modify":
		return ActionModify, nil
	case "fill":
		return ActionFill, nil
	case "clear":
		return ActionClear, nil
	case "trade":
		return ActionTrade, nil
	default:
		return 0, &UnknownActionError{Code: -1}
	}
}

// SideFromCode converts a raw feed code into a book side.
func SideFromCode(code int8) (orderbook.Side, error) {
	switch s := orderbook.Side(code); s {
	case orderbook.Bid, orderbook.Ask:
		return s, nil
	default:
		return 0, &SideConversionError{Code: code}
	}
}

// ParseSide converts the textual side form used by JSON feeds.
func ParseSide(s string) (orderbook.Side, error) {
	switch s {
	case "bid":
		return orderbook.Bid, nil
	case "ask":
		return orderbook.Ask, nil
	default:
		return 0, &SideConversionError{Code: -1}
	}
}

// Message is one normalized market-by-order event.
type Message struct {
	Action  Action
	Side    orderbook.Side
	Price   int64
	OrderID uint64
	Size    uint64
}
