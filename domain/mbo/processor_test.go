package mbo

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rainybook/domain/orderbook"
)

func newTestProcessor() *Processor {
	return NewProcessor(zerolog.Nop())
}

func TestApplyAdd(t *testing.T) {
	p := newTestProcessor()

	err := p.Apply(Message{Action: ActionAdd, Side: orderbook.Bid, Price: 10050, OrderID: 1, Size: 100})
	require.NoError(t, err)

	best, ok := p.Book().BestBid()
	require.True(t, ok)
	assert.Equal(t, int64(10050), best.Price)
	assert.Equal(t, uint64(100), best.Qty)
}

func TestApplyCancel(t *testing.T) {
	p := newTestProcessor()

	require.NoError(t, p.Apply(Message{Action: ActionAdd, Side: orderbook.Ask, Price: 10052, OrderID: 1, Size: 50}))
	require.NoError(t, p.Apply(Message{Action: ActionCancel, OrderID: 1}))

	_, ok := p.Book().BestAsk()
	assert.False(t, ok)
}

func TestApplyCancelUnknownOrderIsSilent(t *testing.T) {
	p := newTestProcessor()

	assert.NoError(t, p.Apply(Message{Action: ActionCancel, OrderID: 999}))
}

func TestApplyModify(t *testing.T) {
	p := newTestProcessor()

	require.NoError(t, p.Apply(Message{Action: ActionAdd, Side: orderbook.Bid, Price: 10050, OrderID: 1, Size: 100}))
	require.NoError(t, p.Apply(Message{Action: ActionModify, OrderID: 1, Size: 150}))

	best, ok := p.Book().BestBid()
	require.True(t, ok)
	assert.Equal(t, uint64(150), best.Qty)
}

func TestApplyModifyUnknownOrder(t *testing.T) {
	p := newTestProcessor()

	err := p.Apply(Message{Action: ActionModify, OrderID: 999, Size: 10})
	var notFound *orderbook.OrderNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, uint64(999), notFound.OrderID)
}

func TestApplyFill(t *testing.T) {
	p := newTestProcessor()

	require.NoError(t, p.Apply(Message{Action: ActionAdd, Side: orderbook.Bid, Price: 10050, OrderID: 1, Size: 100}))
	require.NoError(t, p.Apply(Message{Action: ActionFill, OrderID: 1, Size: 40}))

	best, ok := p.Book().BestBid()
	require.True(t, ok)
	assert.Equal(t, uint64(60), best.Qty)
}

func TestApplyFillExceeds(t *testing.T) {
	p := newTestProcessor()

	require.NoError(t, p.Apply(Message{Action: ActionAdd, Side: orderbook.Bid, Price: 10050, OrderID: 1, Size: 100}))

	err := p.Apply(Message{Action: ActionFill, OrderID: 1, Size: 150})
	var tooLarge *orderbook.FillExceedsSizeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, uint64(150), tooLarge.Requested)
	assert.Equal(t, uint64(100), tooLarge.Available)

	best, ok := p.Book().BestBid()
	require.True(t, ok)
	assert.Equal(t, uint64(100), best.Qty, "failed fill must leave the order untouched")
}

func TestApplyClearResetsBook(t *testing.T) {
	p := newTestProcessor()

	require.NoError(t, p.Apply(Message{Action: ActionAdd, Side: orderbook.Bid, Price: 10050, OrderID: 1, Size: 100}))
	require.NoError(t, p.Apply(Message{Action: ActionAdd, Side: orderbook.Ask, Price: 10052, OrderID: 2, Size: 50}))
	require.NoError(t, p.Apply(Message{Action: ActionClear}))

	_, bidOK := p.Book().BestBid()
	_, askOK := p.Book().BestAsk()
	assert.False(t, bidOK)
	assert.False(t, askOK)
	assert.Equal(t, 0, p.Book().OrderCount())

	// The cleared book accepts new state from scratch.
	require.NoError(t, p.Apply(Message{Action: ActionAdd, Side: orderbook.Bid, Price: 10048, OrderID: 3, Size: 25}))
	best, ok := p.Book().BestBid()
	require.True(t, ok)
	assert.Equal(t, int64(10048), best.Price)
}

func TestApplyTradeIsNoop(t *testing.T) {
	p := newTestProcessor()

	require.NoError(t, p.Apply(Message{Action: ActionAdd, Side: orderbook.Bid, Price: 10050, OrderID: 1, Size: 100}))
	require.NoError(t, p.Apply(Message{Action: ActionTrade, Side: orderbook.Ask, Price: 10050, OrderID: 1, Size: 100}))

	best, ok := p.Book().BestBid()
	require.True(t, ok)
	assert.Equal(t, uint64(100), best.Qty)
}

func TestApplyUnknownAction(t *testing.T) {
	p := newTestProcessor()

	err := p.Apply(Message{Action: Action(9)})
	var unknown *UnknownActionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, int8(9), unknown.Code)
}

func TestActionFromCode(t *testing.T) {
	for code, want := range map[int8]Action{
		1: ActionAdd, 2: ActionCancel, 3: ActionModify,
		4: ActionFill, 5: ActionClear, 6: ActionTrade,
	} {
		got, err := ActionFromCode(code)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	for _, code := range []int8{0, 7, -1} {
		_, err := ActionFromCode(code)
		var unknown *UnknownActionError
		assert.ErrorAs(t, err, &unknown, "code %d", code)
	}
}

func TestSideFromCode(t *testing.T) {
	got, err := SideFromCode(1)
	require.NoError(t, err)
	assert.Equal(t, orderbook.Bid, got)

	got, err = SideFromCode(2)
	require.NoError(t, err)
	assert.Equal(t, orderbook.Ask, got)

	_, err = SideFromCode(3)
	var conv *SideConversionError
	require.ErrorAs(t, err, &conv)
	assert.Equal(t, int8(3), conv.Code)
}

func TestParseActionAndSide(t *testing.T) {
	a, err := ParseAction("fill")
	require.NoError(t, err)
	assert.Equal(t, ActionFill, a)

	_, err = ParseAction("bogus")
	assert.Error(t, err)

	s, err := ParseSide("ask")
	require.NoError(t, err)
	assert.Equal(t, orderbook.Ask, s)

	_, err = ParseSide("")
	assert.Error(t, err)
}
