// Package feed decodes raw market-data sources into normalized
// market-by-order messages. Decoding failures (unknown action or side
// codes, malformed rows) are reported here, before anything reaches
// the book.
package feed

import (
	"fmt"
	"path/filepath"

	"rainybook/domain/mbo"
	"rainybook/domain/orderbook"
)

// event is the wire form shared by the JSON sources.
type event struct {
	Action  string `json:"action"`
	Side    string `json:"side"`
	Price   int64  `json:"price"`
	OrderID uint64 `json:"order_id"`
	Size    uint64 `json:"size"`
}

func (e event) normalize() (mbo.Message, error) {
	action, err := mbo.ParseAction(e.Action)
	if err != nil {
		return mbo.Message{}, fmt.Errorf("action %q: %w", e.Action, err)
	}

	// Clear and trade events may carry no side at all.
	var side orderbook.Side
	if e.Side != "" {
		side, err = mbo.ParseSide(e.Side)
		if err != nil {
			return mbo.Message{}, fmt.Errorf("side %q: %w", e.Side, err)
		}
	}

	return mbo.Message{
		Action:  action,
		Side:    side,
		Price:   e.Price,
		OrderID: e.OrderID,
		Size:    e.Size,
	}, nil
}

// ReadFile decodes a whole event file, dispatching on the extension:
// .csv for numeric-coded CSV, .jsonl or .ndjson for JSON lines.
func ReadFile(path string) ([]mbo.Message, error) {
	switch ext := filepath.Ext(path); ext {
	case ".csv":
		return readCSV(path)
	case ".jsonl", ".ndjson":
		return readJSONL(path)
	default:
		return nil, fmt.Errorf("unsupported feed file extension %q (want .csv, .jsonl or .ndjson)", ext)
	}
}
