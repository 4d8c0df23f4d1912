// Package kafka adapts Kafka topics to the engine: a consumer that
// yields normalized MBO events.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"rainybook/domain/mbo"
)

// Consumer reads JSON MBO events from one topic.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 1 << 20,
		}),
	}
}

// wireEvent mirrors the JSON event shape of the file and websocket
// feeds.
type wireEvent struct {
	Action  string `json:"action"`
	Side    string `json:"side"`
	Price   int64  `json:"price"`
	OrderID uint64 `json:"order_id"`
	Size    uint64 `json:"size"`
}

// Next blocks for the next event. Undecodable payloads and unknown
// action/side codes are returned as errors; committing the offset is
// the reader's concern either way.
func (c *Consumer) Next(ctx context.Context) (mbo.Message, error) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		return mbo.Message{}, err
	}

	var e wireEvent
	if err := json.Unmarshal(m.Value, &e); err != nil {
		return mbo.Message{}, fmt.Errorf("decode event at offset %d: %w", m.Offset, err)
	}

	msg := mbo.Message{Price: e.Price, OrderID: e.OrderID, Size: e.Size}
	if msg.Action, err = mbo.ParseAction(e.Action); err != nil {
		return mbo.Message{}, fmt.Errorf("event at offset %d: %w", m.Offset, err)
	}
	if e.Side != "" {
		if msg.Side, err = mbo.ParseSide(e.Side); err != nil {
			return mbo.Message{}, fmt.Errorf("event at offset %d: %w", m.Offset, err)
		}
	}
	return msg, nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
