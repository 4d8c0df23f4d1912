// Package broadcaster periodically publishes market-by-price
// snapshots to Kafka.
package broadcaster

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"rainybook/infra/metrics"
	"rainybook/service"
)

type Broadcaster struct {
	svc      *service.MarketService
	producer sarama.SyncProducer
	topic    string
	interval time.Duration

	// instance distinguishes engines publishing to a shared topic.
	instance uuid.UUID
	log      zerolog.Logger
}

// envelope is the published message shape.
type envelope struct {
	V        int             `json:"v"`
	Instance string          `json:"instance"`
	Seq      uint64          `json:"seq"`
	TakenAt  time.Time       `json:"taken_at"`
	Book     json.RawMessage `json:"book"`
}

func New(
	svc *service.MarketService,
	brokers []string,
	topic string,
	interval time.Duration,
	log zerolog.Logger,
) (*Broadcaster, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &Broadcaster{
		svc:      svc,
		producer: producer,
		topic:    topic,
		interval: interval,
		instance: uuid.New(),
		log:      log,
	}, nil
}

// Run publishes on every tick until the context is cancelled.
func (b *Broadcaster) Run(ctx context.Context) {
	b.log.Info().
		Str("topic", b.topic).
		Dur("interval", b.interval).
		Str("instance", b.instance.String()).
		Msg("broadcaster started")

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := b.publishOnce(); err != nil {
				// Kafka hiccups are retried on the next tick.
				b.log.Warn().Err(err).Msg("snapshot publish failed")
			}
		}
	}
}

func (b *Broadcaster) publishOnce() error {
	seq, view, err := b.svc.Snapshot()
	if err != nil {
		return err
	}

	book, err := json.Marshal(view)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(envelope{
		V:        1,
		Instance: b.instance.String(),
		Seq:      seq,
		TakenAt:  time.Now().UTC(),
		Book:     book,
	})
	if err != nil {
		return err
	}

	_, _, err = b.producer.SendMessage(&sarama.ProducerMessage{
		Topic: b.topic,
		Key:   sarama.StringEncoder(fmt.Sprintf("%s/%d", b.instance, seq)),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return err
	}

	metrics.SnapshotsPublishedTotal.Inc()
	return nil
}

func (b *Broadcaster) Close() error {
	return b.producer.Close()
}
