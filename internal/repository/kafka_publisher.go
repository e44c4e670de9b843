package repository

import (
	"context"

	"NavScan/internal/domain/models"
	drepo "NavScan/internal/domain/repository"
	pkgkafka "NavScan/pkg/kafka"
)

// BatchProducer is satisfied by *pkgkafka.Producer.
type BatchProducer interface {
	PublishBatch(ctx context.Context, messages []pkgkafka.Message) error
	Close() error
}

// KafkaSummaryPublisher writes one message per ticker, keyed by ticker.
type KafkaSummaryPublisher struct {
	producer BatchProducer
}

func NewKafkaSummaryPublisher(p BatchProducer) *KafkaSummaryPublisher {
	return &KafkaSummaryPublisher{producer: p}
}

var _ drepo.SummaryPublisher = (*KafkaSummaryPublisher)(nil)

func (p *KafkaSummaryPublisher) Publish(ctx context.Context, summaries []models.TickerSummary) error {
	msgs := make([]pkgkafka.Message, 0, len(summaries))
	for _, s := range summaries {
		msgs = append(msgs, pkgkafka.Message{Key: []byte(s.Ticker), Value: s})
	}
	return p.producer.PublishBatch(ctx, msgs)
}

func (p *KafkaSummaryPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher discards summaries.
type NoopPublisher struct{}

var _ drepo.SummaryPublisher = NoopPublisher{}

func (NoopPublisher) Publish(context.Context, []models.TickerSummary) error { return nil }
func (NoopPublisher) Close() error                                          { return nil }
