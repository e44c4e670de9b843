package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NavScan/internal/domain/models"
	pkgkafka "NavScan/pkg/kafka"
)

type fakeProducer struct {
	msgs   []pkgkafka.Message
	closed bool
}

func (f *fakeProducer) PublishBatch(_ context.Context, m []pkgkafka.Message) error {
	f.msgs = append(f.msgs, m...)
	return nil
}

func (f *fakeProducer) Close() error {
	f.closed = true
	return nil
}

func TestKafkaSummaryPublisherKeysByTicker(t *testing.T) {
	fp := &fakeProducer{}
	p := NewKafkaSummaryPublisher(fp)

	sums := []models.TickerSummary{
		{Ticker: "DSU", Rows: 10, Label: models.LabelNoAnomaly},
		{Ticker: "KIO", Rows: 12, BurstDays: 11, Label: models.LabelBurst},
	}
	require.NoError(t, p.Publish(context.Background(), sums))
	require.Len(t, fp.msgs, 2)
	assert.Equal(t, "DSU", string(fp.msgs[0].Key))
	assert.Equal(t, sums[1], fp.msgs[1].Value)

	require.NoError(t, p.Close())
	assert.True(t, fp.closed)
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	assert.NoError(t, p.Publish(context.Background(), []models.TickerSummary{{Ticker: "X"}}))
	assert.NoError(t, p.Close())
}
