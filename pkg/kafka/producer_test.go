package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestNewProducerValidation(t *testing.T) {
	_, err := NewProducer(WithTopic("t"))
	assert.Error(t, err)

	_, err = NewProducer(WithBrokers([]string{"localhost:9092"}))
	assert.Error(t, err)

	p, err := NewProducer(WithBrokers([]string{"localhost:9092"}), WithTopic("navscan.summaries"))
	require.NoError(t, err)
	assert.Equal(t, "navscan.summaries", p.Topic())
	require.NoError(t, p.Close())
}

func TestPublishBatchEncodesJSON(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, "topic")

	err := p.PublishBatch(context.Background(), []Message{
		{Key: []byte("A"), Value: map[string]int{"rows": 3}},
		{Key: []byte("B"), Value: "raw"},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "A", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"rows":3}`, string(w.msgs[0].Value))
	assert.Equal(t, "raw", string(w.msgs[1].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishBatchEmptyIsNoop(t *testing.T) {
	w := &fakeWriter{err: errors.New("should not be called")}
	p := NewProducerWithWriter(w, "topic")
	assert.NoError(t, p.PublishBatch(context.Background(), nil))
}

func TestPublishBatchWrapsWriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewProducerWithWriter(w, "topic")
	err := p.PublishBatch(context.Background(), []Message{{Value: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}
