package kafka

import (
	"context"
	"encoding/json"
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

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewProducerRequiresBrokersAndTopic(t *testing.T) {
	_, err := NewProducer(WithTopic("signals"))
	assert.Error(t, err)
	_, err = NewProducer(WithBrokers([]string{"localhost:9092"}))
	assert.Error(t, err)

	p, err := NewProducer(WithBrokers([]string{"localhost:9092"}), WithTopic("signals"), WithCompression("none"))
	require.NoError(t, err)
	assert.Equal(t, "signals", p.Topic())
	require.NoError(t, p.Close())
}

func TestPublishEncodesJSON(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "signals", "none")

	require.NoError(t, p.Publish(context.Background(), []byte("SPY"), map[string]string{"type": "BUY"}))
	require.NoError(t, p.PublishBatch(context.Background(), []Message{
		{Key: []byte("QQQ"), Value: "raw"},
		{Key: []byte("XLE"), Value: []byte(`{"a":1}`)},
	}))
	require.NoError(t, p.PublishBatch(context.Background(), nil))

	require.Len(t, w.msgs, 3)
	assert.Equal(t, "SPY", string(w.msgs[0].Key))
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, "BUY", decoded["type"])
	assert.Equal(t, "raw", string(w.msgs[1].Value))
	assert.False(t, w.msgs[2].Time.IsZero())

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishWrapsWriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := newProducer(w, "signals", "none")
	err := p.Publish(context.Background(), nil, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, w.err)

	err = p.Publish(context.Background(), nil, func() {})
	assert.Error(t, err, "unencodable values are rejected")
}
