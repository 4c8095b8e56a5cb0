package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinDash/internal/domain/models"
	domrepo "FinDash/internal/domain/repository"
	pkgkafka "FinDash/pkg/kafka"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func sampleBars() []models.PriceBar {
	vol := int64(1000)
	return []models.PriceBar{
		{Date: day(3), Open: 2, High: 3, Low: 1, Close: 2.5},
		{Date: day(2), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: &vol},
		{Date: day(4), Open: 3, High: 4, Low: 2, Close: 3.5},
	}
}

// exerciseStorage runs the behaviour every Storage backend must share.
func exerciseStorage(t *testing.T, s domrepo.Storage) {
	ctx := context.Background()
	require.NoError(t, s.Init(ctx))
	require.NoError(t, s.Health(ctx))

	require.NoError(t, s.SaveBars(ctx, "SPY", domrepo.IntervalDaily, sampleBars()))
	// overwrite one date
	require.NoError(t, s.SaveBars(ctx, "SPY", domrepo.IntervalDaily, []models.PriceBar{{Date: day(4), Open: 3, High: 5, Low: 2, Close: 4.5}}))

	bars, err := s.Bars(ctx, "SPY", domrepo.IntervalDaily, time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, day(2), bars[0].Date.UTC())
	require.NotNil(t, bars[0].Volume)
	assert.Equal(t, int64(1000), *bars[0].Volume)
	assert.Nil(t, bars[1].Volume)
	assert.Equal(t, 4.5, bars[2].Close)

	latest, err := s.Bars(ctx, "SPY", domrepo.IntervalDaily, time.Time{}, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, day(3), latest[0].Date.UTC())

	since, err := s.Bars(ctx, "SPY", domrepo.IntervalDaily, day(4), 0)
	require.NoError(t, err)
	assert.Len(t, since, 1)

	other, err := s.Bars(ctx, "SPY", domrepo.IntervalWeekly, time.Time{}, 0)
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, s.SaveObservations(ctx, "UNRATE", []models.ObservationPoint{
		{Date: day(1), Value: 3.9}, {Date: day(3), Value: 4.1}, {Date: day(2), Value: 4.0},
	}))
	obs, err := s.Observations(ctx, "UNRATE", 2)
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, 4.0, obs[0].Value)
	assert.Equal(t, 4.1, obs[1].Value)

	none, err := s.LatestSignal(ctx, "SPY")
	require.NoError(t, err)
	assert.Nil(t, none)

	sig := &models.TechnicalSignal{
		Symbol: "SPY", Type: models.SignalBuy, Strength: 70, Confidence: 65,
		Reasoning: []string{"BUY: test"}, Timestamp: day(4),
	}
	require.NoError(t, s.SaveSignal(ctx, sig))
	got, err := s.LatestSignal(ctx, "SPY")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.SignalBuy, got.Type)
	assert.Equal(t, []string{"BUY: test"}, got.Reasoning)

	require.NoError(t, s.Close())
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	exerciseStorage(t, s)
}

func TestMemoryStore(t *testing.T) {
	exerciseStorage(t, NewMemoryStore())
}

type fakeProducer struct {
	keys   []string
	events []SignalEvent
	closed bool
}

func (f *fakeProducer) record(key []byte, v interface{}) {
	f.keys = append(f.keys, string(key))
	if ev, ok := v.(SignalEvent); ok {
		f.events = append(f.events, ev)
	}
}

func (f *fakeProducer) Publish(_ context.Context, key []byte, v interface{}) error {
	f.record(key, v)
	return nil
}

func (f *fakeProducer) PublishBatch(_ context.Context, msgs []pkgkafka.Message) error {
	for _, m := range msgs {
		f.record(m.Key, m.Value)
	}
	return nil
}

func (f *fakeProducer) Close() error { f.closed = true; return nil }

func TestKafkaPublisherKeysBySymbol(t *testing.T) {
	fp := &fakeProducer{}
	n := 0
	p := &KafkaPublisher{producer: fp, newID: func() string { n++; return fmt.Sprintf("ev-%d", n) }}
	ctx := context.Background()

	require.NoError(t, p.PublishSignal(ctx, &models.TechnicalSignal{Symbol: "XLK"}))
	require.NoError(t, p.PublishSignal(ctx, nil))
	require.NoError(t, p.PublishSignals(ctx, []*models.TechnicalSignal{{Symbol: "SPY"}, nil, {Symbol: "QQQ"}}))
	require.NoError(t, p.Close())

	assert.Equal(t, []string{"XLK", "SPY", "QQQ"}, fp.keys)
	require.Len(t, fp.events, 3)
	assert.Equal(t, "ev-1", fp.events[0].ID)
	assert.Equal(t, "SPY", fp.events[1].Signal.Symbol)
	assert.Equal(t, "ev-3", fp.events[2].ID)
	assert.True(t, fp.closed)
}

func TestNewKafkaPublisherAssignsUUIDs(t *testing.T) {
	p := NewKafkaPublisher(nil).(*KafkaPublisher)
	a, b := p.event(nil).ID, p.event(nil).ID
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
