package repository

import (
	"context"
	"time"

	"FinDash/internal/domain/models"
)

// QuoteStream delivers live prices for a fixed symbol set.
type QuoteStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Quote, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

type Publisher interface {
	PublishSignal(ctx context.Context, s *models.TechnicalSignal) error
	PublishSignals(ctx context.Context, signals []*models.TechnicalSignal) error
	Close() error
}

// PriceStore persists provider history. Bars come back oldest first.
type PriceStore interface {
	SaveBars(ctx context.Context, symbol string, iv Interval, bars []models.PriceBar) error
	Bars(ctx context.Context, symbol string, iv Interval, from time.Time, limit int) ([]models.PriceBar, error)
	SaveObservations(ctx context.Context, seriesID string, points []models.ObservationPoint) error
	Observations(ctx context.Context, seriesID string, limit int) ([]models.ObservationPoint, error)
}

// SnapshotStore keeps the most recent computed signals.
type SnapshotStore interface {
	SaveSignal(ctx context.Context, s *models.TechnicalSignal) error
	LatestSignal(ctx context.Context, symbol string) (*models.TechnicalSignal, error)
}

type Storage interface {
	PriceStore
	SnapshotStore
	Init(ctx context.Context) error // ensure tables
	Health(ctx context.Context) error
	Close() error
}

type Metrics interface {
	RecordProviderRequest(provider, outcome string)
	RecordSignal(kind string)
	RecordError(kind string)
	RecordLastClose(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) RecordProviderRequest(string, string) {}
func (NopMetrics) RecordSignal(string)                  {}
func (NopMetrics) RecordError(string)                   {}
func (NopMetrics) RecordLastClose(string, float64)      {}
func (NopMetrics) RecordLatency(string, float64)        {}
