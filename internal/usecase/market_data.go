package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FinDash/internal/domain/models"
	domrepo "FinDash/internal/domain/repository"
	dservice "FinDash/internal/domain/service"
	"FinDash/internal/service/cache"
	applogger "FinDash/pkg/logger"
)

// MarketDataConfig fixes the history window every consumer sees.
type MarketDataConfig struct {
	Interval domrepo.Interval
	Bars     int
	TTL      time.Duration
}

// MarketData resolves price history: cache, then each provider in order, then
// whatever the store last saw.
type MarketData struct {
	providers []dservice.MarketDataProvider
	store     domrepo.PriceStore
	cache     cache.BytesCache
	cfg       MarketDataConfig
	metrics   domrepo.Metrics
	l         *applogger.Logger
}

func NewMarketData(providers []dservice.MarketDataProvider, store domrepo.PriceStore, c cache.BytesCache,
	cfg MarketDataConfig, m domrepo.Metrics, l *applogger.Logger) *MarketData {
	if m == nil {
		m = domrepo.NopMetrics{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	if !domrepo.IsValidInterval(cfg.Interval) {
		cfg.Interval = domrepo.DefaultInterval()
	}
	return &MarketData{providers: providers, store: store, cache: c, cfg: cfg, metrics: m, l: l}
}

// Interval is the bar resolution served.
func (m *MarketData) Interval() domrepo.Interval { return m.cfg.Interval }

// History returns up to the configured number of bars for symbol, oldest first.
func (m *MarketData) History(ctx context.Context, symbol string) ([]models.PriceBar, error) {
	start := time.Now()
	defer func() { m.metrics.RecordLatency("market_data.history", time.Since(start).Seconds()) }()

	key := cache.Key("bars", symbol, m.cfg.Interval, m.cfg.Bars)
	bars, err := cache.GetOrLoad(ctx, m.cache, key, m.cfg.TTL, func(ctx context.Context) ([]models.PriceBar, error) {
		return m.fetch(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}
	if n := len(bars); n > 0 {
		m.metrics.RecordLastClose(symbol, bars[n-1].Close)
	}
	return bars, nil
}

func (m *MarketData) fetch(ctx context.Context, symbol string) ([]models.PriceBar, error) {
	var errs []error
	for _, p := range m.providers {
		bars, err := p.Bars(ctx, symbol, m.cfg.Interval, m.cfg.Bars)
		if err == nil && len(bars) > 0 {
			m.persist(ctx, symbol, bars)
			return bars, nil
		}
		if err == nil {
			err = fmt.Errorf("%s: %w", p.Name(), dservice.ErrNoData)
		}
		m.l.Warn("provider failed",
			applogger.String("provider", p.Name()),
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}

	if m.store != nil {
		stored, serr := m.store.Bars(ctx, symbol, m.cfg.Interval, time.Time{}, m.cfg.Bars)
		if serr == nil && len(stored) > 0 {
			m.l.Info("serving stored history", applogger.String("symbol", symbol), applogger.Int("bars", len(stored)))
			return stored, nil
		}
	}

	m.metrics.RecordError("market_data")
	if len(errs) == 0 {
		return nil, fmt.Errorf("no market data provider configured: %w", dservice.ErrNoData)
	}
	if allNotFound(errs) {
		return nil, fmt.Errorf("%s: %w", symbol, dservice.ErrNotFound)
	}
	return nil, errors.Join(errs...)
}

func (m *MarketData) persist(ctx context.Context, symbol string, bars []models.PriceBar) {
	if m.store == nil {
		return
	}
	if err := m.store.SaveBars(ctx, symbol, m.cfg.Interval, bars); err != nil {
		m.l.Warn("persist bars failed", applogger.String("symbol", symbol), applogger.Error(err))
	}
}

func allNotFound(errs []error) bool {
	for _, err := range errs {
		if !errors.Is(err, dservice.ErrNotFound) {
			return false
		}
	}
	return len(errs) > 0
}
