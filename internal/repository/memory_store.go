package repository

import (
	"context"
	"sync"
	"time"

	"FinDash/internal/domain/models"
	domrepo "FinDash/internal/domain/repository"
	"FinDash/internal/services/features"
)

type barKey struct {
	symbol string
	iv     domrepo.Interval
}

// MemoryStore implements Storage in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	bars    map[barKey][]models.PriceBar
	obs     map[string][]models.ObservationPoint
	signals map[string]models.TechnicalSignal
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bars:    make(map[barKey][]models.PriceBar),
		obs:     make(map[string][]models.ObservationPoint),
		signals: make(map[string]models.TechnicalSignal),
	}
}

func (s *MemoryStore) Init(context.Context) error   { return nil }
func (s *MemoryStore) Health(context.Context) error { return nil }
func (s *MemoryStore) Close() error                 { return nil }

// SaveBars merges bars into the stored series; a repeated date takes the new bar.
func (s *MemoryStore) SaveBars(_ context.Context, symbol string, iv domrepo.Interval, bars []models.PriceBar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := barKey{symbol, iv}
	s.bars[k] = features.SortChronological(append(append([]models.PriceBar(nil), s.bars[k]...), bars...))
	return nil
}

func (s *MemoryStore) Bars(_ context.Context, symbol string, iv domrepo.Interval, from time.Time, limit int) ([]models.PriceBar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := features.Latest(features.Since(s.bars[barKey{symbol, iv}], from), limit)
	return append([]models.PriceBar(nil), out...), nil
}

func (s *MemoryStore) SaveObservations(_ context.Context, seriesID string, points []models.ObservationPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.obs[seriesID] = features.SortObservations(append(append([]models.ObservationPoint(nil), s.obs[seriesID]...), points...))
	return nil
}

func (s *MemoryStore) Observations(_ context.Context, seriesID string, limit int) ([]models.ObservationPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ObservationPoint(nil), features.Latest(s.obs[seriesID], limit)...), nil
}

func (s *MemoryStore) SaveSignal(_ context.Context, sig *models.TechnicalSignal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signals[sig.Symbol] = *sig
	return nil
}

func (s *MemoryStore) LatestSignal(_ context.Context, symbol string) (*models.TechnicalSignal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sig, ok := s.signals[symbol]
	if !ok {
		return nil, nil
	}
	return &sig, nil
}
