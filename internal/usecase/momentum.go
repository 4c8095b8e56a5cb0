package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"FinDash/internal/domain/models"
	"FinDash/internal/service/cache"
	"FinDash/internal/services/momentum"
	applogger "FinDash/pkg/logger"
)

// PriceSource supplies a live price when one is known.
type PriceSource interface {
	Price(symbol string) (float64, bool)
}

type MomentumConfig struct {
	Benchmark   string
	Names       map[string]string
	TTL         time.Duration
	Concurrency int
}

type MomentumUseCase struct {
	md     HistorySource
	scorer *momentum.Scorer
	quotes PriceSource
	cache  cache.BytesCache
	cfg    MomentumConfig
	l      *applogger.Logger
	now    func() time.Time
}

func NewMomentumUseCase(md HistorySource, scorer *momentum.Scorer, quotes PriceSource, c cache.BytesCache,
	cfg MomentumConfig, l *applogger.Logger) *MomentumUseCase {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &MomentumUseCase{md: md, scorer: scorer, quotes: quotes, cache: c, cfg: cfg, l: l, now: time.Now}
}

// Rank scores symbols against the benchmark. Symbols whose history cannot be
// loaded are left out; a missing benchmark fails the request.
func (uc *MomentumUseCase) Rank(ctx context.Context, symbols []string) ([]models.RelativeStrengthScore, error) {
	symbols = dedupeSymbols(symbols)
	if len(symbols) == 0 {
		return nil, nil
	}
	key := cache.Key("momentum", uc.cfg.Benchmark, strings.Join(symbols, ","))
	return cache.GetOrLoad(ctx, uc.cache, key, uc.cfg.TTL, func(ctx context.Context) ([]models.RelativeStrengthScore, error) {
		return uc.rank(ctx, symbols)
	})
}

func (uc *MomentumUseCase) rank(ctx context.Context, symbols []string) ([]models.RelativeStrengthScore, error) {
	var (
		mu       sync.Mutex
		universe = make([]momentum.Instrument, 0, len(symbols))
		bench    momentum.Instrument
		benchErr error
		firstErr error
	)
	need := symbols
	if !contains(symbols, uc.cfg.Benchmark) {
		need = append(append([]string(nil), symbols...), uc.cfg.Benchmark)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.cfg.Concurrency)
	for _, symbol := range need {
		symbol := symbol
		g.Go(func() error {
			bars, err := uc.md.History(gctx, symbol)
			mu.Lock()
			defer mu.Unlock()
			if symbol == uc.cfg.Benchmark {
				benchErr = err
				bench = uc.instrument(symbol, bars)
			}
			if err != nil {
				uc.l.Warn("momentum history failed", applogger.String("symbol", symbol), applogger.Error(err))
				if firstErr == nil && contains(symbols, symbol) {
					firstErr = err
				}
				return nil
			}
			if contains(symbols, symbol) {
				universe = append(universe, uc.instrument(symbol, bars))
			}
			return nil
		})
	}
	_ = g.Wait()

	if benchErr != nil {
		return nil, toAppError(fmt.Errorf("benchmark: %w", benchErr), uc.cfg.Benchmark)
	}
	if len(universe) == 0 {
		return nil, toAppError(firstErr, symbols[0])
	}
	return uc.scorer.Rank(universe, bench, uc.now()), nil
}

func (uc *MomentumUseCase) instrument(symbol string, bars []models.PriceBar) momentum.Instrument {
	in := momentum.Instrument{Symbol: symbol, Name: symbol, History: bars}
	if n, ok := uc.cfg.Names[symbol]; ok && n != "" {
		in.Name = n
	}
	if uc.quotes != nil {
		if p, ok := uc.quotes.Price(symbol); ok {
			in.Price = p
		}
	}
	return in
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
