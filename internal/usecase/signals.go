package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"FinDash/internal/domain/models"
	domrepo "FinDash/internal/domain/repository"
	"FinDash/internal/services/signals"
	applogger "FinDash/pkg/logger"
)

// BatchResult carries the signals that could be generated and why the rest could not.
type BatchResult struct {
	Signals []models.TechnicalSignal `json:"signals"`
	Errors  map[string]string        `json:"errors,omitempty"`
}

type SignalsUseCase struct {
	md          HistorySource
	gen         *signals.Generator
	weights     models.SignalWeights
	store       domrepo.SnapshotStore
	pub         domrepo.Publisher
	metrics     domrepo.Metrics
	l           *applogger.Logger
	concurrency int
}

func NewSignalsUseCase(md HistorySource, gen *signals.Generator, w models.SignalWeights, store domrepo.SnapshotStore,
	pub domrepo.Publisher, m domrepo.Metrics, l *applogger.Logger, concurrency int) *SignalsUseCase {
	if m == nil {
		m = domrepo.NopMetrics{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &SignalsUseCase{md: md, gen: gen, weights: w, store: store, pub: pub, metrics: m, l: l, concurrency: concurrency}
}

// Signal generates, stores and publishes the composite signal for symbol.
func (uc *SignalsUseCase) Signal(ctx context.Context, symbol string) (*models.TechnicalSignal, error) {
	start := time.Now()
	defer func() { uc.metrics.RecordLatency("signals.single", time.Since(start).Seconds()) }()

	bars, err := uc.md.History(ctx, symbol)
	if err != nil {
		return nil, toAppError(err, symbol)
	}
	sig := uc.gen.Generate(symbol, bars, uc.weights)
	if sig == nil {
		return nil, toAppError(fmt.Errorf("%d bars, need %d: %w", len(bars), signals.MinBars, ErrInsufficientData), symbol)
	}
	uc.record(ctx, []models.TechnicalSignal{*sig})
	return sig, nil
}

// Batch fans history fetches out over at most concurrency goroutines. A failing
// symbol is reported in Errors and does not fail the batch.
func (uc *SignalsUseCase) Batch(ctx context.Context, symbols []string) (*BatchResult, error) {
	start := time.Now()
	defer func() { uc.metrics.RecordLatency("signals.batch", time.Since(start).Seconds()) }()

	var (
		mu      sync.Mutex
		history = make(map[string][]models.PriceBar, len(symbols))
		failed  = make(map[string]string)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for _, symbol := range dedupeSymbols(symbols) {
		symbol := symbol
		g.Go(func() error {
			bars, err := uc.md.History(gctx, symbol)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed[symbol] = err.Error()
				return nil
			}
			if len(bars) < signals.MinBars {
				failed[symbol] = fmt.Sprintf("%d bars, need %d: %v", len(bars), signals.MinBars, ErrInsufficientData)
				return nil
			}
			history[symbol] = bars
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, toAppError(err, "batch")
	}

	out := &BatchResult{Signals: uc.gen.Batch(history, uc.weights)}
	if len(failed) > 0 {
		out.Errors = failed
	}
	uc.record(ctx, out.Signals)
	return out, nil
}

// record stores and publishes. Neither failure reaches the caller.
func (uc *SignalsUseCase) record(ctx context.Context, sigs []models.TechnicalSignal) {
	ptrs := make([]*models.TechnicalSignal, len(sigs))
	for i := range sigs {
		ptrs[i] = &sigs[i]
		uc.metrics.RecordSignal(string(sigs[i].Type))
		if uc.store == nil {
			continue
		}
		if err := uc.store.SaveSignal(ctx, ptrs[i]); err != nil {
			uc.metrics.RecordError("store")
			uc.l.Warn("save signal failed", applogger.String("symbol", sigs[i].Symbol), applogger.Error(err))
		}
	}
	if uc.pub == nil || len(ptrs) == 0 {
		return
	}
	if err := uc.pub.PublishSignals(ctx, ptrs); err != nil && !errors.Is(err, context.Canceled) {
		uc.metrics.RecordError("publish")
		uc.l.Warn("publish signals failed", applogger.Int("count", len(ptrs)), applogger.Error(err))
	}
}

func dedupeSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
