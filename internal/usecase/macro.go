package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"FinDash/internal/domain/models"
	domrepo "FinDash/internal/domain/repository"
	dservice "FinDash/internal/domain/service"
	"FinDash/internal/service/cache"
	"FinDash/internal/services/regime"
	"FinDash/internal/services/zscore"
	applogger "FinDash/pkg/logger"
)

const defaultMacroHistory = 240

// regimeLookback rows are requested per input so trailing blank observations still leave a value.
const regimeLookback = 5

// SeriesRef names an economic series and its units transformation.
type SeriesRef struct {
	ID    string
	Units string
}

// RegimeInputs maps each classifier input to a series; an empty ID leaves the input unset.
type RegimeInputs struct {
	GDPGrowth    SeriesRef
	Inflation    SeriesRef
	Unemployment SeriesRef
	YieldCurve   SeriesRef
	FedFunds     SeriesRef
	ISM          SeriesRef
}

type MacroConfig struct {
	Inputs  RegimeInputs
	History int
	TTL     time.Duration
}

type MacroUseCase struct {
	provider dservice.MacroProvider
	store    domrepo.PriceStore
	playbook regime.Playbook
	cache    cache.BytesCache
	cfg      MacroConfig
	metrics  domrepo.Metrics
	l        *applogger.Logger
}

func NewMacroUseCase(p dservice.MacroProvider, store domrepo.PriceStore, pb regime.Playbook, c cache.BytesCache,
	cfg MacroConfig, m domrepo.Metrics, l *applogger.Logger) *MacroUseCase {
	if cfg.History <= 0 {
		cfg.History = defaultMacroHistory
	}
	if m == nil {
		m = domrepo.NopMetrics{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &MacroUseCase{provider: p, store: store, playbook: pb, cache: c, cfg: cfg, metrics: m, l: l}
}

// Series returns up to limit observations, oldest first. Provider failures fall back to the store.
func (uc *MacroUseCase) Series(ctx context.Context, ref SeriesRef, limit int) ([]models.ObservationPoint, error) {
	if limit <= 0 {
		limit = uc.cfg.History
	}
	key := cache.Key("fred", ref.ID, ref.Units, limit)
	return cache.GetOrLoad(ctx, uc.cache, key, uc.cfg.TTL, func(ctx context.Context) ([]models.ObservationPoint, error) {
		storeKey := ref.ID + ":" + ref.Units
		pts, err := uc.provider.Observations(ctx, ref.ID, ref.Units, limit)
		if err == nil && len(pts) == 0 {
			err = fmt.Errorf("%s: %w", ref.ID, dservice.ErrNoData)
		}
		if err == nil {
			if uc.store != nil {
				if serr := uc.store.SaveObservations(ctx, storeKey, pts); serr != nil {
					uc.l.Warn("persist observations failed", applogger.String("series", ref.ID), applogger.Error(serr))
				}
			}
			return pts, nil
		}
		uc.metrics.RecordError("macro")
		if uc.store != nil {
			if stored, serr := uc.store.Observations(ctx, storeKey, limit); serr == nil && len(stored) > 0 {
				uc.l.Info("serving stored series", applogger.String("series", ref.ID))
				return stored, nil
			}
		}
		return nil, err
	})
}

// ZScores scores each observation against the window before it.
func (uc *MacroUseCase) ZScores(ctx context.Context, ref SeriesRef, window int) ([]models.ZScorePoint, error) {
	if window <= 0 {
		window = zscore.DefaultRollingWindow
	}
	pts, err := uc.Series(ctx, ref, 0)
	if err != nil {
		return nil, toAppError(err, ref.ID)
	}
	out := zscore.CalculateRollingZScores(pts, window)
	if len(out) == 0 {
		return nil, toAppError(fmt.Errorf("%d observations for window %d: %w", len(pts), window, ErrInsufficientData), ref.ID)
	}
	return out, nil
}

// Anomalies flags observations beyond threshold standard deviations of the whole series.
func (uc *MacroUseCase) Anomalies(ctx context.Context, ref SeriesRef, threshold float64) ([]models.Anomaly, error) {
	pts, err := uc.Series(ctx, ref, 0)
	if err != nil {
		return nil, toAppError(err, ref.ID)
	}
	return zscore.DetectAnomalies(pts, threshold), nil
}

// Regime classifies the latest value of every configured input and attaches the playbook rows.
func (uc *MacroUseCase) Regime(ctx context.Context) (*models.RegimeView, error) {
	start := time.Now()
	defer func() { uc.metrics.RecordLatency("macro.regime", time.Since(start).Seconds()) }()

	var (
		in       models.MacroIndicators
		mu       sync.Mutex
		firstErr error
	)
	targets := []struct {
		ref SeriesRef
		dst **float64
	}{
		{uc.cfg.Inputs.GDPGrowth, &in.GDPGrowth},
		{uc.cfg.Inputs.Inflation, &in.Inflation},
		{uc.cfg.Inputs.Unemployment, &in.Unemployment},
		{uc.cfg.Inputs.YieldCurve, &in.YieldCurve},
		{uc.cfg.Inputs.FedFunds, &in.FedFunds},
		{uc.cfg.Inputs.ISM, &in.ISM},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		t := t
		if t.ref.ID == "" {
			continue
		}
		g.Go(func() error {
			pts, err := uc.Series(gctx, t.ref, regimeLookback)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				uc.l.Warn("regime input unavailable", applogger.String("series", t.ref.ID), applogger.Error(err))
				if firstErr == nil {
					firstErr = err
				}
				return nil
			}
			v := pts[len(pts)-1].Value
			*t.dst = &v
			return nil
		})
	}
	_ = g.Wait()

	if in.Available() == 0 && firstErr != nil {
		return nil, toAppError(firstErr, "regime")
	}
	c := regime.Classify(in)
	view := &models.RegimeView{Classification: c}
	if uc.playbook != nil {
		view.Sectors = uc.playbook.Recommendations(c.Regime)
	}
	return view, nil
}
