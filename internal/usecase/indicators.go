package usecase

import (
	"context"
	"fmt"

	"FinDash/internal/domain/models"
	domrepo "FinDash/internal/domain/repository"
	"FinDash/internal/services/features"
	"FinDash/internal/services/indicators"
	"FinDash/internal/services/signals"
	"FinDash/internal/services/stats"
	"FinDash/internal/services/zscore"
)

const volWindow = 20

// HistorySource is the slice of MarketData the analytics usecases read.
type HistorySource interface {
	History(ctx context.Context, symbol string) ([]models.PriceBar, error)
	Interval() domrepo.Interval
}

type IndicatorsUseCase struct {
	md HistorySource
}

func NewIndicatorsUseCase(md HistorySource) *IndicatorsUseCase {
	return &IndicatorsUseCase{md: md}
}

// Snapshot computes every indicator the history allows. period is the RSI period.
func (uc *IndicatorsUseCase) Snapshot(ctx context.Context, symbol string, period int) (*models.IndicatorSnapshot, error) {
	if period <= 0 {
		period = indicators.DefaultRSIPeriod
	}
	bars, err := uc.md.History(ctx, symbol)
	if err != nil {
		return nil, toAppError(err, symbol)
	}
	if len(bars) < period+1 {
		return nil, toAppError(fmt.Errorf("%d bars for rsi(%d): %w", len(bars), period, ErrInsufficientData), symbol)
	}

	last := bars[len(bars)-1]
	snap := &models.IndicatorSnapshot{
		Symbol: symbol,
		AsOf:   last.Date,
		Close:  last.Close,
		RSI:    indicators.CalculateRSI(bars, period),
		MACD:   indicators.CalculateMACD(bars, indicators.DefaultMACDFast, indicators.DefaultMACDSlow, indicators.DefaultMACDSignal),
	}
	if bb := indicators.CalculateBollingerBands(bars, indicators.DefaultBollingerPeriod, indicators.DefaultBollingerMultiplier); bb != nil {
		snap.Bollinger = bb
		snap.Squeeze = signals.Squeezed(bars, bb.Bandwidth)
	}
	closes := models.Closes(bars)
	z := zscore.CalculateZScore(last.Close, closes[:len(closes)-1])
	snap.ZScore = &z

	returns := features.ComputeLogReturns(bars)
	if len(returns) >= volWindow {
		v := stats.Round(features.RealizedVolatility(returns, volWindow, features.BarsPerYear(string(uc.md.Interval()))), 4)
		snap.RealizedVolatility = &v
	}
	return snap, nil
}

// RSISeries returns one RSI per trailing window of period+1 bars.
func (uc *IndicatorsUseCase) RSISeries(ctx context.Context, symbol string, period int) ([]models.RSIPoint, error) {
	if period <= 0 {
		period = indicators.DefaultRSIPeriod
	}
	bars, err := uc.md.History(ctx, symbol)
	if err != nil {
		return nil, toAppError(err, symbol)
	}
	series := indicators.CalculateRSISeries(bars, period)
	if len(series) == 0 {
		return nil, toAppError(fmt.Errorf("%d bars for rsi(%d): %w", len(bars), period, ErrInsufficientData), symbol)
	}
	return series, nil
}
