// Package signals combines RSI, Bollinger Bands, MACD and a price z-score into a
// single BUY/SELL/HOLD call with human-readable reasoning.
package signals

import (
	"fmt"
	"math"
	"sort"
	"time"

	"FinDash/internal/domain/models"
	"FinDash/internal/services/indicators"
	"FinDash/internal/services/stats"
	"FinDash/internal/services/zscore"
)

// MinBars is the shortest history Generate will score.
const MinBars = 30

const squeezeReason = "Bollinger squeeze: volatility contraction, breakout likely"

// holdBand is the fraction of the total score the net score must exceed to leave HOLD.
const holdBand = 0.2

type Generator struct {
	now func() time.Time
}

type Option func(*Generator)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// tally accumulates the two sides plus the weight of every indicator that could be computed.
type tally struct {
	buy, sell float64
	possible  float64
	reasons   []string
}

func (t *tally) add(buy, sell float64, reason string) {
	t.buy += buy
	t.sell += sell
	if reason != "" {
		t.reasons = append(t.reasons, reason)
	}
}

// Generate scores bars (oldest first) and returns nil when fewer than MinBars are supplied.
func (g *Generator) Generate(symbol string, bars []models.PriceBar, w models.SignalWeights) *models.TechnicalSignal {
	if len(bars) < MinBars {
		return nil
	}
	var t tally
	out := &models.TechnicalSignal{Symbol: symbol, Timestamp: g.now()}

	if rsi := indicators.CalculateRSI(bars, indicators.DefaultRSIPeriod); rsi != nil {
		out.Indicators.RSI = &models.WeightedRSI{RSIResult: *rsi, Weight: w.RSI}
		t.possible += w.RSI
		scoreRSI(&t, rsi, w.RSI)
	}

	if bb := indicators.CalculateBollingerBands(bars, indicators.DefaultBollingerPeriod, indicators.DefaultBollingerMultiplier); bb != nil {
		out.Indicators.Bollinger = &models.WeightedBollinger{BollingerBandsResult: *bb, Weight: w.Bollinger}
		t.possible += w.Bollinger
		scoreBollinger(&t, bb, w.Bollinger)
		scoreSqueeze(&t, bars, bb.Bandwidth)
	}

	if macd := indicators.CalculateMACD(bars, indicators.DefaultMACDFast, indicators.DefaultMACDSlow, indicators.DefaultMACDSignal); macd != nil {
		out.Indicators.MACD = &models.WeightedMACD{MACDResult: *macd, Weight: w.MACD}
		t.possible += w.MACD
		scoreMACD(&t, macd, w.MACD)
	}

	closes := models.Closes(bars)
	z := zscore.CalculateZScore(closes[len(closes)-1], closes[:len(closes)-1])
	out.Indicators.ZScore = &models.WeightedZScore{ZScoreResult: z, Weight: w.ZScore}
	t.possible += w.ZScore
	scoreZScore(&t, z, w.ZScore)

	out.Type, out.Strength, out.Confidence = verdict(t)
	out.Reasoning = append(t.reasons, verdictReason(out.Type, t))
	return out
}

// Batch scores every symbol in name order. Symbols with too little history are skipped.
func (g *Generator) Batch(history map[string][]models.PriceBar, w models.SignalWeights) []models.TechnicalSignal {
	symbols := make([]string, 0, len(history))
	for s := range history {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	out := make([]models.TechnicalSignal, 0, len(symbols))
	for _, s := range symbols {
		if sig := g.Generate(s, history[s], w); sig != nil {
			out = append(out, *sig)
		}
	}
	return out
}

func scoreRSI(t *tally, r *models.RSIResult, w float64) {
	v := r.Value
	switch {
	case v <= indicators.RSIOversold:
		t.add(w*100, 0, fmt.Sprintf("RSI oversold at %.1f", v))
	case v < 45:
		t.add(w*50, 0, fmt.Sprintf("RSI leaning oversold at %.1f", v))
	case v >= indicators.RSIOverbought:
		t.add(0, w*100, fmt.Sprintf("RSI overbought at %.1f", v))
	case v > 55:
		t.add(0, w*50, fmt.Sprintf("RSI leaning overbought at %.1f", v))
	}
}

func scoreBollinger(t *tally, b *models.BollingerBandsResult, w float64) {
	switch {
	case b.Signal == models.BandBelowLower:
		t.add(w*100, 0, fmt.Sprintf("Price below lower Bollinger band (%%B %.2f)", b.PercentB))
	case b.Signal == models.BandAboveUpper:
		t.add(0, w*100, fmt.Sprintf("Price above upper Bollinger band (%%B %.2f)", b.PercentB))
	case b.Signal == models.BandBelowMiddle && b.PercentB < 0.2:
		t.add(w*50, 0, fmt.Sprintf("Price near lower Bollinger band (%%B %.2f)", b.PercentB))
	case b.Signal == models.BandAboveMiddle && b.PercentB > 0.8:
		t.add(0, w*50, fmt.Sprintf("Price near upper Bollinger band (%%B %.2f)", b.PercentB))
	}
}

// scoreSqueeze only annotates; a squeeze carries no direction.
func scoreSqueeze(t *tally, bars []models.PriceBar, bandwidth float64) {
	if Squeezed(bars, bandwidth) {
		t.add(0, 0, squeezeReason)
	}
}

func scoreMACD(t *tally, m *models.MACDResult, w float64) {
	switch {
	case m.Crossover == models.CrossoverBullish:
		t.add(w*100, 0, "MACD bullish crossover")
	case m.Crossover == models.CrossoverBearish:
		t.add(0, w*100, "MACD bearish crossover")
	case m.Histogram > 0:
		t.add(w*50, 0, fmt.Sprintf("MACD histogram positive (%.3f)", m.Histogram))
	case m.Histogram < 0:
		t.add(0, w*50, fmt.Sprintf("MACD histogram negative (%.3f)", m.Histogram))
	}
}

func scoreZScore(t *tally, z models.ZScoreResult, w float64) {
	switch {
	case z.Significance == models.SignificanceExtreme && z.Value < 0:
		t.add(w*100, 0, fmt.Sprintf("Price extremely below its average (z %.2f)", z.Value))
	case z.Significance == models.SignificanceHigh && z.Value < 0:
		t.add(w*50, 0, fmt.Sprintf("Price below its average (z %.2f)", z.Value))
	case z.Significance == models.SignificanceExtreme && z.Value > 0:
		t.add(0, w*100, fmt.Sprintf("Price extremely above its average (z %.2f)", z.Value))
	case z.Significance == models.SignificanceHigh && z.Value > 0:
		t.add(0, w*50, fmt.Sprintf("Price above its average (z %.2f)", z.Value))
	}
}

// Squeezed reports whether current bandwidth sits in the low tail of the bandwidths before it.
func Squeezed(bars []models.PriceBar, current float64) bool {
	series := indicators.CalculateBollingerSeries(bars, indicators.DefaultBollingerPeriod, indicators.DefaultBollingerMultiplier)
	if len(series) < 2 {
		return false
	}
	history := make([]float64, 0, len(series)-1)
	for _, p := range series[:len(series)-1] {
		history = append(history, p.Bandwidth)
	}
	return indicators.DetectBollingerSqueeze(current, history, indicators.DefaultSqueezePercentile)
}

func verdict(t tally) (models.SignalType, float64, float64) {
	total := t.buy + t.sell
	net := t.buy - t.sell
	if total == 0 {
		return models.SignalHold, 0, 0
	}
	var strength float64
	if t.possible > 0 {
		strength = clamp(math.Round(math.Max(t.buy, t.sell) / (t.possible * 100) * 100))
	}
	confidence := clamp(math.Round(math.Abs(net) / total * 100))
	switch {
	case math.Abs(net) < holdBand*total:
		return models.SignalHold, strength, confidence
	case net > 0:
		return models.SignalBuy, strength, confidence
	default:
		return models.SignalSell, strength, confidence
	}
}

func verdictReason(kind models.SignalType, t tally) string {
	b, s := stats.Round(t.buy, 1), stats.Round(t.sell, 1)
	switch kind {
	case models.SignalBuy:
		return fmt.Sprintf("BUY: buy score %.1f outweighs sell score %.1f", b, s)
	case models.SignalSell:
		return fmt.Sprintf("SELL: sell score %.1f outweighs buy score %.1f", s, b)
	default:
		return fmt.Sprintf("HOLD: buy score %.1f and sell score %.1f are balanced", b, s)
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
