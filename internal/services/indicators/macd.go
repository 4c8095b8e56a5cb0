package indicators

import (
	"github.com/markcheno/go-talib"

	"FinDash/internal/domain/models"
)

const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// SMA returns len(values)-period+1 simple moving averages, or nil if the input is short.
func SMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	return talib.Sma(values, period)[period-1:]
}

// EMA seeds with the SMA of the first period values and then applies
// ema = (price-prev)*2/(period+1) + prev. The result has len(values)-period+1 entries;
// entry 0 corresponds to values[period-1].
func EMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	return talib.Ema(values, period)[period-1:]
}

// CalculateMACD returns the latest MACD point, or nil when fewer than slow+signal bars exist.
func CalculateMACD(bars []models.PriceBar, fast, slow, signal int) *models.MACDResult {
	series := CalculateMACDSeries(bars, fast, slow, signal)
	if len(series) == 0 {
		return nil
	}
	r := series[len(series)-1].MACDResult
	return &r
}

// CalculateMACDSeries returns every point for which both MACD and signal line exist.
// Each point's crossover compares it with the preceding point; the first is NONE.
func CalculateMACDSeries(bars []models.PriceBar, fast, slow, signal int) []models.MACDPoint {
	fast, slow, signal = macdDefaults(fast, slow, signal)
	if len(bars) < slow+signal {
		return []models.MACDPoint{}
	}
	closes := models.Closes(bars)
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)
	offset := slow - fast

	line := make([]float64, len(slowEMA))
	for i := range slowEMA {
		line[i] = fastEMA[i+offset] - slowEMA[i]
	}
	sig := EMA(line, signal)

	// line[0] belongs to bar slow-1; sig[0] belongs to line[signal-1].
	first := slow - 1 + signal - 1
	out := make([]models.MACDPoint, 0, len(sig))
	for j, s := range sig {
		m := line[j+signal-1]
		p := models.MACDPoint{
			Date: bars[first+j].Date,
			MACDResult: models.MACDResult{
				MACD:      m,
				Signal:    s,
				Histogram: m - s,
				Crossover: models.CrossoverNone,
			},
		}
		if j > 0 {
			p.Crossover = crossover(out[j-1].MACD-out[j-1].Signal, m-s)
		}
		out = append(out, p)
	}
	return out
}

func crossover(prevDiff, currDiff float64) models.Crossover {
	switch {
	case prevDiff <= 0 && currDiff > 0:
		return models.CrossoverBullish
	case prevDiff >= 0 && currDiff < 0:
		return models.CrossoverBearish
	default:
		return models.CrossoverNone
	}
}

func macdDefaults(fast, slow, signal int) (int, int, int) {
	if fast <= 0 {
		fast = DefaultMACDFast
	}
	if slow <= 0 {
		slow = DefaultMACDSlow
	}
	if signal <= 0 {
		signal = DefaultMACDSignal
	}
	if fast > slow {
		fast, slow = slow, fast
	}
	return fast, slow, signal
}
