package indicators

import (
	"github.com/markcheno/go-talib"

	"FinDash/internal/domain/models"
	"FinDash/internal/services/stats"
)

const (
	DefaultBollingerPeriod     = 20
	DefaultBollingerMultiplier = 2.0
	DefaultSqueezePercentile   = 20.0
	minSqueezeHistory          = 20
)

// CalculateBollingerBands computes the bands over the trailing period closes, or nil
// when fewer bars are available. Sigma is the population standard deviation.
func CalculateBollingerBands(bars []models.PriceBar, period int, multiplier float64) *models.BollingerBandsResult {
	if period <= 0 {
		period = DefaultBollingerPeriod
	}
	if multiplier <= 0 {
		multiplier = DefaultBollingerMultiplier
	}
	if len(bars) < period {
		return nil
	}
	ub, mb, lb := talib.BBands(models.Closes(bars[len(bars)-period:]), period, multiplier, multiplier, talib.SMA)
	upper, middle, lower := ub[period-1], mb[period-1], lb[period-1]
	current := bars[len(bars)-1].Close

	res := &models.BollingerBandsResult{
		Upper:    upper,
		Middle:   middle,
		Lower:    lower,
		PercentB: 0.5,
		Signal:   bandPosition(current, upper, middle, lower),
	}
	if middle != 0 {
		res.Bandwidth = (upper - lower) / middle * 100
	}
	if upper != lower {
		res.PercentB = (current - lower) / (upper - lower)
	}
	return res
}

// CalculateBollingerSeries returns one band snapshot per trailing window of period bars.
func CalculateBollingerSeries(bars []models.PriceBar, period int, multiplier float64) []models.BollingerPoint {
	if period <= 0 {
		period = DefaultBollingerPeriod
	}
	if len(bars) < period {
		return []models.BollingerPoint{}
	}
	out := make([]models.BollingerPoint, 0, len(bars)-period+1)
	for end := period; end <= len(bars); end++ {
		b := CalculateBollingerBands(bars[end-period:end], period, multiplier)
		out = append(out, models.BollingerPoint{Date: bars[end-1].Date, BollingerBandsResult: *b})
	}
	return out
}

// DetectBollingerSqueeze reports whether current bandwidth is at or below the given
// percentile of history. With fewer than 20 history points it never flags.
func DetectBollingerSqueeze(currentBandwidth float64, history []float64, percentile float64) bool {
	if len(history) < minSqueezeHistory {
		return false
	}
	if percentile <= 0 {
		percentile = DefaultSqueezePercentile
	}
	threshold, err := stats.Percentile(history, percentile)
	if err != nil {
		return false
	}
	return currentBandwidth <= threshold
}

func bandPosition(price, upper, middle, lower float64) models.BandPosition {
	switch {
	case price > upper:
		return models.BandAboveUpper
	case price >= middle:
		return models.BandAboveMiddle
	case price >= lower:
		return models.BandBelowMiddle
	default:
		return models.BandBelowLower
	}
}
