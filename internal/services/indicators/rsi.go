package indicators

import (
	"math"

	"github.com/markcheno/go-talib"

	"FinDash/internal/domain/models"
)

const (
	DefaultRSIPeriod = 14
	RSIOverbought    = 70.0
	RSIOversold      = 30.0

	minRSIPeriod = 2
)

// CalculateRSI returns Wilder's RSI over the whole of bars, or nil when fewer than
// period+1 bars are available. A series without a single down move reads 100.
func CalculateRSI(bars []models.PriceBar, period int) *models.RSIResult {
	if period < minRSIPeriod {
		period = DefaultRSIPeriod
	}
	if len(bars) < period+1 {
		return nil
	}
	if !hasLoss(bars) {
		return newRSIResult(100)
	}
	out := talib.Rsi(models.Closes(bars), period)
	return newRSIResult(out[len(out)-1])
}

func hasLoss(bars []models.PriceBar) bool {
	for i := 1; i < len(bars); i++ {
		if bars[i].Close < bars[i-1].Close {
			return true
		}
	}
	return false
}

// CalculateRSISeries evaluates CalculateRSI independently on every trailing window of
// period+1 bars. No smoothing state is carried between windows.
func CalculateRSISeries(bars []models.PriceBar, period int) []models.RSIPoint {
	if period < minRSIPeriod {
		period = DefaultRSIPeriod
	}
	if len(bars) < period+1 {
		return []models.RSIPoint{}
	}
	out := make([]models.RSIPoint, 0, len(bars)-period)
	for end := period + 1; end <= len(bars); end++ {
		r := CalculateRSI(bars[end-period-1:end], period)
		out = append(out, models.RSIPoint{Date: bars[end-1].Date, RSIResult: *r})
	}
	return out
}

func newRSIResult(value float64) *models.RSIResult {
	r := &models.RSIResult{
		Value:        value,
		Signal:       models.RSINeutral,
		IsOverbought: value >= RSIOverbought,
		IsOversold:   value <= RSIOversold,
		Strength:     int(math.Round(value)),
	}
	switch {
	case r.IsOverbought:
		r.Signal = models.RSIOverbought
	case r.IsOversold:
		r.Signal = models.RSIOversold
	}
	return r
}
