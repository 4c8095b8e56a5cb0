// Package zscore standardises observations against reference history and flags outliers.
package zscore

import (
	"math"

	"FinDash/internal/domain/models"
	"FinDash/internal/services/stats"
)

const (
	DefaultRollingWindow    = 12
	DefaultAnomalyThreshold = 2.0

	madScale = 0.6745
)

// CalculateZScore standardises value against historical using the population
// standard deviation. Empty or constant history yields a zero NORMAL result.
func CalculateZScore(value float64, historical []float64) models.ZScoreResult {
	if len(historical) == 0 {
		return newResult(0)
	}
	sd := stats.StandardDeviation(historical, false)
	if sd == 0 {
		return newResult(0)
	}
	z := stats.Round(stats.ZScore(value, stats.Mean(historical), sd), 2)
	return newResult(z)
}

// Classify maps a z-score to its significance tier.
func Classify(z float64) models.Significance {
	abs := math.Abs(z)
	switch {
	case abs > 2:
		return models.SignificanceExtreme
	case abs > 1:
		return models.SignificanceHigh
	default:
		return models.SignificanceNormal
	}
}

// CalculateRollingZScores scores each point from index window onward against the
// window points that precede it. Series no longer than window produce no points.
func CalculateRollingZScores(series []models.ObservationPoint, window int) []models.ZScorePoint {
	if window <= 0 {
		window = DefaultRollingWindow
	}
	if len(series) <= window {
		return []models.ZScorePoint{}
	}
	values := models.Values(series)
	out := make([]models.ZScorePoint, 0, len(series)-window)
	for i := window; i < len(series); i++ {
		out = append(out, models.ZScorePoint{
			Date:         series[i].Date,
			Value:        values[i],
			ZScoreResult: CalculateZScore(values[i], values[i-window:i]),
		})
	}
	return out
}

// DetectAnomalies flags points whose z-score against the entire series exceeds
// threshold in absolute value.
func DetectAnomalies(series []models.ObservationPoint, threshold float64) []models.Anomaly {
	if threshold <= 0 {
		threshold = DefaultAnomalyThreshold
	}
	values := models.Values(series)
	out := make([]models.Anomaly, 0)
	for _, p := range series {
		z := CalculateZScore(p.Value, values)
		if math.Abs(z.Value) > threshold {
			out = append(out, models.Anomaly{Date: p.Date, Value: p.Value, ZScore: z.Value})
		}
	}
	return out
}

// CalculateModifiedZScore is the MAD-based robust score 0.6745*(x-median)/MAD.
func CalculateModifiedZScore(value float64, values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	med := stats.Median(values)
	dev := make([]float64, len(values))
	for i, v := range values {
		dev[i] = math.Abs(v - med)
	}
	mad := stats.Median(dev)
	if mad == 0 {
		return 0
	}
	return madScale * (value - med) / mad
}

func newResult(z float64) models.ZScoreResult {
	return models.ZScoreResult{
		Value:              z,
		Significance:       Classify(z),
		StandardDeviations: math.Abs(z),
	}
}
