package features

import (
	"math"
	"sort"
	"time"

	"FinDash/internal/domain/models"
)

// ComputeLogReturns computes log returns r_t = ln(C_t / C_{t-1}).
// It returns a slice of length len(bars)-1, or nil if insufficient data.
func ComputeLogReturns(bars []models.PriceBar) []float64 {
	if len(bars) < 2 {
		return nil
	}
	out := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close
		cur := bars[i].Close
		if prev <= 0 || cur <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, math.Log(cur/prev))
	}
	return out
}

// RealizedVolatility computes annualized realized volatility over the trailing
// window using the provided number of bars per year.
func RealizedVolatility(logReturns []float64, window int, barsPerYear float64) float64 {
	if window <= 1 || len(logReturns) < window {
		return 0
	}
	sum := 0.0
	sum2 := 0.0
	for i := len(logReturns) - window; i < len(logReturns); i++ {
		r := logReturns[i]
		sum += r
		sum2 += r * r
	}
	n := float64(window)
	mean := sum / n
	variance := (sum2 - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance * barsPerYear)
}

// BarsPerYear returns the approximate number of bars per year for a provider interval.
func BarsPerYear(interval string) float64 {
	switch interval {
	case "1week":
		return 52
	case "1month":
		return 12
	default:
		return 252
	}
}

// SortChronological orders bars oldest first and drops repeated dates, keeping
// the last bar seen for each date. The input is not modified.
func SortChronological(bars []models.PriceBar) []models.PriceBar {
	out := append([]models.PriceBar(nil), bars...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return dedupe(out, func(b models.PriceBar) time.Time { return b.Date })
}

// SortObservations is SortChronological for macro series.
func SortObservations(points []models.ObservationPoint) []models.ObservationPoint {
	out := append([]models.ObservationPoint(nil), points...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return dedupe(out, func(p models.ObservationPoint) time.Time { return p.Date })
}

func dedupe[T any](sorted []T, date func(T) time.Time) []T {
	if len(sorted) < 2 {
		return sorted
	}
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if date(v).Equal(date(out[len(out)-1])) {
			out[len(out)-1] = v
			continue
		}
		out = append(out, v)
	}
	return out
}

// Since keeps bars dated on or after from; bars must already be sorted.
func Since(bars []models.PriceBar, from time.Time) []models.PriceBar {
	i := sort.Search(len(bars), func(i int) bool { return !bars[i].Date.Before(from) })
	return bars[i:]
}

// Latest returns the newest n points of an oldest-first slice.
func Latest[T any](items []T, n int) []T {
	if n <= 0 || n >= len(items) {
		return items
	}
	return items[len(items)-n:]
}
