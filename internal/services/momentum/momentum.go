// Package momentum computes multi-horizon returns, a blended momentum score and
// cross-sectional relative strength rankings.
package momentum

import (
	"math"
	"time"

	"FinDash/internal/domain/models"
	"FinDash/internal/services/stats"
)

// Horizon weights for the momentum score. Missing buckets drop out of both
// numerator and denominator.
const (
	WeightOneWeek     = 0.10
	WeightOneMonth    = 0.20
	WeightThreeMonths = 0.35
	WeightSixMonths   = 0.35
)

const (
	reversalThreshold = 1.0
	slopeThreshold    = 1.0
	minTrendBuckets   = 3
)

type horizon struct {
	shift  func(time.Time) time.Time
	weight float64
	// periods per year, used to annualise the bucket return
	perYear float64
}

var horizons = [...]horizon{
	{func(t time.Time) time.Time { return t.AddDate(0, 0, -7) }, WeightOneWeek, 52},
	{func(t time.Time) time.Time { return t.AddDate(0, -1, 0) }, WeightOneMonth, 12},
	{func(t time.Time) time.Time { return t.AddDate(0, -3, 0) }, WeightThreeMonths, 4},
	{func(t time.Time) time.Time { return t.AddDate(0, -6, 0) }, WeightSixMonths, 2},
}

func buckets(r *models.HorizonReturns) [4]**float64 {
	return [4]**float64{&r.OneWeek, &r.OneMonth, &r.ThreeMonths, &r.SixMonths}
}

// CalculateReturns measures currentPrice against the bar nearest to, and not
// after, each lookback date. history need not be sorted.
func CalculateReturns(history []models.PriceBar, currentPrice float64, now time.Time) models.HorizonReturns {
	var out models.HorizonReturns
	for i, b := range buckets(&out) {
		base, ok := priceAsOf(history, horizons[i].shift(now))
		if !ok || base <= 0 {
			continue
		}
		v := stats.Round((currentPrice/base-1)*100, 2)
		*b = &v
	}
	return out
}

func priceAsOf(history []models.PriceBar, target time.Time) (float64, bool) {
	var (
		best  float64
		diff  time.Duration
		found bool
	)
	for _, b := range history {
		if b.Date.After(target) {
			continue
		}
		d := target.Sub(b.Date)
		if !found || d < diff {
			best, diff, found = b.Close, d, true
		}
	}
	return best, found
}

// MomentumScore is the weighted mean of the available buckets; zero when none are present.
func MomentumScore(r models.HorizonReturns) float64 {
	var sum, weights float64
	for i, b := range buckets(&r) {
		if *b == nil {
			continue
		}
		sum += **b * horizons[i].weight
		weights += horizons[i].weight
	}
	if weights == 0 {
		return 0
	}
	return stats.Round(sum/weights, 2)
}

// ClassifyTrend compares short-horizon and long-horizon returns.
func ClassifyTrend(r models.HorizonReturns) models.Trend {
	if r.Available() < minTrendBuckets {
		return models.TrendSteady
	}
	recent, okRecent := meanOf(r.OneWeek, r.OneMonth)
	older, okOlder := meanOf(r.ThreeMonths, r.SixMonths)
	if okRecent && okOlder && recent*older < 0 && math.Abs(recent) > reversalThreshold {
		return models.TrendReversing
	}

	// annualised returns from the longest horizon to the shortest
	var annual []float64
	bs := buckets(&r)
	for i := len(bs) - 1; i >= 0; i-- {
		if *bs[i] != nil {
			annual = append(annual, **bs[i]*horizons[i].perYear)
		}
	}
	var slope float64
	for i := 1; i < len(annual); i++ {
		slope += annual[i] - annual[i-1]
	}
	slope /= float64(len(annual) - 1)

	switch {
	case slope > slopeThreshold:
		return models.TrendAccelerating
	case slope < -slopeThreshold:
		return models.TrendDecelerating
	default:
		return models.TrendSteady
	}
}

func meanOf(vs ...*float64) (float64, bool) {
	var sum float64
	n := 0
	for _, v := range vs {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// PercentileRank is the share of peers scoring at or below score, in percent.
func PercentileRank(score float64, peers []float64) float64 {
	if len(peers) == 0 {
		return 0
	}
	n := 0
	for _, p := range peers {
		if p <= score {
			n++
		}
	}
	return stats.Round(float64(n)/float64(len(peers))*100, 2)
}
