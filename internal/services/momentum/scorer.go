package momentum

import (
	"sort"
	"time"

	"FinDash/internal/domain/models"
	"FinDash/internal/services/stats"
)

// Instrument is one member of a ranking universe. A zero Price means the last close is used.
type Instrument struct {
	Symbol  string
	Name    string
	History []models.PriceBar
	Price   float64
}

func (in Instrument) currentPrice() float64 {
	if in.Price > 0 || len(in.History) == 0 {
		return in.Price
	}
	latest := in.History[0]
	for _, b := range in.History[1:] {
		if b.Date.After(latest.Date) {
			latest = b
		}
	}
	return latest.Close
}

type Scorer struct{}

func NewScorer() *Scorer { return &Scorer{} }

// Rank scores every instrument, measures it against benchmark and orders the
// result by momentum, strongest first. Percentile ranks are relative to this
// universe only.
func (s *Scorer) Rank(universe []Instrument, benchmark Instrument, now time.Time) []models.RelativeStrengthScore {
	bench := CalculateReturns(benchmark.History, benchmark.currentPrice(), now)

	out := make([]models.RelativeStrengthScore, 0, len(universe))
	for _, in := range universe {
		r := CalculateReturns(in.History, in.currentPrice(), now)
		out = append(out, models.RelativeStrengthScore{
			Symbol:        in.Symbol,
			Name:          in.Name,
			Returns:       r,
			MomentumScore: MomentumScore(r),
			Trend:         ClassifyTrend(r),
			VsSpyExcess:   excess(r, bench),
		})
	}

	peers := make([]float64, len(out))
	for i := range out {
		peers[i] = out[i].MomentumScore
	}
	for i := range out {
		out[i].PercentileRank = PercentileRank(out[i].MomentumScore, peers)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MomentumScore != out[j].MomentumScore {
			return out[i].MomentumScore > out[j].MomentumScore
		}
		return out[i].Symbol < out[j].Symbol
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func excess(r, bench models.HorizonReturns) models.HorizonReturns {
	var out models.HorizonReturns
	rb, bb, ob := buckets(&r), buckets(&bench), buckets(&out)
	for i := range ob {
		if *rb[i] == nil || *bb[i] == nil {
			continue
		}
		v := stats.Round(**rb[i]-**bb[i], 2)
		*ob[i] = &v
	}
	return out
}
