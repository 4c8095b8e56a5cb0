package momentum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinDash/internal/domain/models"
)

var asOf = time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)

func f(v float64) *float64 { return &v }

// dailyHistory returns one bar per calendar day ending at end, priced by fn(daysBeforeEnd).
func dailyHistory(end time.Time, days int, fn func(ago int) float64) []models.PriceBar {
	bars := make([]models.PriceBar, 0, days+1)
	for ago := days; ago >= 0; ago-- {
		bars = append(bars, models.PriceBar{Date: end.AddDate(0, 0, -ago), Close: fn(ago)})
	}
	return bars
}

func TestCalculateReturnsAllHorizons(t *testing.T) {
	hist := dailyHistory(asOf, 200, func(ago int) float64 { return 300 - float64(ago) })
	r := CalculateReturns(hist, 300, asOf)

	require.NotNil(t, r.OneWeek)
	require.NotNil(t, r.OneMonth)
	require.NotNil(t, r.ThreeMonths)
	require.NotNil(t, r.SixMonths)
	assert.Equal(t, 2.39, *r.OneWeek) // 300/293
	// 2024-05-28 is 31 days back, 2024-03-28 is 92, 2023-12-28 is 183
	assert.Equal(t, 11.52, *r.OneMonth)
	assert.Equal(t, 44.23, *r.ThreeMonths)
	assert.Equal(t, 156.41, *r.SixMonths)
}

func TestCalculateReturnsRoundTripOneWeek(t *testing.T) {
	hist := dailyHistory(asOf, 40, func(ago int) float64 { return 50 + float64(ago%7)*1.7 })
	last := hist[len(hist)-1].Close
	weekAgo := hist[len(hist)-8].Close
	r := CalculateReturns(hist, last, asOf)
	require.NotNil(t, r.OneWeek)
	assert.InDelta(t, (last/weekAgo-1)*100, *r.OneWeek, 0.005)
}

func TestCalculateReturnsMissingHorizons(t *testing.T) {
	hist := dailyHistory(asOf, 10, func(int) float64 { return 100 })
	r := CalculateReturns(hist, 110, asOf)
	require.NotNil(t, r.OneWeek)
	assert.Equal(t, 10.0, *r.OneWeek)
	assert.Nil(t, r.OneMonth)
	assert.Nil(t, r.ThreeMonths)
	assert.Nil(t, r.SixMonths)
	assert.Equal(t, 1, r.Available())

	assert.Equal(t, 0, CalculateReturns(nil, 100, asOf).Available())
}

func TestCalculateReturnsPicksNearestEarlierBar(t *testing.T) {
	// The week-ago date is a Friday; only Thursday and the following Monday exist.
	target := asOf.AddDate(0, 0, -7)
	hist := []models.PriceBar{
		{Date: target.AddDate(0, 0, 3), Close: 1000},
		{Date: target.AddDate(0, 0, -1), Close: 80},
		{Date: target.AddDate(0, 0, -5), Close: 40},
	}
	r := CalculateReturns(hist, 100, asOf)
	require.NotNil(t, r.OneWeek)
	assert.Equal(t, 25.0, *r.OneWeek)
}

func TestCalculateReturnsSkipsNonPositiveBase(t *testing.T) {
	hist := []models.PriceBar{{Date: asOf.AddDate(0, 0, -8), Close: 0}}
	assert.Nil(t, CalculateReturns(hist, 100, asOf).OneWeek)
}

func TestMomentumScore(t *testing.T) {
	assert.Equal(t, 4.2, MomentumScore(models.HorizonReturns{OneMonth: f(4.2)}))
	assert.Equal(t, -7.31, MomentumScore(models.HorizonReturns{SixMonths: f(-7.31)}))
	assert.Equal(t, 3.05, MomentumScore(models.HorizonReturns{
		OneWeek: f(10), OneMonth: f(5), ThreeMonths: f(2), SixMonths: f(1),
	}))
	// 1w and 3m only: (0.1*10 + 0.35*2) / 0.45
	assert.Equal(t, 3.78, MomentumScore(models.HorizonReturns{OneWeek: f(10), ThreeMonths: f(2)}))
	assert.Equal(t, 0.0, MomentumScore(models.HorizonReturns{}))
}

func TestClassifyTrend(t *testing.T) {
	cases := []struct {
		name string
		r    models.HorizonReturns
		want models.Trend
	}{
		{"too few buckets", models.HorizonReturns{OneWeek: f(50), SixMonths: f(-50)}, models.TrendSteady},
		{"reversing down", models.HorizonReturns{OneWeek: f(-5), OneMonth: f(-3), ThreeMonths: f(10), SixMonths: f(20)}, models.TrendReversing},
		{"small flip is not a reversal", models.HorizonReturns{OneWeek: f(-0.5), OneMonth: f(-0.5), ThreeMonths: f(0.1), SixMonths: f(0.1)}, models.TrendDecelerating},
		{"accelerating", models.HorizonReturns{OneWeek: f(2), OneMonth: f(4), ThreeMonths: f(6), SixMonths: f(8)}, models.TrendAccelerating},
		{"decelerating", models.HorizonReturns{OneWeek: f(0.1), OneMonth: f(0.5), ThreeMonths: f(5), SixMonths: f(20)}, models.TrendDecelerating},
		{"steady pace", models.HorizonReturns{OneMonth: f(2), ThreeMonths: f(6), SixMonths: f(12)}, models.TrendSteady},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ClassifyTrend(c.r))
		})
	}
}

func TestPercentileRank(t *testing.T) {
	peers := []float64{1, 2, 3, 4}
	assert.Equal(t, 75.0, PercentileRank(3, peers))
	assert.Equal(t, 100.0, PercentileRank(4, peers))
	assert.Equal(t, 0.0, PercentileRank(0.5, peers))
	assert.Equal(t, 0.0, PercentileRank(3, nil))
}

func TestScorerRank(t *testing.T) {
	linear := func(slope float64) []models.PriceBar {
		return dailyHistory(asOf, 200, func(ago int) float64 { return 100 + slope*float64(200-ago) })
	}
	universe := []Instrument{
		{Symbol: "XLU", Name: "Utilities", History: linear(0.05)},
		{Symbol: "SMH", Name: "Semiconductors", History: linear(0.5)},
		{Symbol: "XLE", Name: "Energy", History: linear(-0.1)},
	}
	bench := Instrument{Symbol: "SPY", History: linear(0.1)}

	got := NewScorer().Rank(universe, bench, asOf)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"SMH", "XLU", "XLE"}, []string{got[0].Symbol, got[1].Symbol, got[2].Symbol})
	for i, s := range got {
		assert.Equal(t, i+1, s.Rank)
	}
	assert.Equal(t, 100.0, got[0].PercentileRank)
	assert.InDelta(t, 66.67, got[1].PercentileRank, 1e-9)
	assert.InDelta(t, 33.33, got[2].PercentileRank, 1e-9)
	assert.Equal(t, "Semiconductors", got[0].Name)

	require.NotNil(t, got[0].VsSpyExcess.OneMonth)
	assert.Greater(t, *got[0].VsSpyExcess.OneMonth, 0.0)
	require.NotNil(t, got[2].VsSpyExcess.SixMonths)
	assert.Less(t, *got[2].VsSpyExcess.SixMonths, 0.0)
}

func TestInstrumentCurrentPriceFallsBackToLatestClose(t *testing.T) {
	in := Instrument{History: []models.PriceBar{
		{Date: asOf, Close: 12},
		{Date: asOf.AddDate(0, 0, -1), Close: 11},
	}}
	assert.Equal(t, 12.0, in.currentPrice())
	in.Price = 13
	assert.Equal(t, 13.0, in.currentPrice())
}
