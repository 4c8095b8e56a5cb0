package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinDash/internal/domain/models"
)

var d0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func TestComputeLogReturns(t *testing.T) {
	assert.Nil(t, ComputeLogReturns([]models.PriceBar{{Close: 1}}))
	got := ComputeLogReturns([]models.PriceBar{{Close: 100}, {Close: 110}, {Close: 0}, {Close: 99}})
	require.Len(t, got, 3)
	assert.InDelta(t, math.Log(1.1), got[0], 1e-12)
	assert.Equal(t, 0.0, got[1])
	assert.Equal(t, 0.0, got[2])
}

func TestRealizedVolatility(t *testing.T) {
	assert.Equal(t, 0.0, RealizedVolatility([]float64{0.01}, 5, 252))
	assert.InDelta(t, 0.0, RealizedVolatility([]float64{0.01, 0.01, 0.01}, 3, 252), 1e-6)
	// alternating +-1% has sample sd sqrt(4/3)*1% over a window of four
	got := RealizedVolatility([]float64{0.01, -0.01, 0.01, -0.01}, 4, 252)
	assert.InDelta(t, math.Sqrt(0.0001*4/3*252), got, 1e-12)
}

func TestSortChronologicalReversesAndDedupes(t *testing.T) {
	in := []models.PriceBar{
		{Date: d0.AddDate(0, 0, 2), Close: 3},
		{Date: d0.AddDate(0, 0, 1), Close: 2},
		{Date: d0, Close: 1},
		{Date: d0.AddDate(0, 0, 1), Close: 2.5},
	}
	got := SortChronological(in)
	require.Len(t, got, 3)
	assert.Equal(t, []float64{1, 2.5, 3}, models.Closes(got))
	assert.Equal(t, 3.0, in[0].Close, "input untouched")
}

func TestSortObservations(t *testing.T) {
	got := SortObservations([]models.ObservationPoint{
		{Date: d0.AddDate(0, 1, 0), Value: 2},
		{Date: d0, Value: 1},
	})
	assert.Equal(t, []float64{1, 2}, models.Values(got))
	assert.Empty(t, SortObservations(nil))
}

func TestSinceAndLatest(t *testing.T) {
	bars := []models.PriceBar{{Date: d0}, {Date: d0.AddDate(0, 0, 1)}, {Date: d0.AddDate(0, 0, 2)}}
	assert.Len(t, Since(bars, d0.AddDate(0, 0, 1)), 2)
	assert.Len(t, Since(bars, d0.AddDate(0, 0, 5)), 0)
	assert.Len(t, Latest(bars, 2), 2)
	assert.Equal(t, d0.AddDate(0, 0, 2), Latest(bars, 1)[0].Date)
	assert.Len(t, Latest(bars, 0), 3)
}

func TestBarsPerYear(t *testing.T) {
	assert.Equal(t, 252.0, BarsPerYear("1day"))
	assert.Equal(t, 52.0, BarsPerYear("1week"))
	assert.Equal(t, 12.0, BarsPerYear("1month"))
}
