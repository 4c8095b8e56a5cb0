package indicators

import (
	"testing"

	"github.com/markcheno/go-talib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinDash/internal/domain/models"
)

func TestCalculateRSIInsufficientData(t *testing.T) {
	assert.Nil(t, CalculateRSI(barsFromCloses(ramp(10, 1, 14)...), 14))
	assert.NotNil(t, CalculateRSI(barsFromCloses(ramp(10, 1, 15)...), 14))
}

func TestCalculateRSIMonotonicSeries(t *testing.T) {
	up := CalculateRSI(barsFromCloses(ramp(10, 0.5, 40)...), 14)
	require.NotNil(t, up)
	assert.Equal(t, 100.0, up.Value)
	assert.Equal(t, models.RSIOverbought, up.Signal)
	assert.True(t, up.IsOverbought)
	assert.Equal(t, 100, up.Strength)

	down := CalculateRSI(barsFromCloses(ramp(100, -0.5, 40)...), 14)
	require.NotNil(t, down)
	assert.InDelta(t, 0.0, down.Value, 1e-9)
	assert.Equal(t, models.RSIOversold, down.Signal)
	assert.True(t, down.IsOversold)
}

func TestCalculateRSIDecliningScenario(t *testing.T) {
	bars := barsFromCloses(10, 10.5, 11, 11.2, 10.8, 10.5, 10.2, 10.0, 9.8, 9.5, 9.2, 9.0, 8.8, 8.6, 8.5)
	r := CalculateRSI(bars, 14)
	require.NotNil(t, r)
	// 15 closes give exactly one seed window: gains 1.2, losses 2.7.
	assert.InDelta(t, 100*1.2/3.9, r.Value, 1e-9)
	assert.Equal(t, 31, r.Strength)
	assert.Equal(t, models.RSINeutral, r.Signal)

	deeper := CalculateRSI(append(bars, barsFromCloses(8.3)...), 14)
	require.NotNil(t, deeper)
	assert.Less(t, deeper.Value, r.Value)
	assert.True(t, deeper.IsOversold)
}

func TestCalculateRSIBounded(t *testing.T) {
	closes := zigzag(120)
	for end := 15; end <= len(closes); end++ {
		r := CalculateRSI(barsFromCloses(closes[:end]...), 14)
		require.NotNil(t, r)
		assert.GreaterOrEqual(t, r.Value, 0.0)
		assert.LessOrEqual(t, r.Value, 100.0)
	}
}

func TestCalculateRSIFlatSeriesReadsHundred(t *testing.T) {
	flat := CalculateRSI(barsFromCloses(ramp(50, 0, 20)...), 14)
	require.NotNil(t, flat)
	assert.Equal(t, 100.0, flat.Value)
	assert.True(t, flat.IsOverbought)

	stepUp := CalculateRSI(barsFromCloses(append(ramp(50, 0, 10), ramp(51, 0, 10)...)...), 14)
	require.NotNil(t, stepUp)
	assert.Equal(t, 100.0, stepUp.Value)
}

func TestCalculateRSIPeriodBelowTwoUsesDefault(t *testing.T) {
	bars := barsFromCloses(zigzag(40)...)
	want := CalculateRSI(bars, DefaultRSIPeriod)
	require.NotNil(t, want)
	for _, p := range []int{-1, 0, 1} {
		got := CalculateRSI(bars, p)
		require.NotNil(t, got)
		assert.Equal(t, want.Value, got.Value)
	}
}

func TestCalculateRSIMatchesTalib(t *testing.T) {
	closes := zigzag(80)
	ref := talib.Rsi(closes, 14)
	r := CalculateRSI(barsFromCloses(closes...), 14)
	require.NotNil(t, r)
	assert.InDelta(t, ref[len(ref)-1], r.Value, 1e-6)
}

func TestCalculateRSISeriesIsNonIncremental(t *testing.T) {
	closes := zigzag(40)
	bars := barsFromCloses(closes...)
	series := CalculateRSISeries(bars, 14)
	require.Len(t, series, len(bars)-14)

	for i, p := range series {
		window := bars[i : i+15]
		want := CalculateRSI(window, 14)
		assert.Equal(t, want.Value, p.Value)
		assert.Equal(t, window[len(window)-1].Date, p.Date)
	}
	// The last window only sees 15 bars, so it differs from the full-history value.
	full := CalculateRSI(bars, 14)
	assert.NotEqual(t, full.Value, series[len(series)-1].Value)

	assert.Empty(t, CalculateRSISeries(bars[:10], 14))
}
