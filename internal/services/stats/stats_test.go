package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Mean([]float64{}))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
}

func TestMedian(t *testing.T) {
	in := []float64{5, 1, 3}
	assert.Equal(t, 3.0, Median(in))
	assert.Equal(t, []float64{5, 1, 3}, in, "input must not be reordered")
	assert.Equal(t, 2.5, Median([]float64{4, 1, 2, 3}))
	assert.Equal(t, 0.0, Median(nil))
}

func TestStandardDeviationSampleVsPopulation(t *testing.T) {
	cases := [][]float64{
		{2, 4, 4, 4, 5, 5, 7, 9},
		{1, 2},
		{-3, 0, 3, 10.5},
		{7, 7, 7},
	}
	for _, v := range cases {
		pop := StandardDeviation(v, false)
		smp := StandardDeviation(v, true)
		assert.GreaterOrEqual(t, pop, 0.0)
		assert.GreaterOrEqual(t, smp, pop)
	}
	assert.InDelta(t, 2.0, StandardDeviation([]float64{2, 4, 4, 4, 5, 5, 7, 9}, false), 1e-12)
	assert.InDelta(t, 2.138089935, StandardDeviation([]float64{2, 4, 4, 4, 5, 5, 7, 9}, true), 1e-9)
}

func TestStandardDeviationDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, StandardDeviation(nil, true))
	assert.Equal(t, 0.0, StandardDeviation([]float64{3}, true))
	assert.Equal(t, 0.0, StandardDeviation([]float64{3}, false))
}

func TestPercentile(t *testing.T) {
	v := []float64{15, 20, 35, 40, 50}
	got, err := Percentile(v, 50)
	require.NoError(t, err)
	assert.Equal(t, 35.0, got)

	got, err = Percentile(v, 25)
	require.NoError(t, err)
	assert.Equal(t, 20.0, got)

	got, err = Percentile(v, 10)
	require.NoError(t, err)
	assert.InDelta(t, 17.0, got, 1e-12)

	got, err = Percentile(nil, 50)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	_, err = Percentile(v, 101)
	assert.ErrorIs(t, err, ErrInvalidPercentile)
	_, err = Percentile(v, -0.5)
	assert.ErrorIs(t, err, ErrInvalidPercentile)
}

func TestLinearRegression(t *testing.T) {
	r, err := LinearRegression([]float64{1, 2, 3, 4}, []float64{3, 5, 7, 9})
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.InDelta(t, 2.0, r.Slope, 1e-12)
	assert.InDelta(t, 1.0, r.Intercept, 1e-12)
	assert.InDelta(t, 1.0, r.RSquared, 1e-12)

	_, err = LinearRegression([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = LinearRegression(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	r, err = LinearRegression([]float64{1}, []float64{1})
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestRollingWindows(t *testing.T) {
	v := []float64{1, 2, 3, 4, 5}
	means, err := RollingMean(v, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 4}, means)

	sds, err := RollingStdDev(v, 2, false)
	require.NoError(t, err)
	require.Len(t, sds, 4)
	for _, sd := range sds {
		assert.InDelta(t, 0.5, sd, 1e-12)
	}

	_, err = RollingMean(v, 6)
	assert.ErrorIs(t, err, ErrWindowTooLarge)
	_, err = RollingStdDev(v, 6, true)
	assert.ErrorIs(t, err, ErrWindowTooLarge)
	_, err = RollingMean(v, 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestZScoreAndRound(t *testing.T) {
	assert.Equal(t, 0.0, ZScore(10, 5, 0))
	assert.InDelta(t, 2.5, ZScore(10, 5, 2), 1e-12)
	assert.Equal(t, 1.24, Round(1.235, 2))
	assert.Equal(t, -1.24, Round(-1.235, 2))
	assert.Equal(t, 30.77, Round(30.769230769, 2))
}
