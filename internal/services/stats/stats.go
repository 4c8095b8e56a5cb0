// Package stats holds the descriptive statistics shared by the indicator packages.
// Every function is pure and leaves its inputs untouched.
package stats

import (
	"errors"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyInput        = errors.New("stats: empty input")
	ErrLengthMismatch    = errors.New("stats: xs and ys differ in length")
	ErrInvalidPercentile = errors.New("stats: percentile must be within [0,100]")
	ErrInvalidWindow     = errors.New("stats: window must be positive")
	ErrWindowTooLarge    = errors.New("stats: window larger than input")
)

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the middle order statistic (mean of the two middle values for even n).
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := sortedCopy(values)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Variance uses n-1 as denominator when sample is set, n otherwise.
func Variance(values []float64, sample bool) float64 {
	n := len(values)
	if n == 0 || (sample && n < 2) {
		return 0
	}
	m := Mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	denom := float64(n)
	if sample {
		denom = float64(n - 1)
	}
	return ss / denom
}

// StandardDeviation is the square root of Variance.
func StandardDeviation(values []float64, sample bool) float64 {
	return math.Sqrt(Variance(values, sample))
}

// Percentile interpolates linearly between order statistics.
func Percentile(values []float64, p float64) (float64, error) {
	if p < 0 || p > 100 || math.IsNaN(p) {
		return 0, ErrInvalidPercentile
	}
	n := len(values)
	if n == 0 {
		return 0, nil
	}
	sorted := sortedCopy(values)
	pos := p / 100 * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo], nil
	}
	w := pos - float64(lo)
	return sorted[lo] + w*(sorted[hi]-sorted[lo]), nil
}

// Regression is an ordinary least squares fit y = Slope*x + Intercept.
type Regression struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"rSquared"`
}

// LinearRegression fits ys against xs. It returns nil without error when there are
// fewer than two pairs or every x is equal.
func LinearRegression(xs, ys []float64) (*Regression, error) {
	if len(xs) != len(ys) {
		return nil, ErrLengthMismatch
	}
	n := len(xs)
	if n == 0 {
		return nil, ErrEmptyInput
	}
	if n < 2 {
		return nil, nil
	}
	mx, my := Mean(xs), Mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 {
		return nil, nil
	}
	slope := sxy / sxx
	r := &Regression{Slope: slope, Intercept: my - slope*mx, RSquared: 1}
	if syy != 0 {
		r.RSquared = (sxy * sxy) / (sxx * syy)
	}
	return r, nil
}

// ZScore standardises value; a zero stddev yields 0.
func ZScore(value, mean, stddev float64) float64 {
	if stddev == 0 {
		return 0
	}
	return (value - mean) / stddev
}

// RollingMean returns len(values)-window+1 means over contiguous windows, oldest first.
func RollingMean(values []float64, window int) ([]float64, error) {
	if err := checkWindow(len(values), window); err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(values)-window+1)
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out, nil
}

// RollingStdDev mirrors RollingMean for standard deviation.
func RollingStdDev(values []float64, window int, sample bool) ([]float64, error) {
	if err := checkWindow(len(values), window); err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(values)-window+1)
	for i := 0; i+window <= len(values); i++ {
		out = append(out, StandardDeviation(values[i:i+window], sample))
	}
	return out, nil
}

// Round rounds half away from zero at the given number of decimal places.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

func checkWindow(n, window int) error {
	if window <= 0 {
		return ErrInvalidWindow
	}
	if window > n {
		return ErrWindowTooLarge
	}
	return nil
}

func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}
