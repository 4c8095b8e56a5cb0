package indicators

import (
	"time"

	"FinDash/internal/domain/models"
)

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func barsFromCloses(closes ...float64) []models.PriceBar {
	out := make([]models.PriceBar, len(closes))
	for i, c := range closes {
		out[i] = models.PriceBar{Date: day0.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c}
	}
	return out
}

func ramp(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// zigzag produces a deterministic noisy series with both gains and losses.
func zigzag(n int) []float64 {
	out := make([]float64, n)
	v := 100.0
	for i := range out {
		switch i % 5 {
		case 0, 2:
			v += 1.3
		case 1:
			v -= 0.7
		case 3:
			v -= 1.9
		case 4:
			v += 0.4
		}
		out[i] = v
	}
	return out
}
