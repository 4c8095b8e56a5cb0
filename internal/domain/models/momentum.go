package models

type Trend string

const (
	TrendAccelerating Trend = "accelerating"
	TrendSteady       Trend = "steady"
	TrendDecelerating Trend = "decelerating"
	TrendReversing    Trend = "reversing"
)

// HorizonReturns holds percent returns per lookback; nil means no eligible price.
type HorizonReturns struct {
	OneWeek     *float64 `json:"1w"`
	OneMonth    *float64 `json:"1m"`
	ThreeMonths *float64 `json:"3m"`
	SixMonths   *float64 `json:"6m"`
}

// Available counts the non-nil buckets.
func (r HorizonReturns) Available() int {
	n := 0
	for _, v := range []*float64{r.OneWeek, r.OneMonth, r.ThreeMonths, r.SixMonths} {
		if v != nil {
			n++
		}
	}
	return n
}

// RelativeStrengthScore is only meaningful next to the peers it was ranked with.
type RelativeStrengthScore struct {
	Symbol         string         `json:"symbol"`
	Name           string         `json:"name"`
	Returns        HorizonReturns `json:"returns"`
	MomentumScore  float64        `json:"momentumScore"`
	PercentileRank float64        `json:"percentileRank"`
	Trend          Trend          `json:"trend"`
	VsSpyExcess    HorizonReturns `json:"vsSpyExcess"`
	Rank           int            `json:"rank"`
}
