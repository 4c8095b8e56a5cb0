package models

type Regime string

const (
	RegimeGoldilocks    Regime = "goldilocks"
	RegimeStagflation   Regime = "stagflation"
	RegimeLateCycle     Regime = "late_cycle"
	RegimeContraction   Regime = "contraction"
	RegimeEarlyRecovery Regime = "early_recovery"
	RegimeExpansion     Regime = "expansion"
)

// AllRegimes lists regimes in classifier priority order.
var AllRegimes = []Regime{
	RegimeGoldilocks,
	RegimeStagflation,
	RegimeLateCycle,
	RegimeContraction,
	RegimeEarlyRecovery,
	RegimeExpansion,
}

// MacroIndicators are the six classifier inputs, each optional.
type MacroIndicators struct {
	GDPGrowth    *float64 `json:"gdpGrowth"`
	Inflation    *float64 `json:"inflation"`
	Unemployment *float64 `json:"unemployment"`
	YieldCurve   *float64 `json:"yieldCurve"`
	FedFunds     *float64 `json:"fedFunds"`
	ISM          *float64 `json:"ism"`
}

// Available counts the non-nil inputs.
func (m MacroIndicators) Available() int {
	n := 0
	for _, v := range []*float64{m.GDPGrowth, m.Inflation, m.Unemployment, m.YieldCurve, m.FedFunds, m.ISM} {
		if v != nil {
			n++
		}
	}
	return n
}

type RegimeClassification struct {
	Regime      Regime          `json:"regime"`
	Confidence  float64         `json:"confidence"`
	Indicators  MacroIndicators `json:"indicators"`
	Description string          `json:"description"`
	Duration    string          `json:"duration"`
}

type Stance string

const (
	StanceOverweight  Stance = "overweight"
	StanceNeutral     Stance = "neutral"
	StanceUnderweight Stance = "underweight"
)

// SectorRecommendation is playbook data, not a computed value.
type SectorRecommendation struct {
	Symbol            string  `json:"symbol" yaml:"symbol"`
	Sector            string  `json:"sector" yaml:"sector"`
	Stance            Stance  `json:"stance" yaml:"stance"`
	WinRate           float64 `json:"winRate" yaml:"win_rate"`
	AvgOutperformance float64 `json:"avgOutperformance" yaml:"avg_outperformance"`
}

// RegimeView pairs a classification with the sector rows for its regime.
type RegimeView struct {
	Classification RegimeClassification   `json:"classification"`
	Sectors        []SectorRecommendation `json:"sectors"`
}
