// Package regime classifies the macro backdrop into one of six regimes and maps
// each regime to sector ETF recommendations.
package regime

import (
	"math"

	"FinDash/internal/domain/models"
)

const (
	maxConfidence    = 95.0
	totalIndicators  = 6
	yieldCurveBonus  = 10.0
	flatCurveCeiling = 0.5
)

type profile struct {
	base        float64
	description string
	duration    string
}

var profiles = map[models.Regime]profile{
	models.RegimeGoldilocks: {85,
		"Moderate growth with contained inflation; broad risk assets tend to perform well.",
		"Typically 2-4 years"},
	models.RegimeStagflation: {80,
		"Weak growth combined with high inflation; real assets and defensives tend to lead.",
		"Typically 1-2 years"},
	models.RegimeLateCycle: {70,
		"Running hot: elevated inflation with a tight labour market, often ahead of tightening.",
		"Typically 1-2 years"},
	models.RegimeContraction: {75,
		"Output shrinking or manufacturing in decline; defensives and duration tend to hold up.",
		"Typically 6-18 months"},
	models.RegimeEarlyRecovery: {65,
		"Growth returning while unemployment is still high; cyclicals tend to rebound first.",
		"Typically 1-2 years"},
	models.RegimeExpansion: {60,
		"Steady growth without clear extremes in prices or labour markets.",
		"Typically 2-5 years"},
}

// Classify walks the rule cascade in priority order. A rule whose inputs are
// missing does not match.
func Classify(in models.MacroIndicators) models.RegimeClassification {
	r := match(in)
	p := profiles[r]

	conf := p.base
	if r == models.RegimeLateCycle && in.YieldCurve != nil && *in.YieldCurve < flatCurveCeiling {
		conf += yieldCurveBonus
	}
	conf = math.Min(maxConfidence, math.Round(conf*float64(in.Available())/totalIndicators))

	return models.RegimeClassification{
		Regime:      r,
		Confidence:  conf,
		Indicators:  in,
		Description: p.description,
		Duration:    p.duration,
	}
}

func match(in models.MacroIndicators) models.Regime {
	gdp, infl, unemp, ism := in.GDPGrowth, in.Inflation, in.Unemployment, in.ISM
	switch {
	case gdp != nil && infl != nil && *gdp > 2 && *gdp < 3.5 && *infl > 1.5 && *infl < 2.5:
		return models.RegimeGoldilocks
	case gdp != nil && infl != nil && *gdp < 1 && *infl > 4:
		return models.RegimeStagflation
	case infl != nil && unemp != nil && *infl > 3 && *unemp < 4.5:
		return models.RegimeLateCycle
	case (gdp != nil && *gdp < 0) || (ism != nil && *ism < 45):
		return models.RegimeContraction
	case gdp != nil && unemp != nil && ism != nil && *gdp > 0 && *unemp > 5.5 && *ism > 50:
		return models.RegimeEarlyRecovery
	default:
		return models.RegimeExpansion
	}
}
