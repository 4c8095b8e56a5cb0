package models

import "time"

type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
	SignalHold SignalType = "HOLD"
)

// SignalWeights sets each indicator's contribution. The defaults sum to 1 but nothing enforces it.
type SignalWeights struct {
	RSI       float64 `json:"rsi" yaml:"rsi" default:"0.25"`
	Bollinger float64 `json:"bollingerBands" yaml:"bollinger" default:"0.25"`
	MACD      float64 `json:"macd" yaml:"macd" default:"0.30"`
	ZScore    float64 `json:"zScore" yaml:"zscore" default:"0.20"`
}

// DefaultSignalWeights returns RSI 0.25, Bollinger 0.25, MACD 0.30, z-score 0.20.
func DefaultSignalWeights() SignalWeights {
	return SignalWeights{RSI: 0.25, Bollinger: 0.25, MACD: 0.30, ZScore: 0.20}
}

type WeightedRSI struct {
	RSIResult
	Weight float64 `json:"weight"`
}

type WeightedBollinger struct {
	BollingerBandsResult
	Weight float64 `json:"weight"`
}

type WeightedMACD struct {
	MACDResult
	Weight float64 `json:"weight"`
}

type WeightedZScore struct {
	ZScoreResult
	Weight float64 `json:"weight"`
}

type SignalIndicators struct {
	RSI       *WeightedRSI       `json:"rsi,omitempty"`
	Bollinger *WeightedBollinger `json:"bollingerBands,omitempty"`
	MACD      *WeightedMACD      `json:"macd,omitempty"`
	ZScore    *WeightedZScore    `json:"zScore,omitempty"`
}

// TechnicalSignal is a computed snapshot; Reasoning order follows rule evaluation order.
type TechnicalSignal struct {
	Symbol     string           `json:"symbol"`
	Type       SignalType       `json:"type"`
	Strength   float64          `json:"strength"`
	Confidence float64          `json:"confidence"`
	Indicators SignalIndicators `json:"indicators"`
	Reasoning  []string         `json:"reasoning"`
	Timestamp  time.Time        `json:"timestamp"`
}
