package models

import "time"

type RSISignal string

const (
	RSIOverbought RSISignal = "OVERBOUGHT"
	RSIOversold   RSISignal = "OVERSOLD"
	RSINeutral    RSISignal = "NEUTRAL"
)

type RSIResult struct {
	Value        float64   `json:"value"`
	Signal       RSISignal `json:"signal"`
	IsOverbought bool      `json:"isOverbought"`
	IsOversold   bool      `json:"isOversold"`
	Strength     int       `json:"strength"`
}

// RSIPoint is one entry of an RSI time series, dated by the last bar of its window.
type RSIPoint struct {
	Date time.Time `json:"date"`
	RSIResult
}

type BandPosition string

const (
	BandAboveUpper  BandPosition = "ABOVE_UPPER"
	BandAboveMiddle BandPosition = "ABOVE_MIDDLE"
	BandBelowMiddle BandPosition = "BELOW_MIDDLE"
	BandBelowLower  BandPosition = "BELOW_LOWER"
)

// BollingerBandsResult always satisfies Upper >= Middle >= Lower.
type BollingerBandsResult struct {
	Upper     float64      `json:"upper"`
	Middle    float64      `json:"middle"`
	Lower     float64      `json:"lower"`
	Bandwidth float64      `json:"bandwidth"` // percent of middle
	PercentB  float64      `json:"percentB"`
	Signal    BandPosition `json:"signal"`
}

type BollingerPoint struct {
	Date time.Time `json:"date"`
	BollingerBandsResult
}

type Crossover string

const (
	CrossoverBullish Crossover = "BULLISH"
	CrossoverBearish Crossover = "BEARISH"
	CrossoverNone    Crossover = "NONE"
)

type MACDResult struct {
	MACD      float64   `json:"macd"`
	Signal    float64   `json:"signal"`
	Histogram float64   `json:"histogram"`
	Crossover Crossover `json:"crossover"`
}

type MACDPoint struct {
	Date time.Time `json:"date"`
	MACDResult
}

type Significance string

const (
	SignificanceNormal  Significance = "NORMAL"
	SignificanceHigh    Significance = "HIGH"
	SignificanceExtreme Significance = "EXTREME"
)

type ZScoreResult struct {
	Value              float64      `json:"value"`
	Significance       Significance `json:"significance"`
	StandardDeviations float64      `json:"standardDeviations"`
}

// ZScorePoint is a dated z-score of Value against a trailing reference window.
type ZScorePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	ZScoreResult
}

// Anomaly flags a point whose z-score against the whole series exceeds a threshold.
type Anomaly struct {
	Date   time.Time `json:"date"`
	Value  float64   `json:"value"`
	ZScore float64   `json:"zScore"`
}

// IndicatorSnapshot is the consolidated indicator view for one symbol.
// Nil members were not computable from the available history.
type IndicatorSnapshot struct {
	Symbol    string                `json:"symbol"`
	AsOf      time.Time             `json:"asOf"`
	Close     float64               `json:"close"`
	RSI       *RSIResult            `json:"rsi,omitempty"`
	Bollinger *BollingerBandsResult `json:"bollingerBands,omitempty"`
	MACD      *MACDResult           `json:"macd,omitempty"`
	ZScore    *ZScoreResult         `json:"zScore,omitempty"`
	Squeeze   bool                  `json:"squeeze"`
	// RealizedVolatility is annualized, from the trailing 20 log returns.
	RealizedVolatility *float64 `json:"realizedVolatility,omitempty"`
}
