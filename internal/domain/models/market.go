package models

import "time"

// PriceBar is one daily OHLC record. Series of bars are always ordered oldest-to-newest.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume *int64    `json:"volume,omitempty"`
}

// ObservationPoint is a generic dated value (economic series, indicator history).
type ObservationPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Closes extracts closing prices in input order.
func Closes(bars []PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Values extracts observation values in input order.
func Values(points []ObservationPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}

// Quote is a streamed last-trade price.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}
