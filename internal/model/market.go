package model

import "time"

// Granularity is the bar size requested from a provider.
type Granularity string

const (
	Granularity1m Granularity = "1m"
	Granularity5m Granularity = "5m"
	Granularity1h Granularity = "1h"
)

// PricePoint represents a single candlestick bar.
type PricePoint struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// TimeWindow is a concrete history range in the exchange timezone.
type TimeWindow struct {
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Granularity Granularity `json:"granularity"`
}

// Valid reports whether Start < End.
func (w TimeWindow) Valid() bool {
	return w.Start.Before(w.End)
}
