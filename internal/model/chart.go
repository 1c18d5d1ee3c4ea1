package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Color of a reference line.
type Color string

const (
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
)

// LineCategory identifies which ranking produced a reference line.
type LineCategory string

const (
	CategoryCallOI     LineCategory = "call_oi"
	CategoryPutOI      LineCategory = "put_oi"
	CategoryCallVolume LineCategory = "call_volume"
	CategoryPutVolume  LineCategory = "put_volume"
)

// TraceMode tells the renderer how to draw the price series.
type TraceMode string

const (
	ModeLines       TraceMode = "lines"
	ModeCandlestick TraceMode = "candlestick"
)

// ReferenceLine is a horizontal line at a strike.
type ReferenceLine struct {
	Value    decimal.Decimal `json:"value"`
	Color    Color           `json:"color"`
	Label    string          `json:"label"`
	Category LineCategory    `json:"category"`
}

// Range is a numeric axis range.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TimeRange is a time axis range.
type TimeRange struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// ChartDescription is the sole artifact handed to presentation.
type ChartDescription struct {
	Title          string          `json:"title"`
	Subtitle       string          `json:"subtitle,omitempty"`
	Mode           TraceMode       `json:"mode"`
	PriceSeries    []PricePoint    `json:"price_series"`
	ReferenceLines []ReferenceLine `json:"reference_lines"`
	YRange         *Range          `json:"y_range,omitempty"`
	XRange         *TimeRange      `json:"x_range,omitempty"`
}

// EmptyChart returns a chart with a title and nothing to draw.
func EmptyChart(title string) ChartDescription {
	return ChartDescription{
		Title:          title,
		Mode:           ModeLines,
		PriceSeries:    []PricePoint{},
		ReferenceLines: []ReferenceLine{},
	}
}
