package chart

import "StrikeZones/internal/model"

// ComposeMini builds a candlestick chart for the futures panel. An empty series gives an
// empty chart that still carries the symbol as title.
func ComposeMini(symbol model.Symbol, series []model.PricePoint) model.ChartDescription {
	desc := model.EmptyChart(symbol.String())
	desc.Mode = model.ModeCandlestick
	if len(series) > 0 {
		desc.PriceSeries = series
		desc.XRange = &model.TimeRange{Min: series[0].Time, Max: series[len(series)-1].Time}
	}
	return desc
}
