package chart

import (
	"fmt"

	"StrikeZones/internal/calculator"
	"StrikeZones/internal/model"
)

// TitleSuffix follows the symbol in the main chart title.
const TitleSuffix = "Best Zones to Trade"

const timestampLayout = "2006-01-02 15:04 MST"

// Input carries everything one composition needs.
type Input struct {
	Symbol  model.Symbol
	Series  []model.PricePoint
	Strikes model.RankedStrikeSet
	Scale   model.ScaleState
	// Window, when set, becomes the x-axis zoom range.
	Window *model.TimeWindow
}

type lineStyle struct {
	category model.LineCategory
	color    model.Color
	prefix   string
}

var (
	callOIStyle  = lineStyle{model.CategoryCallOI, model.ColorGreen, "Call OI"}
	putOIStyle   = lineStyle{model.CategoryPutOI, model.ColorRed, "Put OI"}
	callVolStyle = lineStyle{model.CategoryCallVolume, model.ColorBlue, "Call Vol"}
	putVolStyle  = lineStyle{model.CategoryPutVolume, model.ColorPurple, "Put Vol"}
)

// Compose merges a price series with ranked strikes into a chart description.
// The series is rendered exactly as given.
func Compose(in Input) model.ChartDescription {
	desc := model.ChartDescription{
		Title:          fmt.Sprintf("%s %s", in.Symbol, TitleSuffix),
		Mode:           model.ModeLines,
		PriceSeries:    in.Series,
		ReferenceLines: referenceLines(in.Strikes),
	}
	if desc.PriceSeries == nil {
		desc.PriceSeries = []model.PricePoint{}
	}

	if n := len(in.Series); n > 0 {
		last := in.Series[n-1]
		stamp := last.Time.Format(timestampLayout)
		desc.Title = fmt.Sprintf("%s | %.2f @ %s", desc.Title, last.Close, stamp)
		desc.Subtitle = fmt.Sprintf("Last %.2f at %s", last.Close, stamp)
	}

	if low, high, err := calculator.CloseRange(in.Series); err == nil {
		r := calculator.ScaledRange(low, high, in.Scale)
		desc.YRange = &r
	}

	if in.Window != nil {
		desc.XRange = &model.TimeRange{Min: in.Window.Start, Max: in.Window.End}
	}
	return desc
}

// referenceLines emits one line per ranked strike. Equal strikes in different
// categories each get a line.
func referenceLines(s model.RankedStrikeSet) []model.ReferenceLine {
	lines := make([]model.ReferenceLine, 0,
		len(s.CallsByOI)+len(s.PutsByOI)+len(s.CallsByVolume)+len(s.PutsByVolume))
	lines = appendLines(lines, s.CallsByOI, callOIStyle)
	lines = appendLines(lines, s.PutsByOI, putOIStyle)
	lines = appendLines(lines, s.CallsByVolume, callVolStyle)
	lines = appendLines(lines, s.PutsByVolume, putVolStyle)
	return lines
}

func appendLines(lines []model.ReferenceLine, ranked []model.RankedStrike, style lineStyle) []model.ReferenceLine {
	for _, r := range ranked {
		lines = append(lines, model.ReferenceLine{
			Value:    r.Strike,
			Color:    style.color,
			Label:    fmt.Sprintf("%s %s", style.prefix, r.Strike.String()),
			Category: style.category,
		})
	}
	return lines
}
