package calculator

import (
	"errors"

	"github.com/montanaflynn/stats"

	"StrikeZones/internal/model"
)

// ScaleStep is the padding fraction added per net scale click.
const ScaleStep = 0.05

// CloseRange returns the lowest and highest close in the series.
func CloseRange(series []model.PricePoint) (low, high float64, err error) {
	if len(series) == 0 {
		return 0, 0, errors.New("no price points provided")
	}
	closes := make(stats.Float64Data, len(series))
	for i, p := range series {
		closes[i] = p.Close
	}
	if low, err = stats.Min(closes); err != nil {
		return 0, 0, err
	}
	if high, err = stats.Max(closes); err != nil {
		return 0, 0, err
	}
	return low, high, nil
}

// ScaleFactor returns k = (up - down) * ScaleStep. It is negative when down clicks dominate.
func ScaleFactor(scale model.ScaleState) float64 {
	return float64(scale.Net()) * ScaleStep
}

// ScaledRange pads [low, high] by the scale factor: [low*(1-k), high*(1+k)].
// A negative k narrows the range and can invert it.
func ScaledRange(low, high float64, scale model.ScaleState) model.Range {
	k := ScaleFactor(scale)
	return model.Range{
		Min: low * (1 - k),
		Max: high * (1 + k),
	}
}
