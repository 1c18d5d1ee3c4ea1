package collector

import (
	"sort"

	"StrikeZones/internal/model"
)

// normalizeBars sorts bars chronologically and drops repeated timestamps, keeping the first.
func normalizeBars(bars []model.PricePoint) []model.PricePoint {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	out := bars[:0]
	for i, b := range bars {
		if i > 0 && b.Time.Equal(out[len(out)-1].Time) {
			continue
		}
		out = append(out, b)
	}
	return out
}
