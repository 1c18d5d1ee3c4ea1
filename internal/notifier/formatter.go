package notifier

import (
	"fmt"
	"strings"

	"StrikeZones/internal/model"
	"StrikeZones/internal/refresh"
)

// FormatSummary renders a one-line status for a refresh result.
func FormatSummary(res refresh.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("#%d %s", res.Seq, res.Title))
	switch res.State {
	case refresh.StateReady:
		if res.Strikes != nil {
			writeStrikes(&b, "Call OI", res.Strikes.CallsByOI)
			writeStrikes(&b, "Put OI", res.Strikes.PutsByOI)
			writeStrikes(&b, "Call Vol", res.Strikes.CallsByVolume)
			writeStrikes(&b, "Put Vol", res.Strikes.PutsByVolume)
		}
		if r := res.Chart.YRange; r != nil {
			b.WriteString(fmt.Sprintf(" | y %.2f..%.2f", r.Min, r.Max))
		}
	case refresh.StateEmpty:
	default:
		b.WriteString(" | ")
		b.WriteString(res.Message)
	}
	return b.String()
}

func writeStrikes(b *strings.Builder, label string, ranked []model.RankedStrike) {
	if len(ranked) == 0 {
		return
	}
	parts := make([]string, len(ranked))
	for i, s := range model.Strikes(ranked) {
		parts[i] = s.String()
	}
	b.WriteString(fmt.Sprintf(" | %s: %s", label, strings.Join(parts, ", ")))
}
