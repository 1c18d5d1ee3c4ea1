package calculator

import (
	"sort"

	"StrikeZones/internal/model"
)

// TopStrikes is the number of strikes kept per side and metric.
const TopStrikes = 5

// Rank selects the top strikes by open interest and by volume for each side.
// Ties keep provider order.
func Rank(calls, puts []model.OptionQuoteRow) model.RankedStrikeSet {
	return model.RankedStrikeSet{
		CallsByOI:     topN(calls, byOpenInterest, TopStrikes),
		PutsByOI:      topN(puts, byOpenInterest, TopStrikes),
		CallsByVolume: topN(calls, byVolume, TopStrikes),
		PutsByVolume:  topN(puts, byVolume, TopStrikes),
	}
}

type metric func(model.OptionQuoteRow) int64

func byOpenInterest(r model.OptionQuoteRow) int64 { return r.OpenInterest }
func byVolume(r model.OptionQuoteRow) int64       { return r.Volume }

func topN(rows []model.OptionQuoteRow, value metric, n int) []model.RankedStrike {
	ranked := make([]model.RankedStrike, len(rows))
	for i, r := range rows {
		ranked[i] = model.RankedStrike{Strike: r.Strike, Value: value(r)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Value > ranked[j].Value })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
