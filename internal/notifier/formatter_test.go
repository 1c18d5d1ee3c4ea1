package notifier

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"StrikeZones/internal/model"
	"StrikeZones/internal/refresh"
)

func TestFormatSummary(t *testing.T) {
	strikes := model.RankedStrikeSet{
		CallsByOI: []model.RankedStrike{
			{Strike: decimal.NewFromInt(500), Value: 1000},
			{Strike: decimal.NewFromInt(510), Value: 800},
		},
		PutsByVolume: []model.RankedStrike{{Strike: decimal.RequireFromString("487.5"), Value: 3}},
	}

	tests := []struct {
		name string
		res  refresh.Result
		want string
	}{
		{
			name: "ready",
			res: refresh.Result{
				Seq: 7, State: refresh.StateReady, Title: "QQQ Best Zones to Trade", Strikes: &strikes,
				Chart: model.ChartDescription{YRange: &model.Range{Min: 470.25, Max: 530.25}},
			},
			want: "#7 QQQ Best Zones to Trade | Call OI: 500, 510 | Put Vol: 487.5 | y 470.25..530.25",
		},
		{
			name: "empty",
			res:  refresh.Result{Seq: 1, State: refresh.StateEmpty, Title: refresh.SelectTickerTitle},
			want: "#1 Please select ticker",
		},
		{
			name: "validation error",
			res:  refresh.Result{Seq: 2, State: refresh.StateValidationError, Title: "QQQ", Message: refresh.InvalidDateMsg},
			want: "#2 QQQ | Invalid date format. Please use YYYY-MM-DD.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSummary(tt.res))
		})
	}
}
