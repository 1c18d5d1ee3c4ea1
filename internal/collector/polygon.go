package collector

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/shopspring/decimal"

	"StrikeZones/internal/model"
)

// PolygonFetcher implements Fetcher using the Polygon.io REST client.
type PolygonFetcher struct {
	Client   *polygon.Client
	Location *time.Location
	// ChainLimit is the page size used when listing the chain snapshot.
	ChainLimit int
}

// NewPolygonFetcher creates a fetcher authenticated with apiKey.
func NewPolygonFetcher(apiKey string, loc *time.Location) *PolygonFetcher {
	return &PolygonFetcher{
		Client:     polygon.New(apiKey),
		Location:   loc,
		ChainLimit: 250,
	}
}

func (f *PolygonFetcher) Name() string { return "polygon" }

func polygonTimespan(g model.Granularity) (int, models.Timespan) {
	switch g {
	case model.Granularity1m:
		return 1, models.Minute
	case model.Granularity1h:
		return 1, models.Hour
	default:
		return 5, models.Minute
	}
}

// FetchHistory lists aggregate bars for the window in ascending order.
func (f *PolygonFetcher) FetchHistory(ctx context.Context, symbol model.Symbol, window model.TimeWindow) ([]model.PricePoint, error) {
	multiplier, timespan := polygonTimespan(window.Granularity)
	params := models.ListAggsParams{
		Ticker:     symbol.String(),
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(window.Start),
		To:         models.Millis(window.End),
	}.WithOrder(models.Asc).WithAdjusted(true)

	loc := f.Location
	if loc == nil {
		loc = window.Start.Location()
	}

	iter := f.Client.ListAggs(ctx, params)
	var bars []model.PricePoint
	for iter.Next() {
		agg := iter.Item()
		bars = append(bars, model.PricePoint{
			Time:   time.Time(agg.Timestamp).In(loc),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("polygon list aggs: %w", err)
	}
	return normalizeBars(bars), nil
}

// FetchOptionChain lists the chain snapshot for one expiration and splits it by side.
func (f *PolygonFetcher) FetchOptionChain(ctx context.Context, symbol model.Symbol, expiration model.ExpirationDate) (model.OptionChain, error) {
	exp, err := expiration.Time(time.UTC)
	if err != nil {
		return model.OptionChain{}, err
	}
	params := models.ListOptionsChainParams{
		UnderlyingAsset: symbol.String(),
	}.WithExpirationDate(models.EQ, models.Date(exp)).WithLimit(f.ChainLimit)

	chain := model.OptionChain{Calls: []model.OptionQuoteRow{}, Puts: []model.OptionQuoteRow{}}
	iter := f.Client.ListOptionsChainSnapshot(ctx, params)
	for iter.Next() {
		snap := iter.Item()
		row := model.OptionQuoteRow{
			Strike:       decimal.NewFromFloat(snap.Details.StrikePrice),
			OpenInterest: nonNegative(snap.OpenInterest),
			Volume:       nonNegative(snap.Day.Volume),
		}
		switch snap.Details.ContractType {
		case "call":
			chain.Calls = append(chain.Calls, row)
		case "put":
			chain.Puts = append(chain.Puts, row)
		}
	}
	if err := iter.Err(); err != nil {
		return model.OptionChain{}, fmt.Errorf("polygon options chain: %w", err)
	}
	return chain, nil
}

func nonNegative(v float64) int64 {
	if v < 0 {
		return 0
	}
	return int64(v)
}
