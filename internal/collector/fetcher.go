package collector

import (
	"context"

	"StrikeZones/internal/model"
)

// Fetcher defines the interface for fetching market data from one provider.
type Fetcher interface {
	FetchOptionChain(ctx context.Context, symbol model.Symbol, expiration model.ExpirationDate) (model.OptionChain, error)
	FetchHistory(ctx context.Context, symbol model.Symbol, window model.TimeWindow) ([]model.PricePoint, error)
	Name() string
}
