package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"StrikeZones/internal/model"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL  string
	Client   *http.Client
	Location *time.Location
}

// NewYahooFetcher creates a new Yahoo Finance fetcher. Bar timestamps are returned in loc.
func NewYahooFetcher(proxyURL string, timeout time.Duration, loc *time.Location) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		BaseURL: defaultYahooBaseURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		Location: loc,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

// yahooOptions is the response structure from Yahoo Finance options API.
type yahooOptions struct {
	OptionChain struct {
		Result []struct {
			UnderlyingSymbol string  `json:"underlyingSymbol"`
			ExpirationDates  []int64 `json:"expirationDates"`
			Options          []struct {
				ExpirationDate int64            `json:"expirationDate"`
				Calls          []yahooContract `json:"calls"`
				Puts           []yahooContract `json:"puts"`
			} `json:"options"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"optionChain"`
}

type yahooContract struct {
	ContractSymbol string  `json:"contractSymbol"`
	Strike         float64 `json:"strike"`
	Volume         *int64  `json:"volume"`
	OpenInterest   *int64  `json:"openInterest"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func valueOrZero(v *int64) int64 {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

func yahooInterval(g model.Granularity) string {
	switch g {
	case model.Granularity1m:
		return "1m"
	case model.Granularity1h:
		return "60m"
	default:
		return "5m"
	}
}

func (f *YahooFetcher) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// FetchHistory requests bars between window.Start and window.End.
func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol model.Symbol, window model.TimeWindow) ([]model.PricePoint, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=%s&includePrePost=false",
		f.BaseURL, url.PathEscape(symbol.String()), window.Start.Unix(), window.End.Unix(), yahooInterval(window.Granularity))

	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote block returned")
	}
	quote := result.Indicators.Quote[0]
	loc := f.location(window)
	bars := make([]model.PricePoint, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		c := at(quote.Close, i)
		if c == 0 {
			continue // null close: halts, pre-open or the bar still forming
		}
		bars = append(bars, model.PricePoint{
			Time:   time.Unix(ts, 0).In(loc),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}

	return normalizeBars(bars), nil
}

// FetchOptionChain requests the calls and puts listed for one expiration.
func (f *YahooFetcher) FetchOptionChain(ctx context.Context, symbol model.Symbol, expiration model.ExpirationDate) (model.OptionChain, error) {
	// Yahoo keys expirations by midnight UTC.
	exp, err := expiration.Time(time.UTC)
	if err != nil {
		return model.OptionChain{}, err
	}
	u := fmt.Sprintf("%s/v7/finance/options/%s?date=%d", f.BaseURL, url.PathEscape(symbol.String()), exp.Unix())

	body, err := f.get(ctx, u)
	if err != nil {
		return model.OptionChain{}, err
	}

	var resp yahooOptions
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.OptionChain{}, fmt.Errorf("yahoo decode: %w", err)
	}
	if resp.OptionChain.Error != nil {
		return model.OptionChain{}, fmt.Errorf("yahoo api error: %s", resp.OptionChain.Error.Description)
	}
	if len(resp.OptionChain.Result) == 0 {
		return model.OptionChain{}, fmt.Errorf("yahoo: unknown symbol %s", symbol)
	}
	result := resp.OptionChain.Result[0]
	if len(result.Options) == 0 || result.Options[0].ExpirationDate != exp.Unix() {
		return model.OptionChain{}, fmt.Errorf("yahoo: no option chain for %s expiring %s", symbol, expiration)
	}

	return model.OptionChain{
		Calls: toRows(result.Options[0].Calls),
		Puts:  toRows(result.Options[0].Puts),
	}, nil
}

func toRows(contracts []yahooContract) []model.OptionQuoteRow {
	rows := make([]model.OptionQuoteRow, 0, len(contracts))
	for _, c := range contracts {
		rows = append(rows, model.OptionQuoteRow{
			Strike:       decimal.NewFromFloat(c.Strike),
			OpenInterest: valueOrZero(c.OpenInterest),
			Volume:       valueOrZero(c.Volume),
		})
	}
	return rows
}

func at(values []interface{}, i int) float64 {
	if i >= len(values) {
		return 0
	}
	return toFloat(values[i])
}

func (f *YahooFetcher) location(window model.TimeWindow) *time.Location {
	if f.Location != nil {
		return f.Location
	}
	return window.Start.Location()
}
