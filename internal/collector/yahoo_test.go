package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StrikeZones/internal/model"
)

func newTestYahoo(t *testing.T, handler http.HandlerFunc) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	f := NewYahooFetcher("", 5*time.Second, loc)
	f.BaseURL = srv.URL
	return f
}

func testWindow() model.TimeWindow {
	end := time.Date(2025, 3, 20, 16, 0, 0, 0, time.UTC)
	return model.TimeWindow{Start: end.Add(-24 * time.Hour), End: end, Granularity: model.Granularity5m}
}

const chartBody = `{"chart":{"result":[{
	"timestamp":[1742479200,1742478900,1742479500,1742479200],
	"indicators":{"quote":[{
		"open":[101,100,null,999],
		"high":[102,101,null,999],
		"low":[100,99,null,999],
		"close":[101.5,100.5,null,999],
		"volume":[2000,1000,null,999]
	}]}
}],"error":null}}`

func TestYahooFetchHistory(t *testing.T) {
	var gotPath, gotInterval string
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInterval = r.URL.Query().Get("interval")
		_, _ = w.Write([]byte(chartBody))
	})

	bars, err := f.FetchHistory(context.Background(), "QQQ", testWindow())
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/QQQ", gotPath)
	assert.Equal(t, "5m", gotInterval)

	// The null bar is skipped, the repeated timestamp keeps its first bar, and the
	// result comes back in time order.
	require.Len(t, bars, 2)
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 101.5, bars[1].Close)
	assert.Equal(t, 2000.0, bars[1].Volume)
	assert.True(t, bars[0].Time.Before(bars[1].Time))
	assert.Equal(t, "America/New_York", bars[0].Time.Location().String())
}

func TestYahooFetchHistory_SkipsNullClose(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[1742478900,1742479200],
			"indicators":{"quote":[{
				"open":[499,501],
				"high":[501,502],
				"low":[498,500],
				"close":[500,null],
				"volume":[1000,null]
			}]}
		}],"error":null}}`))
	})

	bars, err := f.FetchHistory(context.Background(), "QQQ", testWindow())
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 500.0, bars[0].Close)
}

func TestYahooFetchHistory_HourlyInterval(t *testing.T) {
	var gotInterval string
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotInterval = r.URL.Query().Get("interval")
		_, _ = w.Write([]byte(chartBody))
	})
	win := testWindow()
	win.Granularity = model.Granularity1h

	_, err := f.FetchHistory(context.Background(), "ES=F", win)
	require.NoError(t, err)
	assert.Equal(t, "60m", gotInterval)
}

func TestYahooFetchHistory_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"api error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`, "delisted"},
		{"no timestamps", http.StatusOK, `{"chart":{"result":[{"timestamp":[],"indicators":{"quote":[{}]}}],"error":null}}`, "no data"},
		{"status", http.StatusInternalServerError, `oops`, "status 500"},
		{"bad json", http.StatusOK, `{`, "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestYahoo(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := f.FetchHistory(context.Background(), "ZZZ999", testWindow())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestYahooFetchOptionChain(t *testing.T) {
	exp := time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC).Unix()
	var gotDate string
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotDate = r.URL.Query().Get("date")
		assert.True(t, strings.HasPrefix(r.URL.Path, "/v7/finance/options/QQQ"))
		_, _ = w.Write([]byte(`{"optionChain":{"result":[{
			"underlyingSymbol":"QQQ",
			"options":[{"expirationDate":1742515200,
				"calls":[{"strike":500,"openInterest":1000,"volume":30},{"strike":502.5,"volume":7}],
				"puts":[{"strike":490,"openInterest":-3,"volume":null}]
			}]
		}],"error":null}}`))
	})

	chain, err := f.FetchOptionChain(context.Background(), "QQQ", "2025-03-21")
	require.NoError(t, err)
	assert.Equal(t, "1742515200", gotDate)
	assert.Equal(t, int64(1742515200), exp)

	require.Len(t, chain.Calls, 2)
	assert.Equal(t, "500", chain.Calls[0].Strike.String())
	assert.Equal(t, int64(1000), chain.Calls[0].OpenInterest)
	assert.Equal(t, "502.5", chain.Calls[1].Strike.String())
	assert.Equal(t, int64(0), chain.Calls[1].OpenInterest)

	require.Len(t, chain.Puts, 1)
	assert.Equal(t, int64(0), chain.Puts[0].OpenInterest)
	assert.Equal(t, int64(0), chain.Puts[0].Volume)
}

func TestYahooFetchOptionChain_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown symbol", `{"optionChain":{"result":[],"error":null}}`, "unknown symbol"},
		{"expiration not listed", `{"optionChain":{"result":[{"options":[{"expirationDate":1742428800,"calls":[],"puts":[]}]}],"error":null}}`, "no option chain"},
		{"no options", `{"optionChain":{"result":[{"options":[]}],"error":null}}`, "no option chain"},
		{"api error", `{"optionChain":{"result":null,"error":{"code":"Bad Request","description":"invalid date"}}}`, "invalid date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestYahoo(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := f.FetchOptionChain(context.Background(), "ZZZ999", "2025-03-21")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
