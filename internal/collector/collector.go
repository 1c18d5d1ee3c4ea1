package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"StrikeZones/internal/model"
	"StrikeZones/internal/recorder"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	mu sync.Mutex

	Chain    model.OptionChain
	History  []model.PricePoint
	ChainErr error
	HistErr  error
	// Panic makes every fetch panic with this value.
	Panic interface{}
	// Delay blocks each fetch until it elapses or ctx is done.
	Delay time.Duration

	ChainCalls   int
	HistoryCalls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchOptionChain(ctx context.Context, _ model.Symbol, _ model.ExpirationDate) (model.OptionChain, error) {
	m.mu.Lock()
	m.ChainCalls++
	m.mu.Unlock()
	if err := m.wait(ctx); err != nil {
		return model.OptionChain{}, err
	}
	if m.Panic != nil {
		panic(m.Panic)
	}
	if m.ChainErr != nil {
		return model.OptionChain{}, m.ChainErr
	}
	return m.Chain, nil
}

func (m *MockFetcher) FetchHistory(ctx context.Context, _ model.Symbol, _ model.TimeWindow) ([]model.PricePoint, error) {
	m.mu.Lock()
	m.HistoryCalls++
	m.mu.Unlock()
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if m.Panic != nil {
		panic(m.Panic)
	}
	if m.HistErr != nil {
		return nil, m.HistErr
	}
	return m.History, nil
}

// Calls returns the total number of fetches made so far.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ChainCalls + m.HistoryCalls
}

func (m *MockFetcher) wait(ctx context.Context) error {
	if m.Delay <= 0 {
		return nil
	}
	select {
	case <-time.After(m.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Client is the market data boundary used by the refresh pipeline. Every failure it
// returns is a *model.ProviderError.
type Client struct {
	Fetcher Fetcher
	Timeout time.Duration
	// Recorder, when set, journals every provider call.
	Recorder recorder.Recorder
}

// NewClient creates a new Client. A zero timeout leaves the fetcher's own limit in charge.
func NewClient(fetcher Fetcher, timeout time.Duration) *Client {
	return &Client{Fetcher: fetcher, Timeout: timeout}
}

// FetchOptionChain fetches calls and puts for one expiration.
func (c *Client) FetchOptionChain(ctx context.Context, symbol model.Symbol, expiration model.ExpirationDate) (chain model.OptionChain, err error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	start := time.Now()
	defer func() { c.record("option_chain", symbol, start, err) }()
	defer c.recover("option_chain", symbol, expiration, &err)

	chain, err = c.Fetcher.FetchOptionChain(ctx, symbol, expiration)
	if err != nil {
		return model.OptionChain{}, c.wrap("option_chain", symbol, expiration, err)
	}
	log.WithFields(log.Fields{
		"provider":   c.Fetcher.Name(),
		"symbol":     symbol,
		"expiration": expiration,
		"calls":      len(chain.Calls),
		"puts":       len(chain.Puts),
		"elapsed":    time.Since(start),
	}).Debug("option chain fetched")
	return chain, nil
}

// FetchHistory fetches bars covering window.
func (c *Client) FetchHistory(ctx context.Context, symbol model.Symbol, window model.TimeWindow) (bars []model.PricePoint, err error) {
	if !window.Valid() {
		return nil, c.wrap("history", symbol, "", fmt.Errorf("window start %s is not before end %s", window.Start, window.End))
	}
	ctx, cancel := c.bound(ctx)
	defer cancel()

	start := time.Now()
	defer func() { c.record("history", symbol, start, err) }()
	defer c.recover("history", symbol, "", &err)

	bars, err = c.Fetcher.FetchHistory(ctx, symbol, window)
	if err != nil {
		return nil, c.wrap("history", symbol, "", err)
	}
	log.WithFields(log.Fields{
		"provider": c.Fetcher.Name(),
		"symbol":   symbol,
		"bars":     len(bars),
		"elapsed":  time.Since(start),
	}).Debug("history fetched")
	return bars, nil
}

func (c *Client) record(op string, symbol model.Symbol, start time.Time, err error) {
	if c.Recorder == nil {
		return
	}
	evt := &recorder.FetchEvent{
		Provider: c.Fetcher.Name(),
		Op:       op,
		Symbol:   symbol.String(),
		OK:       err == nil,
		Elapsed:  time.Since(start),
	}
	if err != nil {
		evt.Error = err.Error()
	}
	if rerr := c.Recorder.RecordFetch(evt); rerr != nil {
		log.Errorf("record fetch: %v", rerr)
	}
}

func (c *Client) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout)
}

func (c *Client) wrap(op string, symbol model.Symbol, expiration model.ExpirationDate, err error) error {
	var pe *model.ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &model.ProviderError{
		Provider:   c.Fetcher.Name(),
		Op:         op,
		Symbol:     symbol,
		Expiration: expiration,
		Err:        err,
	}
}

func (c *Client) recover(op string, symbol model.Symbol, expiration model.ExpirationDate, err *error) {
	if r := recover(); r != nil {
		log.Errorf("%s fetch for %s panicked: %v", op, symbol, r)
		*err = c.wrap(op, symbol, expiration, fmt.Errorf("panic: %v", r))
	}
}
