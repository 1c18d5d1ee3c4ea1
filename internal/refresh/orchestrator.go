package refresh

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"StrikeZones/internal/calculator"
	"StrikeZones/internal/chart"
	"StrikeZones/internal/model"
	"StrikeZones/internal/recorder"
	"StrikeZones/internal/session"
	"StrikeZones/internal/window"
)

// Placeholder texts shown by the presentation layer.
const (
	SelectTickerTitle = "Please select ticker"
	InvalidDateMsg    = "Invalid date format. Please use YYYY-MM-DD."
)

// MarketData is the subset of the market data client the pipeline needs.
type MarketData interface {
	FetchOptionChain(ctx context.Context, symbol model.Symbol, expiration model.ExpirationDate) (model.OptionChain, error)
	FetchHistory(ctx context.Context, symbol model.Symbol, window model.TimeWindow) ([]model.PricePoint, error)
}

// Features toggle the optional controls of the dashboard.
type Features struct {
	ExpirationInput bool
	ScaleButtons    bool
	MiniPanel       bool
}

// Options configure an Orchestrator.
type Options struct {
	Features Features
	// DefaultExpiration is used when the expiration input is disabled.
	DefaultExpiration string
	PanelSymbols      []string
}

// Orchestrator runs the refresh pipeline once per triggering event.
type Orchestrator struct {
	Data     MarketData
	Resolver *window.Resolver
	Session  *session.Store
	Recorder recorder.Recorder
	Options  Options

	seq atomic.Uint64
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(data MarketData, resolver *window.Resolver, store *session.Store, rec recorder.Recorder, opts Options) *Orchestrator {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Orchestrator{
		Data:     data,
		Resolver: resolver,
		Session:  store,
		Recorder: rec,
		Options:  opts,
	}
}

// Refresh reads the controls and fully reprocesses them. It never panics.
func (o *Orchestrator) Refresh(ctx context.Context, c model.Controls) Result {
	seq := o.seq.Add(1)
	start := time.Now()
	o.Session.SetControls(seq, c)

	res := o.run(ctx, seq, c)
	res.Seq = seq
	res.At = time.Now()
	o.journal(res, c, time.Since(start))
	return res
}

// RefreshCurrent replays the last controls seen. The second return is false when no
// controls have arrived yet.
func (o *Orchestrator) RefreshCurrent(ctx context.Context) (Result, bool) {
	c, ok := o.Session.Controls()
	if !ok {
		return Result{}, false
	}
	return o.Refresh(ctx, c), true
}

func (o *Orchestrator) run(ctx context.Context, seq uint64, c model.Controls) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("refresh %d panicked: %v", seq, r)
			res = dataError(model.NormalizeSymbol(c.Symbol), model.ExpirationDate(c.ExpirationDate), fmt.Errorf("panic: %v", r))
		}
	}()

	scale := o.readScale(c)

	symbol, err := model.ParseSymbol(c.Symbol)
	if err != nil {
		return Result{
			State: StateEmpty,
			Title: SelectTickerTitle,
			Chart: model.EmptyChart(SelectTickerTitle),
			Scale: scale,
		}
	}

	rawExp := c.ExpirationDate
	if !o.Options.Features.ExpirationInput {
		rawExp = o.Options.DefaultExpiration
	}
	expiration, err := window.ParseExpiration(strings.TrimSpace(rawExp))
	if err != nil {
		return Result{
			State:   StateValidationError,
			Title:   symbol.String(),
			Message: InvalidDateMsg,
			Chart:   model.EmptyChart(symbol.String()),
			Scale:   scale,
		}
	}

	win := o.Resolver.Resolve(model.ParseFilterToken(c.Filter))

	chain, err := o.Data.FetchOptionChain(ctx, symbol, expiration)
	if err != nil {
		return withScale(dataError(symbol, expiration, err), scale)
	}
	if chain.Empty() {
		return withScale(dataError(symbol, expiration, model.ErrNoData), scale)
	}
	series, err := o.Data.FetchHistory(ctx, symbol, win)
	if err != nil {
		return withScale(dataError(symbol, expiration, err), scale)
	}
	if len(series) == 0 {
		return withScale(dataError(symbol, expiration, model.ErrNoData), scale)
	}

	strikes := calculator.Rank(chain.Calls, chain.Puts)
	desc := chart.Compose(chart.Input{
		Symbol:  symbol,
		Series:  series,
		Strikes: strikes,
		Scale:   scale,
		Window:  &win,
	})
	return Result{
		State:   StateReady,
		Title:   desc.Title,
		Chart:   desc,
		Strikes: &strikes,
		Scale:   scale,
	}
}

// readScale folds reported click counts into the session and returns the state to
// compose with. Disabled scale buttons always compose with zero padding.
func (o *Orchestrator) readScale(c model.Controls) model.ScaleState {
	if !o.Options.Features.ScaleButtons {
		return model.ScaleState{}
	}
	return o.Session.ObserveClicks(c.ScaleUpClicks, c.ScaleDownClicks)
}

// Panel builds the mini-chart basket. A failing symbol yields an empty chart.
func (o *Orchestrator) Panel(ctx context.Context) []model.ChartDescription {
	if !o.Options.Features.MiniPanel {
		return []model.ChartDescription{}
	}
	win := o.Resolver.Panel()
	charts := make([]model.ChartDescription, 0, len(o.Options.PanelSymbols))
	for _, s := range o.Options.PanelSymbols {
		symbol := model.NormalizeSymbol(s)
		series, err := o.Data.FetchHistory(ctx, symbol, win)
		if err != nil {
			log.Warnf("panel fetch %s: %v", symbol, err)
			series = nil
		}
		charts = append(charts, chart.ComposeMini(symbol, series))
	}
	return charts
}

func (o *Orchestrator) journal(res Result, c model.Controls, elapsed time.Duration) {
	fields := log.Fields{
		"seq":     res.Seq,
		"symbol":  c.Symbol,
		"state":   res.State,
		"elapsed": elapsed,
	}
	switch res.State {
	case StateDataError, StateValidationError:
		log.WithFields(fields).Warn(res.Message)
	default:
		log.WithFields(fields).Info("refresh done")
	}

	if err := o.Recorder.RecordRefresh(&recorder.RefreshEvent{
		Seq:        res.Seq,
		Symbol:     c.Symbol,
		Expiration: c.ExpirationDate,
		Filter:     c.Filter,
		State:      string(res.State),
		Message:    res.Message,
		Lines:      len(res.Chart.ReferenceLines),
		Points:     len(res.Chart.PriceSeries),
		Elapsed:    elapsed,
	}); err != nil {
		log.Errorf("record refresh: %v", err)
	}
}

func dataError(symbol model.Symbol, expiration model.ExpirationDate, err error) Result {
	return Result{
		State:   StateDataError,
		Title:   symbol.String(),
		Message: fmt.Sprintf("No data available for %s with expiration %s: %v", symbol, expiration, err),
		Chart:   model.EmptyChart(symbol.String()),
	}
}

func withScale(r Result, scale model.ScaleState) Result {
	r.Scale = scale
	return r
}
