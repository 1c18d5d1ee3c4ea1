package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExpirationLayout is the only accepted lexical form of an expiration date.
const ExpirationLayout = "2006-01-02"

// Symbol is a ticker. Case-insensitive; stored upper case.
type Symbol string

// NormalizeSymbol trims and upper-cases a user supplied ticker.
func NormalizeSymbol(s string) Symbol {
	return Symbol(strings.ToUpper(strings.TrimSpace(s)))
}

// ParseSymbol normalizes s and rejects an empty ticker.
func ParseSymbol(s string) (Symbol, error) {
	sym := NormalizeSymbol(s)
	if sym == "" {
		return "", NewValidationError("symbol", s, "ticker is required", ErrEmptySymbol)
	}
	return sym, nil
}

func (s Symbol) String() string { return string(s) }

// ExpirationDate is a calendar date in YYYY-MM-DD form.
type ExpirationDate string

func (e ExpirationDate) String() string { return string(e) }

// Time returns midnight of the expiration date in loc.
func (e ExpirationDate) Time(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(ExpirationLayout, string(e), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse expiration %q: %w", e, err)
	}
	return t, nil
}

// OptionQuoteRow is one listed contract on one side of the chain.
type OptionQuoteRow struct {
	Strike       decimal.Decimal `json:"strike"`
	OpenInterest int64           `json:"open_interest"`
	Volume       int64           `json:"volume"`
}

// OptionChain holds both sides for a single expiration, in provider order.
type OptionChain struct {
	Calls []OptionQuoteRow `json:"calls"`
	Puts  []OptionQuoteRow `json:"puts"`
}

// Empty reports whether neither side has any rows.
func (c OptionChain) Empty() bool {
	return len(c.Calls) == 0 && len(c.Puts) == 0
}

// RankedStrike keeps a strike and the metric it was ranked by.
type RankedStrike struct {
	Strike decimal.Decimal `json:"strike"`
	Value  int64           `json:"value"`
}

// RankedStrikeSet holds the notable strikes per side and metric.
type RankedStrikeSet struct {
	CallsByOI     []RankedStrike `json:"calls_by_oi"`
	PutsByOI      []RankedStrike `json:"puts_by_oi"`
	CallsByVolume []RankedStrike `json:"calls_by_volume"`
	PutsByVolume  []RankedStrike `json:"puts_by_volume"`
}

// Strikes returns the strike values of a ranked sequence.
func Strikes(rs []RankedStrike) []decimal.Decimal {
	out := make([]decimal.Decimal, len(rs))
	for i, r := range rs {
		out[i] = r.Strike
	}
	return out
}
