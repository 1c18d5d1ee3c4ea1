// Package window resolves named lookback filters into concrete history windows
// anchored at "now" in the exchange timezone.
package window

import (
	"regexp"
	"time"

	"StrikeZones/internal/model"
)

const day = 24 * time.Hour

// Lookbacks per named filter. 1M is four weeks.
var lookbacks = map[model.FilterToken]time.Duration{
	model.Filter1D: 1 * day,
	model.Filter1W: 7 * day,
	model.Filter1M: 28 * day,
}

// ExpirationLookback is used when no filter is pressed.
const ExpirationLookback = 10 * day

var expirationPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Resolver turns filter tokens into windows. Now is injectable for tests.
type Resolver struct {
	Location *time.Location
	Now      func() time.Time
}

// NewResolver creates a Resolver for the given exchange location.
func NewResolver(loc *time.Location) *Resolver {
	return &Resolver{Location: loc, Now: time.Now}
}

func (r *Resolver) now() time.Time {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc).Truncate(time.Minute)
}

// Resolve maps a filter token to a window. Unknown tokens behave like 1D; no token gives
// the expiration-driven ten day window.
func (r *Resolver) Resolve(token model.FilterToken) model.TimeWindow {
	end := r.now()
	lookback, ok := lookbacks[token]
	switch {
	case token == model.FilterNone:
		lookback = ExpirationLookback
	case !ok:
		lookback = lookbacks[model.Filter1D]
	}
	return model.TimeWindow{
		Start:       end.Add(-lookback),
		End:         end,
		Granularity: model.Granularity5m,
	}
}

// Panel returns the window used for the mini-chart basket.
func (r *Resolver) Panel() model.TimeWindow {
	end := r.now()
	return model.TimeWindow{
		Start:       end.Add(-day),
		End:         end,
		Granularity: model.Granularity1h,
	}
}

// ParseExpiration validates a YYYY-MM-DD date string.
func ParseExpiration(s string) (model.ExpirationDate, error) {
	if !expirationPattern.MatchString(s) {
		return "", model.NewValidationError("expiration", s, "expected YYYY-MM-DD", model.ErrInvalidDate)
	}
	if _, err := time.Parse(model.ExpirationLayout, s); err != nil {
		return "", model.NewValidationError("expiration", s, "not a calendar date", model.ErrInvalidDate)
	}
	return model.ExpirationDate(s), nil
}
