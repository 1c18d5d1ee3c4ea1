package refresh

import (
	"sync"
	"time"

	"StrikeZones/internal/model"
)

// State of one refresh.
type State string

const (
	StateEmpty           State = "empty"
	StateValidationError State = "validation_error"
	StateDataError       State = "data_error"
	StateReady           State = "ready"
)

// Result is what one refresh emits. Chart is always renderable; for non-ready states it
// is an empty placeholder.
type Result struct {
	Seq     uint64                 `json:"seq"`
	State   State                  `json:"state"`
	Title   string                 `json:"title"`
	Message string                 `json:"message,omitempty"`
	Chart   model.ChartDescription `json:"chart"`
	Strikes *model.RankedStrikeSet `json:"strikes,omitempty"`
	Scale   model.ScaleState       `json:"scale"`
	At      time.Time              `json:"at"`
}

// Latest keeps the newest accepted result. Results carrying an older sequence than the
// one already accepted are discarded.
type Latest struct {
	mu     sync.Mutex
	result Result
	has    bool
}

// Offer accepts r if it is newer than the current result.
func (l *Latest) Offer(r Result) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.has && r.Seq <= l.result.Seq {
		return false
	}
	l.result = r
	l.has = true
	return true
}

// Get returns the current result, if any.
func (l *Latest) Get() (Result, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.result, l.has
}
