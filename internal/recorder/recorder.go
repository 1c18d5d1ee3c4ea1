package recorder

import "time"

// RefreshEvent is the outcome metadata of one refresh. Chart data is never stored.
type RefreshEvent struct {
	Seq        uint64
	Symbol     string
	Expiration string
	Filter     string
	State      string // "empty", "validation_error", "data_error", "ready"
	Message    string
	Lines      int
	Points     int
	Elapsed    time.Duration
}

// FetchEvent records one provider call.
type FetchEvent struct {
	Provider string
	Op       string // "option_chain", "history"
	Symbol   string
	OK       bool
	Error    string
	Elapsed  time.Duration
}

// Recorder keeps an operator journal of refresh activity.
type Recorder interface {
	RecordRefresh(evt *RefreshEvent) error
	RecordFetch(evt *FetchEvent) error
	Close() error
}
