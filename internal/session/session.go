package session

import (
	"sync"

	"StrikeZones/internal/model"
)

// Store holds the session scoped values that survive between refreshes: the scale
// counters and the last controls seen. Nothing here is persisted.
type Store struct {
	mu       sync.Mutex
	scale    model.ScaleState
	controls model.Controls
	seq      uint64
	seen     bool
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Scale returns a copy of the current scale state.
func (s *Store) Scale() model.ScaleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale
}

// ScaleUp records one scale-up click.
func (s *Store) ScaleUp() model.ScaleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scale.UpClicks++
	return s.scale
}

// ScaleDown records one scale-down click.
func (s *Store) ScaleDown() model.ScaleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scale.DownClicks++
	return s.scale
}

// ObserveClicks folds cumulative click counts reported by the presentation layer into
// the state. Counters only ever grow.
func (s *Store) ObserveClicks(up, down int) model.ScaleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if up > s.scale.UpClicks {
		s.scale.UpClicks = up
	}
	if down > s.scale.DownClicks {
		s.scale.DownClicks = down
	}
	return s.scale
}

// SetControls remembers the controls of refresh seq so periodic ticks can replay them.
// Controls from a refresh older than the stored one are ignored.
func (s *Store) SetControls(seq uint64, c model.Controls) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen && seq <= s.seq {
		return false
	}
	s.controls = c
	s.seq = seq
	s.seen = true
	return true
}

// Controls returns the last controls and whether any were seen.
func (s *Store) Controls() (model.Controls, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controls, s.seen
}
