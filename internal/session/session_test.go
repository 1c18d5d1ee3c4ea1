package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"StrikeZones/internal/model"
)

func TestStore_ScaleClicks(t *testing.T) {
	s := NewStore()
	assert.Equal(t, model.ScaleState{}, s.Scale())

	s.ScaleUp()
	s.ScaleUp()
	got := s.ScaleDown()
	assert.Equal(t, model.ScaleState{UpClicks: 2, DownClicks: 1}, got)
	assert.Equal(t, 1, s.Scale().Net())
}

func TestStore_ObserveClicksNeverDecreases(t *testing.T) {
	s := NewStore()
	assert.Equal(t, model.ScaleState{UpClicks: 3, DownClicks: 2}, s.ObserveClicks(3, 2))
	assert.Equal(t, model.ScaleState{UpClicks: 3, DownClicks: 5}, s.ObserveClicks(1, 5))
	assert.Equal(t, model.ScaleState{UpClicks: 3, DownClicks: 5}, s.ObserveClicks(0, 0))
}

func TestStore_ConcurrentClicks(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); s.ScaleUp() }()
		go func() { defer wg.Done(); s.ScaleDown() }()
	}
	wg.Wait()
	assert.Equal(t, model.ScaleState{UpClicks: 50, DownClicks: 50}, s.Scale())
}

func TestStore_Controls(t *testing.T) {
	s := NewStore()
	_, ok := s.Controls()
	assert.False(t, ok)

	want := model.Controls{Symbol: "QQQ", ExpirationDate: "2025-03-21", Filter: "1D"}
	assert.True(t, s.SetControls(1, want))
	got, ok := s.Controls()
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestStore_SetControlsIgnoresOlderRefresh(t *testing.T) {
	s := NewStore()
	older := model.Controls{Symbol: "SPY", ExpirationDate: "2025-03-21"}
	newer := model.Controls{Symbol: "QQQ", ExpirationDate: "2025-03-21"}

	// The refresh with seq 2 stores its controls before the one with seq 1.
	assert.True(t, s.SetControls(2, newer))
	assert.False(t, s.SetControls(1, older))
	assert.False(t, s.SetControls(2, older))

	got, ok := s.Controls()
	assert.True(t, ok)
	assert.Equal(t, newer, got)

	assert.True(t, s.SetControls(3, older))
	got, _ = s.Controls()
	assert.Equal(t, older, got)
}
