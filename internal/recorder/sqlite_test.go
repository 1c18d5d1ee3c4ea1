package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.RecordRefresh(&RefreshEvent{
		Seq: 1, Symbol: "QQQ", Expiration: "2025-03-21", State: "ready", Lines: 20, Points: 78, Elapsed: 120 * time.Millisecond,
	}))
	require.NoError(t, r.RecordRefresh(&RefreshEvent{
		Seq: 2, Symbol: "QQQ", Expiration: "03-21-2025", State: "validation_error", Message: "Invalid date format. Please use YYYY-MM-DD.",
	}))
	require.NoError(t, r.RecordFetch(&FetchEvent{Provider: "yahoo", Op: "history", Symbol: "QQQ", OK: true}))
	require.NoError(t, r.RecordFetch(&FetchEvent{Provider: "yahoo", Op: "option_chain", Symbol: "ZZZ999", Error: "unknown symbol"}))

	n, err := r.CountRefreshes()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ok, err := r.CountFetches(true)
	require.NoError(t, err)
	assert.Equal(t, 1, ok)
	failed, err := r.CountFetches(false)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
}

func TestSQLiteRecorder_ReopenKeepsJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordRefresh(&RefreshEvent{Seq: 1, State: "empty"}))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()

	n, err := r.CountRefreshes()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRefresh(&RefreshEvent{}))
	assert.NoError(t, r.RecordFetch(&FetchEvent{}))
	assert.NoError(t, r.Close())
}
