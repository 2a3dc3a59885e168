package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistory(t *testing.T) *SQLiteHistory {
	t.Helper()
	history, err := NewSQLiteHistory(filepath.Join(t.TempDir(), "scrobbles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { history.Close() })
	return history
}

func TestSQLiteHistoryEmpty(t *testing.T) {
	history := newTestHistory(t)

	last, err := history.Last()
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestSQLiteHistoryAppendAndLast(t *testing.T) {
	history := newTestHistory(t)

	first := ScrobbleRecord{
		Title:     "One More Time",
		Artist:    "Daft Punk",
		Album:     "Discovery",
		Station:   "Radio Paradise",
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, history.Append(first))

	last, err := history.Last()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, first.Title, last.Title)
	assert.Equal(t, first.Artist, last.Artist)
	assert.Equal(t, first.Album, last.Album)
	assert.Equal(t, first.Station, last.Station)
	assert.True(t, first.Timestamp.Equal(last.Timestamp))
	assert.NotZero(t, last.ID)

	second := ScrobbleRecord{
		Title:     "Kerala",
		Artist:    "Bonobo",
		Station:   "Radio Paradise",
		Timestamp: time.Date(2024, 1, 2, 3, 10, 0, 0, time.UTC),
	}
	require.NoError(t, history.Append(second))

	last, err = history.Last()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "Kerala", last.Title)
	assert.Equal(t, "Bonobo", last.Artist)
}

func TestSQLiteHistoryIsAppendOnlyOrdered(t *testing.T) {
	history := newTestHistory(t)

	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, history.Append(ScrobbleRecord{
			Title:     title,
			Artist:    "x",
			Timestamp: time.Now().UTC(),
		}))
	}

	last, err := history.Last()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "c", last.Title)
}
