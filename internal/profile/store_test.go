package profile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.jsonl")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	return s, path
}

func TestWatchlist(t *testing.T) {
	s, _ := newStore(t)

	added, err := s.AddToWatchlist("u1", "Signal")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddToWatchlist("u1", "Signal")
	require.NoError(t, err)
	assert.False(t, added, "duplicate add reports already present")

	_, err = s.AddToWatchlist("u1", "Mother")
	require.NoError(t, err)
	_, err = s.AddToWatchlist("u2", "Kingdom")
	require.NoError(t, err)

	list, err := s.Watchlist("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Signal", "Mother"}, list)

	removed, err := s.RemoveFromWatchlist("u1", "Signal")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = s.RemoveFromWatchlist("u1", "Signal")
	require.NoError(t, err)
	assert.False(t, removed)

	list, err = s.Watchlist("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mother"}, list)

	_, err = s.AddToWatchlist("u1", "  ")
	assert.ErrorIs(t, err, ErrEmptyItem)
}

func TestRatings(t *testing.T) {
	s, _ := newStore(t)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	_, ok, err := s.AverageRating("u1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.AddRating("u1", "Signal", 5, "  gripping "))
	require.NoError(t, s.AddRating("u1", "Signal", 4, ""))
	require.NoError(t, s.AddRating("u1", "Mother", 2, "slow"))

	err = s.AddRating("u1", "Signal", 6, "")
	assert.ErrorIs(t, err, ErrInvalidRating)
	err = s.AddRating("u1", "Signal", 0, "")
	assert.ErrorIs(t, err, ErrInvalidRating)

	ratings, err := s.Ratings("u1")
	require.NoError(t, err)
	require.Len(t, ratings["Signal"], 2)
	assert.Equal(t, "gripping", ratings["Signal"][0].Feedback)
	assert.Equal(t, time.Unix(1700000000, 0), ratings["Signal"][0].CreatedAt)

	avg, ok, err := s.AverageRating("u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 11.0/3.0, avg, 1e-9)
}

func TestPersistenceAcrossReload(t *testing.T) {
	s, path := newStore(t)

	_, err := s.AddToWatchlist("u1", "Signal")
	require.NoError(t, err)
	_, err = s.AddToWatchlist("u1", "Mother")
	require.NoError(t, err)
	_, err = s.RemoveFromWatchlist("u1", "Signal")
	require.NoError(t, err)
	require.NoError(t, s.AddRating("u1", "Mother", 3, "ok"))

	// 追加一行损坏的数据，重放时应被忽略
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	s2, err := NewFileStore(path)
	require.NoError(t, err)

	list, err := s2.Watchlist("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mother"}, list)

	ratings, err := s2.Ratings("u1")
	require.NoError(t, err)
	require.Len(t, ratings["Mother"], 1)
	assert.Equal(t, 3, ratings["Mother"][0].Rating)
}
