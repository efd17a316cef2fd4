package omdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupIMDbID(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "series", r.URL.Query().Get("type"))

		switch r.URL.Query().Get("t") {
		case "Signal":
			w.Write([]byte(`{"Title":"Signal","imdbID":"tt5332206","Response":"True"}`))
		default:
			w.Write([]byte(`{"Response":"False","Error":"Series not found!"}`))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", WithRateLimit(100, 10))

	id, err := c.LookupIMDbID(context.Background(), "Signal")
	require.NoError(t, err)
	assert.Equal(t, "tt5332206", id)

	// 第二次命中缓存
	id, err = c.LookupIMDbID(context.Background(), "signal")
	require.NoError(t, err)
	assert.Equal(t, "tt5332206", id)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	_, err = c.LookupIMDbID(context.Background(), "Nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.LookupIMDbID(context.Background(), " ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response":"False","Error":"Series not found!"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", WithRateLimit(1000, 100))
	for i := 0; i < 10; i++ {
		_, err := c.LookupIMDbID(context.Background(), "Nope")
		require.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, "closed", c.breaker.State().String())
}

func TestServerErrorsTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", WithRateLimit(1000, 100))
	for i := 0; i < 5; i++ {
		_, err := c.LookupIMDbID(context.Background(), "Signal")
		require.Error(t, err)
	}
	_, err := c.LookupIMDbID(context.Background(), "Signal")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestIMDbURL(t *testing.T) {
	assert.Equal(t, "https://www.imdb.com/title/tt5332206/", IMDbURL("tt5332206"))
}
