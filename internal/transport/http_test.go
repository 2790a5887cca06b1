package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/uistate/internal/batch"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, strings.Repeat("x", 128))
	})
	mux.HandleFunc("/ua", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, r.Header.Get("User-Agent"))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	srv := newTestServer(t)
	f := &HTTPFetcher{Client: srv.Client()}

	t.Run("success", func(t *testing.T) {
		res, err := f.Fetch(context.Background(), srv.URL+"/ok")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, int64(128), res.Bytes)
		assert.Equal(t, srv.URL+"/ok", res.URL)
	})

	t.Run("user agent", func(t *testing.T) {
		res, err := f.Fetch(context.Background(), srv.URL+"/ua")
		require.NoError(t, err)
		assert.Equal(t, int64(len(DefaultUserAgent)), res.Bytes)
	})

	t.Run("non 2xx", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), srv.URL+"/missing")
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("timeout is a failure", func(t *testing.T) {
		slow := &HTTPFetcher{Client: srv.Client(), Timeout: 20 * time.Millisecond}
		_, err := slow.Fetch(context.Background(), srv.URL+"/slow")
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.False(t, batch.IsCanceled(err))
	})

	t.Run("cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()
		_, err := f.Fetch(ctx, srv.URL+"/slow")
		assert.True(t, batch.IsCanceled(err))
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), "://nope")
		assert.Error(t, err)
	})
}

func TestHTTPFetcher_WithRunner(t *testing.T) {
	srv := newTestServer(t)
	f := &HTTPFetcher{Client: srv.Client()}

	urls := make([]string, 7)
	for i := range urls {
		urls[i] = srv.URL + "/ok"
	}
	urls[5] = srv.URL + "/missing"

	r, err := batch.NewRunner(urls, f.Fetch, batch.WithBatchSize(3))
	require.NoError(t, err)
	require.NoError(t, r.Start(context.Background()))

	assert.Len(t, r.Results(), 3)
	var statusErr *StatusError
	assert.ErrorAs(t, r.Err(), &statusErr)
	assert.Equal(t, batch.OutcomeFailed, r.Snapshot().Outcome)
}
