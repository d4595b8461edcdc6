package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("success returns the raw body", func(t *testing.T) {
		t.Parallel()

		body := "Header\n2025.06.01,10:00,,,Title,,,\n"

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		defer srv.Close()

		got, err := NewFetcher(time.Second).Fetch(ctx, srv.URL)
		require.NoError(t, err)
		assert.Equal(t, body, got)
	})

	t.Run("non-200 status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		_, err := NewFetcher(time.Second).Fetch(ctx, srv.URL)

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusForbidden, statusErr.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("   \n  "))
		}))
		defer srv.Close()

		_, err := NewFetcher(time.Second).Fetch(ctx, srv.URL)
		require.ErrorIs(t, err, ErrEmptyBody)
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		srv.Close() // nothing listens anymore

		_, err := NewFetcher(time.Second).Fetch(ctx, srv.URL)

		var fetchErr *FetchError
		require.ErrorAs(t, err, &fetchErr)
		require.Error(t, fetchErr.Unwrap())
	})

	t.Run("invalid url rejected before any network call", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32

		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
		}))
		defer srv.Close()

		for _, raw := range []string{"", "   ", "not a url", "ftp://example.com/x.csv"} {
			_, err := NewFetcher(time.Second).Fetch(ctx, raw)
			require.ErrorIs(t, err, ErrInvalidURL, "url %q", raw)
		}

		assert.Equal(t, int32(0), hits.Load())
	})
}
