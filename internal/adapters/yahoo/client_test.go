package yahoo_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wandererfin/wanderer/internal/adapters/yahoo"
	"github.com/wandererfin/wanderer/internal/domain"
)

func chartBody(closes string) string {
	return fmt.Sprintf(`{
		"chart": {
			"result": [{
				"meta": {"symbol": "AAPL", "currency": "USD", "regularMarketPrice": 105.0},
				"timestamp": [1756166400],
				"indicators": {"quote": [{"close": [%s]}]}
			}],
			"error": null
		}
	}`, closes)
}

func TestClient_Close_ReturnsSessionClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v8/finance/chart/AAPL")
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		fmt.Fprint(w, chartBody("105.25"))
	}))
	defer srv.Close()

	c := yahoo.NewClient(srv.URL)
	px, err := c.Close(context.Background(), "AAPL", time.Date(2025, 8, 26, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 105.25, px, 0.0001)
}

func TestClient_Close_EmptySessionIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody("null"))
	}))
	defer srv.Close()

	c := yahoo.NewClient(srv.URL)
	_, err := c.Close(context.Background(), "AAPL", time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, domain.IsNoData(err))
}

func TestClient_Close_UnknownSymbolIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"chart":{"result":null,"error":{"code":"Not Found"}}}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := yahoo.NewClient(srv.URL)
	_, err := c.Close(context.Background(), "NOPE", time.Date(2025, 8, 26, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, domain.IsNoData(err))
}

func TestClient_PreviousClose_LastAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5d", r.URL.Query().Get("range"))
		fmt.Fprint(w, chartBody("101.0, 102.5, null, 103.75"))
	}))
	defer srv.Close()

	c := yahoo.NewClient(srv.URL)
	px, err := c.PreviousClose(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.InDelta(t, 103.75, px, 0.0001)
}

func TestClient_Close_RetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, chartBody("99.5"))
	}))
	defer srv.Close()

	c := yahoo.NewClient(srv.URL)
	px, err := c.Close(context.Background(), "AAPL", time.Date(2025, 8, 26, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 99.5, px, 0.0001)
	assert.Equal(t, 2, calls)
}
