package alphavantage_test

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
	"github.com/wandererfin/wanderer/internal/adapters/alphavantage"
	"github.com/wandererfin/wanderer/internal/domain"
)

func TestClient_MostActive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TOP_GAINERS_LOSERS", r.URL.Query().Get("function"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		fmt.Fprint(w, `{
			"most_actively_traded": [
				{"ticker": "TSLA", "price": "242.1", "change_percentage": "3.1%", "volume": "98000000"},
				{"ticker": "NVDA", "price": "181.5", "change_percentage": "-1.2%", "volume": "76000000"}
			]
		}`)
	}))
	defer srv.Close()

	c := alphavantage.NewClient(srv.URL, "test-key")
	tickers, err := c.MostActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"TSLA", "NVDA"}, tickers)
}

func TestClient_MostActive_EmptyListIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"most_actively_traded": []}`)
	}))
	defer srv.Close()

	c := alphavantage.NewClient(srv.URL, "test-key")
	_, err := c.MostActive(context.Background())
	assert.Error(t, err)
}

func TestClient_InsiderTransactions_FiltersOldEntries(t *testing.T) {
	recent := time.Now().UTC().AddDate(0, 0, -5).Format(domain.DateFormat)
	stale := time.Now().UTC().AddDate(0, 0, -60).Format(domain.DateFormat)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "INSIDER_TRANSACTIONS", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		fmt.Fprintf(w, `{
			"data": [
				{"transaction_date": "%s", "ticker": "AAPL", "executive": "Jane Doe",
				 "executive_title": "CFO", "acquisition_or_disposal": "D",
				 "shares": "1500.0", "share_price": "182.33"},
				{"transaction_date": "%s", "ticker": "AAPL", "executive": "Old Trade",
				 "executive_title": "CEO", "acquisition_or_disposal": "A",
				 "shares": "9000.0", "share_price": "140.00"}
			]
		}`, recent, stale)
	}))
	defer srv.Close()

	c := alphavantage.NewClient(srv.URL, "test-key")
	trades, err := c.InsiderTransactions(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, trades, 1, "entries older than 30 days dropped")
	assert.Equal(t, "Jane Doe", trades[0].Executive)
	assert.Equal(t, "D", trades[0].Type)
	assert.InDelta(t, 1500.0, trades[0].Shares, 0.001)
	assert.InDelta(t, 182.33, trades[0].SharePrice, 0.001)
}

func TestClient_News_SkipsThinSummaries(t *testing.T) {
	long := strings.Repeat("word ", 40)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "NEWS_SENTIMENT", r.URL.Query().Get("function"))
		assert.Equal(t, "TSLA", r.URL.Query().Get("tickers"))
		fmt.Fprintf(w, `{
			"feed": [
				{"title": "Too short", "summary": "thin", "time_published": "20250825T120000", "overall_sentiment_label": "Neutral"},
				{"title": "Deliveries beat estimates", "summary": "%s", "time_published": "20250825T130000", "overall_sentiment_label": "Bullish"},
				{"title": "Second long piece", "summary": "%s", "time_published": "20250825T140000", "overall_sentiment_label": "Bearish"},
				{"title": "Third long piece", "summary": "%s", "time_published": "20250825T150000", "overall_sentiment_label": "Neutral"}
			]
		}`, long, long, long)
	}))
	defer srv.Close()

	c := alphavantage.NewClient(srv.URL, "test-key")
	news, err := c.News(context.Background(), "TSLA", 2)
	require.NoError(t, err)
	require.Len(t, news, 2, "thin summary skipped, limit honored")
	assert.Equal(t, "Deliveries beat estimates", news[0].Title)
	assert.Equal(t, "Bullish", news[0].Sentiment)
}

func TestClient_ThrottleNoteRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, `{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit..."}`)
			return
		}
		fmt.Fprint(w, `{"most_actively_traded": [{"ticker": "AMD", "price": "160.0", "change_percentage": "1%", "volume": "1"}]}`)
	}))
	defer srv.Close()

	c := alphavantage.NewClient(srv.URL, "test-key")
	tickers, err := c.MostActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AMD"}, tickers)
	assert.Equal(t, 2, calls)
}
