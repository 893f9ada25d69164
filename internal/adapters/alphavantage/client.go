package alphavantage

// Alpha Vantage client: most-active tickers, insider transactions and news
// sentiment. One provider, one API key, shared by the whole analysis
// pipeline.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/wandererfin/wanderer/internal/domain"
)

const (
	defaultBaseURL = "https://www.alphavantage.co"
	queryPath      = "/query"

	// Premium tier allows 75 req/min; one per second keeps headroom.
	requestInterval = time.Second

	maxRetries    = 3
	baseRetryWait = time.Second

	// Insider lookback window and cap, matching what the classifier prompt
	// can usefully digest.
	insiderWindowDays = 30
	insiderMax        = 10

	// Thin summaries carry no signal for the classifier.
	minSummaryWords = 30
)

// Client is the Alpha Vantage HTTP client with rate limiting and retries.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
	now     func() time.Time
}

// NewClient creates a Client. An empty baseURL uses the production endpoint.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Every(requestInterval), 1),
		now:     time.Now,
	}
}

// MostActive returns the most actively traded tickers, highest volume first.
func (c *Client) MostActive(ctx context.Context) ([]string, error) {
	var resp topMoversResponse
	if err := c.get(ctx, c.queryURL("TOP_GAINERS_LOSERS", nil), &resp); err != nil {
		return nil, fmt.Errorf("alphavantage.MostActive: %w", err)
	}
	if len(resp.MostActivelyTraded) == 0 {
		return nil, fmt.Errorf("alphavantage.MostActive: empty most_actively_traded list")
	}

	tickers := make([]string, 0, len(resp.MostActivelyTraded))
	for _, m := range resp.MostActivelyTraded {
		if m.Ticker != "" {
			tickers = append(tickers, m.Ticker)
		}
	}
	return tickers, nil
}

// InsiderTransactions returns insider trades from the last 30 days for a
// ticker, most recent first, capped at 10.
func (c *Client) InsiderTransactions(ctx context.Context, ticker string) ([]domain.InsiderTransaction, error) {
	var resp insiderResponse
	params := url.Values{"symbol": {ticker}}
	if err := c.get(ctx, c.queryURL("INSIDER_TRANSACTIONS", params), &resp); err != nil {
		return nil, fmt.Errorf("alphavantage.InsiderTransactions: %s: %w", ticker, err)
	}

	cutoff := domain.Day(c.now()).AddDate(0, 0, -insiderWindowDays)

	var out []domain.InsiderTransaction
	for _, raw := range resp.Data {
		date, err := time.Parse(domain.DateFormat, raw.TransactionDate)
		if err != nil || date.Before(cutoff) {
			continue
		}
		out = append(out, domain.InsiderTransaction{
			Ticker:     ticker,
			Executive:  raw.Executive,
			Title:      raw.ExecutiveTitle,
			Type:       raw.AcquisitionOrDisposal,
			Shares:     parseFloat(raw.Shares),
			SharePrice: parseFloat(raw.SharePrice),
			Date:       date,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > insiderMax {
		out = out[:insiderMax]
	}
	return out, nil
}

// News returns up to limit recent news items for a ticker, skipping entries
// whose summary is too thin to inform the classifier.
func (c *Client) News(ctx context.Context, ticker string, limit int) ([]domain.NewsItem, error) {
	var resp newsResponse
	params := url.Values{
		"tickers": {ticker},
		"sort":    {"LATEST"},
	}
	if err := c.get(ctx, c.queryURL("NEWS_SENTIMENT", params), &resp); err != nil {
		return nil, fmt.Errorf("alphavantage.News: %s: %w", ticker, err)
	}

	var out []domain.NewsItem
	for _, raw := range resp.Feed {
		if len(out) >= limit {
			break
		}
		if wordCount(raw.Summary) < minSummaryWords {
			continue
		}
		published, _ := time.Parse("20060102T150405", raw.TimePublished)
		out = append(out, domain.NewsItem{
			Title:       raw.Title,
			Summary:     raw.Summary,
			Sentiment:   raw.OverallSentimentLabel,
			PublishedAt: published,
		})
	}
	return out, nil
}

func (c *Client) queryURL(function string, params url.Values) string {
	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	q.Set("function", function)
	q.Set("apikey", c.apiKey)
	return c.baseURL + queryPath + "?" + q.Encode()
}

// get performs a GET with rate limiting and retries. Alpha Vantage signals
// throttling with a 200 response carrying a "Note"/"Information" body, so
// that is checked alongside the status code.
func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("status %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}
		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		var envelope apiEnvelope
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.throttled() {
			if attempt == maxRetries {
				return fmt.Errorf("throttled after %d retries: %s", maxRetries, envelope.message())
			}
			c.sleep(ctx, attempt)
			continue
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep waits with exponential backoff, honoring the context.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func wordCount(s string) int {
	n := 0
	inWord := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}
