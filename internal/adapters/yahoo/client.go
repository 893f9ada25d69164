package yahoo

// Daily closes from the Yahoo Finance v8 chart endpoint. One client serves
// both roles: instrument closes for grading and benchmark index closes
// (^GSPC) for the comparison baseline.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/wandererfin/wanderer/internal/domain"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	chartPath      = "/v8/finance/chart/"

	// Unofficial endpoint — stay well under the observed throttling point.
	requestsPerSec = 4

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// errSymbolNotFound maps Yahoo's 404 ("No data found, symbol may be
// delisted") onto the transient no-data path.
var errSymbolNotFound = errors.New("symbol not found")

// Client is the Yahoo Finance HTTP client with rate limiting and retries.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewClient creates a Client. An empty baseURL uses the production endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		limiter: rate.NewLimiter(requestsPerSec, 2),
	}
}

// Close returns the closing price for symbol on the session of date. The
// query window is [date, date+1) only: a day with no session yields
// *domain.NoDataError rather than a neighboring day's close.
func (c *Client) Close(ctx context.Context, symbol string, date time.Time) (float64, error) {
	day := domain.Day(date)

	q := url.Values{}
	q.Set("period1", strconv.FormatInt(day.Unix(), 10))
	q.Set("period2", strconv.FormatInt(day.AddDate(0, 0, 1).Unix(), 10))
	q.Set("interval", "1d")

	var resp chartResponse
	err := c.get(ctx, c.chartURL(symbol, q), &resp)
	if errors.Is(err, errSymbolNotFound) {
		return 0, &domain.NoDataError{Symbol: symbol, Date: day}
	}
	if err != nil {
		return 0, fmt.Errorf("yahoo.Close: %s: %w", symbol, err)
	}

	closes := resp.closes()
	if len(closes) == 0 {
		return 0, &domain.NoDataError{Symbol: symbol, Date: day}
	}
	return closes[0], nil
}

// PreviousClose returns the most recent available daily close for symbol.
func (c *Client) PreviousClose(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("range", "5d")

	var resp chartResponse
	err := c.get(ctx, c.chartURL(symbol, q), &resp)
	if errors.Is(err, errSymbolNotFound) {
		return 0, &domain.NoDataError{Symbol: symbol, Date: domain.Day(time.Now().UTC())}
	}
	if err != nil {
		return 0, fmt.Errorf("yahoo.PreviousClose: %s: %w", symbol, err)
	}

	closes := resp.closes()
	if len(closes) == 0 {
		return 0, &domain.NoDataError{Symbol: symbol, Date: domain.Day(time.Now().UTC())}
	}
	return closes[len(closes)-1], nil
}

func (c *Client) chartURL(symbol string, q url.Values) string {
	return c.baseURL + chartPath + url.PathEscape(symbol) + "?" + q.Encode()
}

// get performs a GET with rate limiting and retries on 429/5xx.
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
		req.Header.Set("User-Agent", "Mozilla/5.0 (wanderer)")

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return errSymbolNotFound
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("status %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		case resp.StatusCode >= 400:
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
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
