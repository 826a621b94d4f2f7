package alpaca

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	tradeapi "github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// PaperURL is the trading API for paper accounts
	PaperURL = "https://paper-api.alpaca.markets"
	// LiveURL is the trading API for live accounts
	LiveURL = "https://api.alpaca.markets"
	// DataURL is the market data API
	DataURL = "https://data.alpaca.markets"

	defaultTimeout    = 30 * time.Second
	defaultRatePerSec = 3
	maxRetries        = 3
	baseRetryWait     = 500 * time.Millisecond
)

// Client reads contracts, stock trades and option trades through the Alpaca
// SDK. It satisfies broker.Provider.
//
// Every SDK request goes through a transport that applies the rate limit
// and retries 5xx responses; the SDK itself retries 429s.
type Client struct {
	tradingURL string
	dataURL    string
	keyID      string
	secretKey  string
	feed       string
	httpClient *http.Client
	limiter    *rate.Limiter
	retryWait  time.Duration

	trading *tradeapi.Client
	data    *marketdata.Client
}

// NewClient creates a client for the paper trading environment.
func NewClient(keyID, secretKey string) *Client {
	c := &Client{
		tradingURL: PaperURL,
		dataURL:    DataURL,
		keyID:      keyID,
		secretKey:  secretKey,
		feed:       "iex",
		limiter:    rate.NewLimiter(defaultRatePerSec, 1),
		retryWait:  baseRetryWait,
	}
	c.httpClient = &http.Client{
		Timeout:   defaultTimeout,
		Transport: &transport{client: c, base: http.DefaultTransport},
	}
	c.connect()
	return c
}

// connect (re)builds the SDK clients from the current settings.
func (c *Client) connect() {
	c.trading = tradeapi.NewClient(tradeapi.ClientOpts{
		APIKey:     c.keyID,
		APISecret:  c.secretKey,
		BaseURL:    c.tradingURL,
		RetryLimit: maxRetries,
		RetryDelay: c.retryWait,
		HTTPClient: c.httpClient,
	})
	c.data = marketdata.NewClient(marketdata.ClientOpts{
		APIKey:     c.keyID,
		APISecret:  c.secretKey,
		BaseURL:    c.dataURL,
		RetryLimit: maxRetries,
		RetryDelay: c.retryWait,
		HTTPClient: c.httpClient,
	})
}

// WithURLs points the client at other endpoints. Empty values are ignored.
func (c *Client) WithURLs(tradingURL, dataURL string) *Client {
	if tradingURL != "" {
		c.tradingURL = tradingURL
	}
	if dataURL != "" {
		c.dataURL = dataURL
	}
	c.connect()
	return c
}

// WithFeed selects the stock data feed ("iex" or "sip").
func (c *Client) WithFeed(feed string) *Client {
	if feed != "" {
		c.feed = feed
	}
	return c
}

// WithRate limits requests per second; zero disables the limit.
func (c *Client) WithRate(perSec float64) *Client {
	if perSec <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 0)
		return c
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
	return c
}

func (c *Client) WithTimeout(d time.Duration) *Client {
	if d > 0 {
		c.httpClient.Timeout = d
	}
	return c
}

// transport waits on the client's limiter before each request and retries
// transport errors and 5xx responses with exponential backoff.
type transport struct {
	client *Client
	base   http.RoundTripper
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	for attempt := 0; ; attempt++ {
		if err := t.client.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := t.base.RoundTrip(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if attempt == maxRetries || ctx.Err() != nil {
			return resp, err
		}

		if resp != nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			log.Debug().Int("status", resp.StatusCode).Int("attempt", attempt+1).Str("path", req.URL.Path).Msg("retrying provider request")
		} else {
			log.Debug().Err(err).Int("attempt", attempt+1).Str("path", req.URL.Path).Msg("retrying provider request")
		}

		wait := time.Duration(math.Pow(2, float64(attempt))) * t.client.retryWait
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
