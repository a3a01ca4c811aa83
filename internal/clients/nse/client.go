// Package nse resolves Nairobi Securities Exchange equity prices from the
// public chart pages, with an optional local CSV fallback.
package nse

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/nsebridge/neo/internal/common"
	"github.com/nsebridge/neo/internal/interfaces"
)

const (
	DefaultChartURL  = "https://afx.kwayisi.org/chart/nse"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 2 // requests per second
)

// The chart pages embed a Highcharts config; the latest traded price is
// the last pair of its series data array.
var (
	seriesRe = regexp.MustCompile(`(?s)series\s*:\s*\[\{.*?data\s*:\s*\[(.+?)\]\s*\}`)
	pairRe   = regexp.MustCompile(`\[d\("([^"]+)"\)\s*,\s*([\d.]+)\]`)
)

// Client implements the EquityPriceClient interface
type Client struct {
	chartURL   string
	priceFile  string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithChartURL sets the chart page base URL
func WithChartURL(chartURL string) ClientOption {
	return func(c *Client) {
		c.chartURL = strings.TrimRight(chartURL, "/")
	}
}

// WithPriceFile sets a local CSV used when the scrape fails
func WithPriceFile(path string) ClientOption {
	return func(c *Client) {
		c.priceFile = path
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new NSE price client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		chartURL: DefaultChartURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

var _ interfaces.EquityPriceClient = (*Client)(nil)

// LastPrice returns the most recent day price in KES for the stock code.
// The chart page is tried first; if a price file is configured it serves
// as fallback.
func (c *Client) LastPrice(ctx context.Context, code string) (decimal.Decimal, error) {
	price, scrapeErr := c.scrape(ctx, code)
	if scrapeErr == nil {
		return price, nil
	}

	c.logger.Debug().Err(scrapeErr).Str("code", code).Msg("Chart scrape failed")

	if c.priceFile != "" {
		if price, err := c.readPriceFile(code); err == nil {
			return price, nil
		} else {
			c.logger.Debug().Err(err).Str("code", code).Msg("Price file lookup failed")
		}
	}

	return decimal.Zero, scrapeErr
}

func (c *Client) scrape(ctx context.Context, code string) (decimal.Decimal, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s", c.chartURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", reqURL).Msg("NSE chart request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("chart page returned status %d for %s", resp.StatusCode, code)
	}

	html, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read chart page: %w", err)
	}

	return parseChartPrice(string(html))
}

// parseChartPrice extracts the last (date, price) pair from the embedded
// chart series.
func parseChartPrice(html string) (decimal.Decimal, error) {
	block := seriesRe.FindStringSubmatch(html)
	if block == nil {
		return decimal.Zero, fmt.Errorf("chart data array not found")
	}

	pairs := pairRe.FindAllStringSubmatch(block[1], -1)
	if len(pairs) == 0 {
		return decimal.Zero, fmt.Errorf("no data points parsed")
	}

	last := pairs[len(pairs)-1]
	price, err := decimal.NewFromString(last[2])
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", last[2], err)
	}

	return price, nil
}

// readPriceFile looks the code up in the local NSE price CSV. Column 1 is
// the stock code, column 7 the day price, which may be comma-grouped or
// "-" when the stock did not trade.
func (c *Client) readPriceFile(code string) (decimal.Decimal, error) {
	f, err := os.Open(c.priceFile)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to open price file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	// header
	if _, err := r.Read(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to read price file header: %w", err)
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to read price file row: %w", err)
		}
		if len(row) < 8 {
			continue
		}

		if strings.TrimSpace(row[1]) != code {
			continue
		}

		raw := strings.ReplaceAll(strings.TrimSpace(row[7]), ",", "")
		if raw == "" || raw == "-" {
			continue
		}

		price, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid day price %q for %s: %w", row[7], code, err)
		}
		return price, nil
	}

	return decimal.Zero, fmt.Errorf("code %s not found in price file", code)
}
