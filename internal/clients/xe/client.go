// Package xe resolves the USD/KES conversion rate.
package xe

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nsebridge/neo/internal/common"
	"github.com/nsebridge/neo/internal/interfaces"
)

const (
	DefaultBaseURL = "https://www.xe.com/api/protected/statistics/?from=USD&to=KES"
	DefaultTimeout = 10 * time.Second

	// DefaultFallbackRate is used whenever the rate source is unreachable
	// or returns an unusable payload.
	DefaultFallbackRate = 129.65
)

// Client implements the FXClient interface
type Client struct {
	baseURL    string
	fallback   decimal.Decimal
	httpClient *http.Client
	logger     *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the statistics endpoint URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithFallbackRate sets the rate used when the source is unavailable
func WithFallbackRate(rate float64) ClientOption {
	return func(c *Client) {
		c.fallback = decimal.NewFromFloat(rate)
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new FX rate client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		fallback: decimal.NewFromFloat(DefaultFallbackRate),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

var _ interfaces.FXClient = (*Client)(nil)

// KESRate returns the 24-hour average USD/KES rate, or the fallback rate
// on any failure. It never errors; valuation must not stall on FX.
func (c *Client) KESRate(ctx context.Context) decimal.Decimal {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return c.fallback
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Msg("FX rate request failed, using fallback")
		return c.fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug().Int("status", resp.StatusCode).Msg("FX rate request failed, using fallback")
		return c.fallback
	}

	var payload struct {
		Last1Days struct {
			Average float64 `json:"average"`
		} `json:"last1Days"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Debug().Err(err).Msg("FX rate decode failed, using fallback")
		return c.fallback
	}

	if payload.Last1Days.Average <= 0 {
		return c.fallback
	}

	return decimal.NewFromFloat(payload.Last1Days.Average)
}
