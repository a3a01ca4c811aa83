// Package binance resolves ledger-token spot prices from Binance.
package binance

import (
	"context"
	"fmt"
	"strings"

	gobinance "github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"

	"github.com/nsebridge/neo/internal/common"
	"github.com/nsebridge/neo/internal/interfaces"
)

// Client implements the CryptoPriceClient interface
type Client struct {
	api    *gobinance.Client
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Binance price client. Keys may be empty; the
// price endpoints are public.
func NewClient(apiKey, apiSecret string, opts ...ClientOption) *Client {
	c := &Client{
		api:    gobinance.NewClient(apiKey, apiSecret),
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

var _ interfaces.CryptoPriceClient = (*Client)(nil)

// SpotPrice returns the USD spot price for a token symbol via its USDT
// trading pair.
func (c *Client) SpotPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	pair := strings.ToUpper(symbol) + "USDT"

	c.logger.Debug().Str("pair", pair).Msg("Binance price request")

	prices, err := c.api.NewListPricesService().Symbol(pair).Do(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch price for %s: %w", pair, err)
	}
	if len(prices) == 0 {
		return decimal.Zero, fmt.Errorf("no price returned for %s", pair)
	}

	price, err := decimal.NewFromString(prices[0].Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q for %s: %w", prices[0].Price, pair, err)
	}

	return price, nil
}
