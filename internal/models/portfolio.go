package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetKind distinguishes ledger tokens from listed equities.
type AssetKind string

const (
	AssetLedgerToken AssetKind = "ledger_token"
	AssetEquity      AssetKind = "equity"
)

// TokenBalance is a ledger-token position as reported by the backend.
type TokenBalance struct {
	TokenID   string          `json:"token_id"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name,omitempty"`
	StockCode string          `json:"stock_code,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
}

// StockBalance is a tokenized equity position as reported by the backend.
type StockBalance struct {
	StockCode      string          `json:"stock_code"`
	Name           string          `json:"name,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	LockedQuantity decimal.Decimal `json:"locked_quantity"`
	TokenID        string          `json:"token_id,omitempty"`
}

// Holding is the unified view the valuation engine prices.
type Holding struct {
	Symbol         string          `json:"symbol"`
	Kind           AssetKind       `json:"kind"`
	Quantity       decimal.Decimal `json:"quantity"`
	LockedQuantity decimal.Decimal `json:"locked_quantity,omitempty"`
	TokenID        string          `json:"token_id,omitempty"`
	Name           string          `json:"name,omitempty"`
}

// PricedAsset is a holding with its resolved unit price and extended value.
type PricedAsset struct {
	Holding
	UnitPriceKES decimal.Decimal `json:"unit_price_kes"`
	ValueKES     decimal.Decimal `json:"value_kes"`
}

// PortfolioSnapshot is the result of valuing a set of holdings.
type PortfolioSnapshot struct {
	UserID        string          `json:"user_id"`
	Priced        []PricedAsset   `json:"priced"`
	Unpriced      []string        `json:"unpriced,omitempty"`
	TotalValueKES decimal.Decimal `json:"total_value_kes"`
	AsOf          time.Time       `json:"as_of"`
}

// UserProfile is the authenticated identity returned by the backend. The
// profile payload carries the user's holdings; there is no separate
// balances endpoint.
type UserProfile struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Name      string         `json:"name,omitempty"`
	AccountID string         `json:"account_id,omitempty"`
	Tokens    []TokenBalance `json:"tokens,omitempty"`
	Stocks    []StockBalance `json:"stocks,omitempty"`
}
