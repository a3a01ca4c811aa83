// Package interfaces defines contracts between Neo components
package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nsebridge/neo/internal/models"
)

// BackendClient talks to the account backend (auth, balances, token
// lifecycle, topic mirror).
type BackendClient interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, email, password string) (string, error)
	// SessionExpired reports whether the bearer token's expiry has passed.
	// The signature is not verified; the backend does that on use.
	SessionExpired(token string) bool
	// GetProfile returns the authenticated user's profile, including the
	// token and stock holdings embedded in the auth payload.
	GetProfile(ctx context.Context, token string) (*models.UserProfile, error)

	// MintTokens issues amount units of a stock token to the caller.
	MintTokens(ctx context.Context, token, stockCode string, amount decimal.Decimal) (*models.MintTransaction, error)
	// BurnTokens reduces supply after a ledger transfer, identified by the
	// ledger transaction id.
	BurnTokens(ctx context.Context, token, stockCode string, amount decimal.Decimal, ledgerTxID string) (*models.MintTransaction, error)
	// SellTokens converts a stock position into the target asset.
	SellTokens(ctx context.Context, token, stockCode string, amount decimal.Decimal, targetAsset, accountID string) (*models.MintTransaction, error)
	// DeductFee charges the flat usage fee, keyed by an idempotency reference.
	DeductFee(ctx context.Context, token, ref string) error

	// CreateTopic mirrors a ledger topic into the backend.
	CreateTopic(ctx context.Context, token, topicID, memo string) (*models.Topic, error)
	// AddTopicMessage mirrors a submitted topic message.
	AddTopicMessage(ctx context.Context, token, topicID, message string) error
	// GetUserTopics lists the user's topics, newest last.
	GetUserTopics(ctx context.Context, token, userID string) ([]models.Topic, error)
}

// EquityPriceClient resolves the latest traded price for a listed equity.
type EquityPriceClient interface {
	// LastPrice returns the most recent day price in KES for the code.
	LastPrice(ctx context.Context, code string) (decimal.Decimal, error)
}

// CryptoPriceClient resolves spot prices for ledger tokens.
type CryptoPriceClient interface {
	// SpotPrice returns the USD spot price for a token symbol.
	SpotPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// FXClient resolves the USD to KES conversion rate.
type FXClient interface {
	// KESRate returns the current USD/KES rate. Implementations fall back
	// to a configured rate rather than failing.
	KESRate(ctx context.Context) decimal.Decimal
}

// NewsClient searches for market news articles.
type NewsClient interface {
	SearchNews(ctx context.Context, query string, count int) ([]models.RawArticle, error)
}

// MobileMoneyClient initiates mobile-money payments.
type MobileMoneyClient interface {
	// InitiateSTKPush prompts the phone for an on-ramp payment and returns
	// the checkout request id.
	InitiateSTKPush(ctx context.Context, phoneNumber string, amount int64, reference, description string) (string, error)
}
