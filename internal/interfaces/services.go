package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nsebridge/neo/internal/models"
)

// BalanceService aggregates a user's holdings from the backend.
type BalanceService interface {
	// GetHoldings fetches token and stock balances, degrading to empty
	// slices on upstream failure.
	GetHoldings(ctx context.Context, userID string) ([]models.TokenBalance, []models.StockBalance, error)
	// GetHoldingsStrict fetches the same balances but returns an error on
	// any upstream failure. Used by paths that spend on the result.
	GetHoldingsStrict(ctx context.Context, userID string) ([]models.TokenBalance, []models.StockBalance, error)
}

// PricingService resolves asset prices and values portfolios.
type PricingService interface {
	// ResolvePrice returns the unit price in KES, or the unavailable
	// sentinel. It never returns an error.
	ResolvePrice(ctx context.Context, symbol string, kind models.AssetKind) decimal.Decimal
	// ValuePortfolio prices each holding and sums the available value.
	ValuePortfolio(ctx context.Context, userID string, holdings []models.Holding) (*models.PortfolioSnapshot, error)
}

// NewsService fetches and classifies market news.
type NewsService interface {
	// GetMarketNews returns classified news for one symbol. Upstream
	// failure yields a neutral result, not an error.
	GetMarketNews(ctx context.Context, symbol string) *models.MarketNews
	// GenerateReport accumulates per-symbol results keyed by symbol.
	GenerateReport(ctx context.Context, symbols []string) map[string]*models.MarketNews
}

// TradeService executes trading actions against the backend and ledger.
type TradeService interface {
	ExecuteActions(ctx context.Context, actions []models.TradeAction, creds models.Credentials) ([]models.ActionResult, error)
}

// AuditSession carries the authenticated context an audit write needs.
type AuditSession struct {
	Token  string
	UserID string
	Signer SigningIdentity
}

// AuditService records trade activity on the user's consensus topic.
type AuditService interface {
	// Record appends a message to the user's main topic, creating the
	// topic on first use.
	Record(ctx context.Context, sess AuditSession, message string) error
}
