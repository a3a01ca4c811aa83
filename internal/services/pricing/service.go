// Package pricing resolves asset prices and values portfolios in KES.
package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nsebridge/neo/internal/common"
	"github.com/nsebridge/neo/internal/interfaces"
	"github.com/nsebridge/neo/internal/models"
)

// PriceUnavailable is the sentinel returned when no price source could
// resolve the asset. Callers must treat it as "unknown", never as a price.
var PriceUnavailable = decimal.NewFromInt(-1)

// Service implements the PricingService interface
type Service struct {
	equity  interfaces.EquityPriceClient
	crypto  interfaces.CryptoPriceClient
	fx      interfaces.FXClient
	aliases map[string]string
	logger  *common.Logger
}

// NewService creates a pricing service. aliases maps compound display
// symbols to canonical price codes.
func NewService(equity interfaces.EquityPriceClient, crypto interfaces.CryptoPriceClient, fx interfaces.FXClient, aliases map[string]string, logger *common.Logger) *Service {
	if aliases == nil {
		aliases = map[string]string{}
	}
	return &Service{
		equity:  equity,
		crypto:  crypto,
		fx:      fx,
		aliases: aliases,
		logger:  logger,
	}
}

var _ interfaces.PricingService = (*Service)(nil)

// canonicalCode maps a display symbol to the code the price source knows.
// Only symbols containing "&" go through the alias table; everything else
// passes through untouched.
func (s *Service) canonicalCode(symbol string) string {
	if !strings.Contains(symbol, "&") {
		return symbol
	}
	if code, ok := s.aliases[symbol]; ok {
		return code
	}
	return symbol
}

// ResolvePrice returns the unit price in KES for the asset, or
// PriceUnavailable. It never returns an error; a missing price must not
// fail the read path that asked for it.
func (s *Service) ResolvePrice(ctx context.Context, symbol string, kind models.AssetKind) decimal.Decimal {
	switch kind {
	case models.AssetEquity:
		code := s.canonicalCode(symbol)
		price, err := s.equity.LastPrice(ctx, code)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Str("code", code).Msg("Equity price unavailable")
			return PriceUnavailable
		}
		return price

	case models.AssetLedgerToken:
		usd, err := s.crypto.SpotPrice(ctx, symbol)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Token price unavailable")
			return PriceUnavailable
		}
		return usd.Mul(s.fx.KESRate(ctx))

	default:
		s.logger.Warn().Str("symbol", symbol).Str("kind", string(kind)).Msg("Unknown asset kind")
		return PriceUnavailable
	}
}

// ValuePortfolio prices each holding sequentially and sums the available
// value. Unpriceable assets are excluded from the total and listed in
// Unpriced; a negative computed value rejects the whole valuation.
func (s *Service) ValuePortfolio(ctx context.Context, userID string, holdings []models.Holding) (*models.PortfolioSnapshot, error) {
	snapshot := &models.PortfolioSnapshot{
		UserID: userID,
		AsOf:   time.Now().UTC(),
	}

	total := decimal.Zero

	for _, h := range holdings {
		price := s.ResolvePrice(ctx, h.Symbol, h.Kind)
		if price.Equal(PriceUnavailable) {
			snapshot.Unpriced = append(snapshot.Unpriced, h.Symbol)
			continue
		}

		available := h.Quantity.Sub(h.LockedQuantity)
		if available.IsNegative() {
			available = decimal.Zero
		}

		value := price.Mul(available)
		if value.IsNegative() {
			return nil, fmt.Errorf("invalid valuation for %s: computed value %s is negative", h.Symbol, value.String())
		}

		snapshot.Priced = append(snapshot.Priced, models.PricedAsset{
			Holding:      h,
			UnitPriceKES: price,
			ValueKES:     value.Round(2),
		})
		total = total.Add(value)
	}

	snapshot.TotalValueKES = total.Round(2)

	s.logger.Debug().
		Str("user_id", userID).
		Int("priced", len(snapshot.Priced)).
		Int("unpriced", len(snapshot.Unpriced)).
		Str("total_kes", snapshot.TotalValueKES.String()).
		Msg("Portfolio valued")

	return snapshot, nil
}
