// Package balance aggregates a user's holdings from the account backend.
package balance

import (
	"context"
	"fmt"

	"github.com/nsebridge/neo/internal/common"
	"github.com/nsebridge/neo/internal/interfaces"
	"github.com/nsebridge/neo/internal/models"
)

// Service implements the BalanceService interface. Every call
// re-authenticates; no session is cached.
type Service struct {
	backend  interfaces.BackendClient
	email    string
	password string
	logger   *common.Logger
}

// NewService creates a balance service using the configured service
// account for read-only access.
func NewService(backend interfaces.BackendClient, email, password string, logger *common.Logger) *Service {
	return &Service{
		backend:  backend,
		email:    email,
		password: password,
		logger:   logger,
	}
}

var _ interfaces.BalanceService = (*Service)(nil)

// GetHoldings fetches token and stock balances, degrading to empty slices
// on any upstream failure. Read paths must not fail a whole portfolio
// view because one fetch misbehaved.
func (s *Service) GetHoldings(ctx context.Context, userID string) ([]models.TokenBalance, []models.StockBalance, error) {
	tokens, stocks, err := s.fetch(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Balance fetch degraded to empty holdings")
		return []models.TokenBalance{}, []models.StockBalance{}, nil
	}
	return tokens, stocks, nil
}

// GetHoldingsStrict fetches the same balances but surfaces every failure.
// Paths that spend on the result must not see silently-empty holdings.
func (s *Service) GetHoldingsStrict(ctx context.Context, userID string) ([]models.TokenBalance, []models.StockBalance, error) {
	return s.fetch(ctx, userID)
}

// fetch reads holdings from the service session's profile. The backend
// has no per-user balance endpoint; userID only labels log output.
func (s *Service) fetch(ctx context.Context, userID string) ([]models.TokenBalance, []models.StockBalance, error) {
	token, err := s.backend.Login(ctx, s.email, s.password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	profile, err := s.backend.GetProfile(ctx, token)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int("tokens", len(profile.Tokens)).
		Int("stocks", len(profile.Stocks)).
		Msg("Holdings fetched")

	return profile.Tokens, profile.Stocks, nil
}
